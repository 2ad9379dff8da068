package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/octabyte/medtrack-gommon/api"
	"github.com/octabyte/medtrack-gommon/enums"
	"github.com/octabyte/medtrack-gommon/listing"
	"github.com/octabyte/medtrack-gommon/models"
	"github.com/octabyte/medtrack-gommon/rbac"
	"github.com/octabyte/medtrack-gommon/session"
	"github.com/octabyte/medtrack-gommon/utils"
)

type command struct {
	name  string
	usage string
	run   func(a *app, ctx context.Context, args []string) error
}

var commands = []command{
	{"login", "login -email E -password P", (*app).login},
	{"logout", "logout", (*app).logout},
	{"whoami", "whoami", (*app).whoami},
	{"nav", "nav [path]", (*app).nav},
	{"register", "register -name N -email E -password P", (*app).register},
	{"verify-otp", "verify-otp -code C | -resend", (*app).verifyOTP},
	{"forgot-password", "forgot-password -email E", (*app).forgotPassword},
	{"reset-code", "reset-code -code C | -resend", (*app).resetCode},
	{"reset-password", "reset-password -password P -confirm P", (*app).resetPassword},
	{"appointments", "appointments [-page N] [-search S] [-status S] [-from D] [-to D] [-today] [-user ID]", (*app).appointments},
	{"book", "book -date YYYY-MM-DD -complaint C [-notes N]", (*app).book},
	{"set-status", "set-status -id ID -status S", (*app).setStatus},
	{"records", "records [-page N] [-search S] [-user ID]", (*app).records},
	{"users", "users -role patient|staff [-page N] [-search S]", (*app).users},
	{"analytics", "analytics", (*app).analytics},
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage(a.out)
		return errUsage
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.run(a, ctx, args[1:])
		}
	}
	a.usage(a.out)
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

func (a *app) usage(w io.Writer) {
	fmt.Fprintln(w, "usage: medtrack <command> [flags]")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %s\n", cmd.usage)
	}
}

func (a *app) parse(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	result, err := a.session.Auth.Login(ctx, models.Credentials{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	if result.NeedsVerification {
		a.printf("Email not verified. A code was sent to %s; run: medtrack verify-otp -code <code>\n", *email)
		return nil
	}
	a.printf("Logged in as %s (%s). Home: %s\n", result.Identity.Name, result.Identity.Role, result.Next)
	return nil
}

func (a *app) logout(ctx context.Context, _ []string) error {
	next, err := a.session.Logout(ctx)
	if err != nil {
		return err
	}
	a.printf("Logged out. Next: %s\n", next)
	return nil
}

func (a *app) whoami(ctx context.Context, _ []string) error {
	caps, err := a.enter(ctx)
	if err != nil {
		return err
	}
	identity, _ := a.session.Reader().Identity()
	a.printf("%s <%s>\nrole: %s\nid: %s\nhome: %s\n", identity.Name, identity.Email, identity.Role, identity.ID, caps.Home)
	return nil
}

func (a *app) nav(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if _, err := a.navigate(ctx, args[0]); err != nil {
			return err
		}
		a.printf("%s\n", utils.TitleFromSlug(args[0]))
		return nil
	}

	caps, err := a.enter(ctx)
	if err != nil {
		return err
	}
	identity, _ := a.session.Reader().Identity()
	a.printf("Welcome, %s\n", identity.FirstName())
	printNav(a.out, caps.Navigation, 0)
	return nil
}

func printNav(w io.Writer, items []rbac.NavItem, depth int) {
	for _, item := range items {
		fmt.Fprintf(w, "%s%-*s %s\n", strings.Repeat("  ", depth), 24-2*depth, item.Title, item.URL)
		printNav(w, item.Items, depth+1)
	}
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	var req models.Registration
	fs.StringVar(&req.Name, "name", "", "full name")
	fs.StringVar(&req.Email, "email", "", "email")
	fs.StringVar(&req.Password, "password", "", "password")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if _, err := a.session.Accounts.Register(ctx, req); err != nil {
		return err
	}
	a.printf("Registered. Check %s for the code, then run: medtrack verify-otp -code <code>\n", req.Email)
	return nil
}

func (a *app) verifyOTP(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("verify-otp", flag.ContinueOnError)
	code := fs.String("code", "", "six digit code")
	resend := fs.Bool("resend", false, "send a new code")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if *resend {
		if err := a.session.Accounts.ResendOTP(ctx); err != nil {
			return err
		}
		a.printf("A new code was sent.\n")
		return nil
	}
	if _, err := a.session.Accounts.VerifyEmail(ctx, *code); err != nil {
		return err
	}
	a.printf("Email verified. You can now log in.\n")
	return nil
}

func (a *app) forgotPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("forgot-password", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if _, err := a.session.Accounts.ForgotPassword(ctx, *email); err != nil {
		return err
	}
	a.printf("A reset code was sent to %s; run: medtrack reset-code -code <code>\n", *email)
	return nil
}

func (a *app) resetCode(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset-code", flag.ContinueOnError)
	code := fs.String("code", "", "six digit code")
	resend := fs.Bool("resend", false, "send a new code")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if *resend {
		if err := a.session.Accounts.ResendResetCode(ctx); err != nil {
			return err
		}
		a.printf("A new code was sent.\n")
		return nil
	}
	if _, err := a.session.Accounts.VerifyResetCode(ctx, *code); err != nil {
		return err
	}
	a.printf("Code accepted; run: medtrack reset-password -password <new> -confirm <new>\n")
	return nil
}

func (a *app) resetPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	password := fs.String("password", "", "new password")
	confirm := fs.String("confirm", "", "new password again")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if _, err := a.session.Accounts.ResetPassword(ctx, *password, *confirm); err != nil {
		return err
	}
	a.printf("Password updated. You can now log in.\n")
	return nil
}

type listFlags struct {
	page   int
	search string
	status string
	from   string
	to     string
	user   string
}

func (f *listFlags) register(fs *flag.FlagSet, withDates bool) {
	fs.IntVar(&f.page, "page", 1, "page number")
	fs.StringVar(&f.search, "search", "", "search text")
	fs.StringVar(&f.user, "user", "", "only this patient")
	if withDates {
		fs.StringVar(&f.status, "status", "", "appointment status")
		fs.StringVar(&f.from, "from", "", "start date YYYY-MM-DD")
		fs.StringVar(&f.to, "to", "", "end date YYYY-MM-DD")
	}
}

func (f *listFlags) params() (api.ListParams, error) {
	params := api.ListParams{Page: f.page, Search: f.search, Status: enums.AppointmentStatus(f.status)}
	if params.Status != "" && !params.Status.Valid() {
		return params, fmt.Errorf("%w: unknown status %q", errUsage, f.status)
	}
	var err error
	if params.StartDate, err = parseDate(f.from); err != nil {
		return params, err
	}
	if params.EndDate, err = parseDate(f.to); err != nil {
		return params, err
	}
	return params, nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(utils.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", errUsage, value)
	}
	return t, nil
}

// load fetches one page through a lister so the list rules (page reset,
// stale drop) are the same as in any other front end.
func load[T any](ctx context.Context, a *app, fetch listing.Fetch[T], params api.ListParams) (models.Page[T], error) {
	l := listing.NewLister(ctx, fetch, listing.Options[T]{Debounce: a.cfg.SearchDebounce(), Logger: a.log})
	defer l.Close()
	if err := l.Apply(ctx, params); err != nil {
		return models.Page[T]{}, err
	}
	return l.State().Page, nil
}

func (a *app) footer(number int, hasNext bool) {
	next := "no"
	if hasNext {
		next = "yes"
	}
	a.printf("page %d, more: %s\n", number, next)
}

func (a *app) appointments(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("appointments", flag.ContinueOnError)
	var f listFlags
	f.register(fs, true)
	today := fs.Bool("today", false, "only today's schedule")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	params, err := f.params()
	if err != nil {
		return err
	}

	caps, err := a.enter(ctx)
	if err != nil {
		return err
	}

	fetch := func(ctx context.Context, p api.ListParams) (models.Page[models.Appointment], error) {
		switch {
		case f.user != "":
			return a.client.Appointments.ForUser(ctx, f.user, p)
		case *today:
			return a.client.Appointments.Today(ctx, caps.Endpoints.Appointments, p.Page, a.now)
		default:
			return a.client.Appointments.ListFrom(ctx, caps.Endpoints.Appointments, p)
		}
	}
	if f.user != "" && !caps.Can(rbac.ActionViewAllAppointments) {
		return fmt.Errorf("your role cannot view other patients' appointments")
	}

	page, err := load[models.Appointment](ctx, a, fetch, params)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tPATIENT\tSTATUS\tCOMPLAINT")
	for _, appt := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", appt.ID, utils.FromUTCToTimezone(appt.Date, a.cfg.App.Timezone).Format(utils.DateLayout), appt.Patient.Name, appt.Status, appt.ChiefComplaint)
	}
	if err = w.Flush(); err != nil {
		return err
	}
	a.footer(page.Number, page.HasNext)
	return nil
}

func (a *app) book(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("book", flag.ContinueOnError)
	var req models.CreateAppointment
	fs.StringVar(&req.Date, "date", "", "YYYY-MM-DD")
	fs.StringVar(&req.ChiefComplaint, "complaint", "", "reason for the visit")
	fs.StringVar(&req.Notes, "notes", "", "notes")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	caps, err := a.enter(ctx)
	if err != nil {
		return err
	}
	if !caps.Can(rbac.ActionCreateAppointment) {
		return fmt.Errorf("your role cannot book appointments")
	}
	if err = a.client.Appointments.Create(ctx, req); err != nil {
		return err
	}
	a.printf("Appointment requested for %s.\n", req.Date)
	return nil
}

func (a *app) setStatus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("set-status", flag.ContinueOnError)
	id := fs.String("id", "", "appointment id")
	status := fs.String("status", "", "new status")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	caps, err := a.enter(ctx)
	if err != nil {
		return err
	}
	target := enums.AppointmentStatus(*status)
	if !caps.CanTransition(target) {
		allowed := make([]string, len(caps.StatusTransitions))
		for i, s := range caps.StatusTransitions {
			allowed[i] = string(s)
		}
		return fmt.Errorf("a %s cannot set status %q (allowed: %s)", caps.Role, *status, strings.Join(allowed, ", "))
	}
	if err = a.client.Appointments.UpdateStatus(ctx, *id, models.UpdateAppointmentStatus{Status: target}); err != nil {
		return err
	}
	a.printf("Appointment %s is now %s.\n", *id, target)
	return nil
}

func (a *app) records(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("records", flag.ContinueOnError)
	var f listFlags
	f.register(fs, false)
	if err := a.parse(fs, args); err != nil {
		return err
	}
	params, err := f.params()
	if err != nil {
		return err
	}

	caps, err := a.enter(ctx)
	if err != nil {
		return err
	}
	if f.user != "" && !caps.Can(rbac.ActionManageMedicalRecords) {
		return fmt.Errorf("your role cannot view other patients' records")
	}

	fetch := func(ctx context.Context, p api.ListParams) (models.Page[models.MedicalRecord], error) {
		if f.user != "" {
			return a.client.MedicalRecords.ForUser(ctx, f.user, p)
		}
		return a.client.MedicalRecords.ListFrom(ctx, caps.Endpoints.MedicalRecords, p)
	}
	page, err := load[models.MedicalRecord](ctx, a, fetch, params)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVISIT\tPATIENT\tCOMPLAINT\tDIAGNOSIS")
	for _, record := range page.Items {
		diagnosis := "-"
		if record.Diagnosis != nil && *record.Diagnosis != "" {
			diagnosis = *record.Diagnosis
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", record.ID, record.VisitDate, record.Patient.Name, record.ChiefComplaint, diagnosis)
	}
	if err = w.Flush(); err != nil {
		return err
	}
	a.footer(page.Number, page.HasNext)
	return nil
}

func (a *app) users(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("users", flag.ContinueOnError)
	role := fs.String("role", string(enums.RolePatient), "patient or staff")
	page := fs.Int("page", 1, "page number")
	search := fs.String("search", "", "search text")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	caps, err := a.enter(ctx)
	if err != nil {
		return err
	}

	target := enums.Role(*role)
	switch target {
	case enums.RolePatient:
		if !caps.Can(rbac.ActionViewPatients) {
			return fmt.Errorf("your role cannot view patients")
		}
	case enums.RoleStaff:
		access, err := a.session.CheckAccess(ctx, rbac.ActionViewStaff)
		if err != nil {
			return err
		}
		if access == session.AccessForbidden {
			return fmt.Errorf("403: you do not have access to the staff directory")
		}
	default:
		return fmt.Errorf("%w: role must be patient or staff", errUsage)
	}

	fetch := func(ctx context.Context, p api.ListParams) (models.Page[models.User], error) {
		return a.client.Users.ListByRole(ctx, target, p)
	}
	result, err := load[models.User](ctx, a, fetch, api.ListParams{Page: *page, Search: *search})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE")
	for _, user := range result.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", user.ID, user.Name, user.Email, user.PhoneNumber)
	}
	if err = w.Flush(); err != nil {
		return err
	}
	a.footer(result.Number, result.HasNext)
	return nil
}

func (a *app) analytics(ctx context.Context, _ []string) error {
	caps, err := a.enter(ctx)
	if err != nil {
		return err
	}
	if !caps.Can(rbac.ActionViewAnalytics) {
		return fmt.Errorf("your role cannot view analytics")
	}

	summary, err := a.client.Analytics.Get(ctx)
	if err != nil {
		return err
	}

	appts := summary.Appointments
	a.printf("Appointments: %d total, %.1f per day\n", appts.StatusBreakdown.Total, appts.AveragePerDay.Average)
	breakdown := append([]models.StatusCount(nil), appts.StatusBreakdown.Breakdown...)
	sort.Slice(breakdown, func(i, j int) bool { return breakdown[i].Count > breakdown[j].Count })
	for _, s := range breakdown {
		a.printf("  %-10s %4d  %5.1f%%\n", s.Status, s.Count, s.Percentage)
	}
	for _, d := range summary.Diagnoses.Distribution {
		a.printf("  %-20s %4d\n", d.Diagnosis, d.Count)
	}
	return nil
}
