package mockapi

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/octabyte/medtrack-gommon/enums"
	"github.com/octabyte/medtrack-gommon/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	errNotFound   = errors.New("not found")
	errEmailTaken = errors.New("The email has already been taken.")
)

type account struct {
	user         models.User
	passwordHash []byte
	verified     bool
}

// Store is the in-memory state behind the development backend.
type Store struct {
	mu           sync.RWMutex
	now          func() time.Time
	accounts     map[string]*account
	byEmail      map[string]string
	tokens       map[string]string
	otps         map[string]string
	resetTokens  map[string]string
	appointments []*models.Appointment
	records      []*models.MedicalRecord
}

func newStore(now func() time.Time) *Store {
	return &Store{
		now:         now,
		accounts:    make(map[string]*account),
		byEmail:     make(map[string]string),
		tokens:      make(map[string]string),
		otps:        make(map[string]string),
		resetTokens: make(map[string]string),
	}
}

// Resolve implements the session resolver used by the bearer middleware.
func (s *Store) Resolve(_ context.Context, token string) (models.Identity, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.tokens[token]
	if !ok {
		return models.Identity{}, false, nil
	}
	acc, ok := s.accounts[id]
	if !ok {
		return models.Identity{}, false, nil
	}
	return identityOf(acc.user), true, nil
}

func identityOf(u models.User) models.Identity {
	return models.Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func refOf(u models.User) models.UserRef {
	return models.UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (s *Store) addUser(name, email, password string, role enums.Role, phone string, verified bool) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, taken := s.byEmail[key]; taken {
		return models.User{}, errEmailTaken
	}

	now := s.now()
	user := models.User{
		ID:          uuid.NewString(),
		Name:        name,
		Email:       email,
		Role:        role,
		PhoneNumber: phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if verified {
		user.EmailVerifiedAt = &now
	}
	s.accounts[user.ID] = &account{user: user, passwordHash: hash, verified: verified}
	s.byEmail[key] = user.ID
	return user, nil
}

// authenticate checks a password. The boolean reports whether the email is
// verified.
func (s *Store) authenticate(email, password string) (models.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return models.User{}, false, errNotFound
	}
	acc := s.accounts[id]
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return models.User{}, false, errNotFound
	}
	return acc.user, acc.verified, nil
}

func (s *Store) issueToken(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	s.tokens[token] = userID
	return token
}

func (s *Store) revokeTokens(userID string) {
	for token, id := range s.tokens {
		if id == userID {
			delete(s.tokens, token)
		}
	}
}

func (s *Store) userByEmail(email string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return models.User{}, false
	}
	return s.accounts[id].user, true
}

func (s *Store) user(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return models.User{}, false
	}
	return acc.user, true
}

func (s *Store) setOTP(email, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.otps[strings.ToLower(email)] = code
}

// consumeOTP checks and burns a code.
func (s *Store) consumeOTP(email, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if stored, ok := s.otps[key]; !ok || stored != code {
		return false
	}
	delete(s.otps, key)
	return true
}

func (s *Store) markVerified(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return
	}
	now := s.now()
	acc := s.accounts[id]
	acc.verified = true
	acc.user.EmailVerifiedAt = &now
}

func (s *Store) issueResetToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	s.resetTokens[strings.ToLower(email)] = token
	return token
}

func (s *Store) resetPassword(email, token, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if stored, ok := s.resetTokens[key]; !ok || stored != token {
		return errNotFound
	}
	delete(s.resetTokens, key)

	acc := s.accounts[s.byEmail[key]]
	acc.passwordHash = hash
	s.revokeTokens(acc.user.ID)
	return nil
}

func (s *Store) updateUser(id string, fn func(u *models.User, acc *account) error) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return models.User{}, errNotFound
	}
	if err := fn(&acc.user, acc); err != nil {
		return models.User{}, err
	}
	acc.user.UpdatedAt = s.now()
	return acc.user, nil
}

func (s *Store) updateProfile(id string, req models.ProfileUpdate) (models.User, error) {
	var hash []byte
	if req.Password != "" {
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost); err != nil {
			return models.User{}, err
		}
	}

	return s.updateUser(id, func(u *models.User, acc *account) error {
		if req.Name != "" {
			u.Name = req.Name
		}
		if req.Email != "" && !strings.EqualFold(req.Email, u.Email) {
			delete(s.byEmail, strings.ToLower(u.Email))
			s.byEmail[strings.ToLower(req.Email)] = u.ID
			u.Email = req.Email
		}
		if hash != nil {
			acc.passwordHash = hash
		}
		return nil
	})
}

func (s *Store) deleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return errNotFound
	}
	delete(s.byEmail, strings.ToLower(acc.user.Email))
	delete(s.accounts, id)
	s.revokeTokens(id)
	return nil
}

func (s *Store) usersByRole(role enums.Role, search string) []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.User
	for _, acc := range s.accounts {
		if acc.user.Role != role {
			continue
		}
		if !matches(search, acc.user.Name, acc.user.Email) {
			continue
		}
		out = append(out, acc.user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) || (out[i].CreatedAt.Equal(out[j].CreatedAt) && out[i].Name < out[j].Name) })
	return out
}

func (s *Store) addAppointment(patient models.User, date time.Time, complaint, notes string) models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	appt := &models.Appointment{
		ID:             uuid.NewString(),
		Patient:        refOf(patient),
		Date:           date,
		Status:         enums.AppointmentStatusPending,
		ChiefComplaint: complaint,
		Notes:          notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.appointments = append(s.appointments, appt)
	return *appt
}

type filter struct {
	patientID string
	search    string
	status    string
	startDate string
	endDate   string
}

func (f filter) admits(patientID, date, status string, text ...string) bool {
	if f.patientID != "" && patientID != f.patientID {
		return false
	}
	if f.status != "" && status != f.status {
		return false
	}
	if f.startDate != "" && date < f.startDate {
		return false
	}
	if f.endDate != "" && date > f.endDate {
		return false
	}
	return matches(f.search, text...)
}

func (s *Store) listAppointments(f filter) []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Appointment
	for _, a := range s.appointments {
		if f.admits(a.Patient.ID, a.Date.UTC().Format(dateLayout), string(a.Status), a.Patient.Name, a.ChiefComplaint) {
			out = append(out, *a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (s *Store) appointment(id string) (models.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.appointments {
		if a.ID == id {
			return *a, true
		}
	}
	return models.Appointment{}, false
}

func (s *Store) setAppointmentStatus(id string, status enums.AppointmentStatus, staff *models.User) (models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.appointments {
		if a.ID != id {
			continue
		}
		a.Status = status
		if staff != nil {
			ref := refOf(*staff)
			a.Staff = &ref
		}
		a.UpdatedAt = s.now()
		return *a, nil
	}
	return models.Appointment{}, errNotFound
}

func (s *Store) addRecord(patient, staff models.User, appt *models.Appointment, req models.CreateMedicalRecord) models.MedicalRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	record := &models.MedicalRecord{
		ID:             uuid.NewString(),
		Patient:        refOf(patient),
		CreatedBy:      refOf(staff),
		VisitDate:      req.VisitDate,
		ChiefComplaint: req.ChiefComplaint,
		VitalSigns:     req.VitalSigns,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if appt != nil {
		record.Appointment = &models.AppointmentRef{ID: appt.ID, Date: appt.Date, Status: string(appt.Status)}
	}
	if req.Notes != "" {
		notes := req.Notes
		record.Notes = &notes
	}
	if req.Diagnosis != "" {
		diagnosis := req.Diagnosis
		record.Diagnosis = &diagnosis
	}
	s.records = append(s.records, record)
	return *record
}

func (s *Store) listRecords(f filter) []models.MedicalRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.MedicalRecord
	for _, r := range s.records {
		diagnosis := ""
		if r.Diagnosis != nil {
			diagnosis = *r.Diagnosis
		}
		if f.admits(r.Patient.ID, r.VisitDate, "", r.Patient.Name, r.ChiefComplaint, diagnosis) {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].VisitDate > out[j].VisitDate })
	return out
}

func (s *Store) updateRecord(id string, req models.UpdateMedicalRecord) (models.MedicalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.ID != id {
			continue
		}
		r.VisitDate = req.VisitDate
		r.ChiefComplaint = req.ChiefComplaint
		diagnosis, notes := req.Diagnosis, req.Notes
		r.Diagnosis, r.Notes = &diagnosis, &notes
		r.UpdatedAt = s.now()
		return *r, nil
	}
	return models.MedicalRecord{}, errNotFound
}

func (s *Store) deleteRecord(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func matches(search string, fields ...string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}
