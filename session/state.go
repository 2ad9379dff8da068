package session

type State int

const (
	StateStart State = iota
	StateUnauthenticated
	StateVerifying
	StateVerified
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateVerifying:
		return "verifying"
	case StateVerified:
		return "verified"
	}
	return "unknown"
}

// Reason says why a navigation ended unauthenticated. It is logged and
// published, never shown: every reason looks the same to the user.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonNoToken         Reason = "no_token"
	ReasonRejected        Reason = "rejected"
	ReasonUnreachable     Reason = "unreachable"
	ReasonInvalidIdentity Reason = "invalid_identity"
	ReasonRoleMismatch    Reason = "role_mismatch"
)

// Routes of the account pages the flows hand off to.
const (
	VerifyOTPPath      = "/auth/verify-otp"
	ResetVerifyPath    = "/forgot-password/verify-otp"
	ResetPasswordPath  = "/forgot-password/reset-password"
	RegisterPath       = "/auth/register"
	ForgotPasswordPath = "/forgot-password"
)
