package dto

// Mail event names; the producer publishes them as message keys and
// repeats them inside the payload so the consumer can route without
// the key.
const (
	EventOnboardingInvite   = "onboarding.invite"
	EventOnboardingApproved = "onboarding.approved"
	EventOnboardingChanges  = "onboarding.changes_requested"
	EventOnboardingRejected = "onboarding.rejected"
	EventAuthOTP            = "auth.otp"
	EventAuthOTPVerified    = "auth.otp_verified"
	EventAuthResetPassword  = "auth.reset_password"
)

// MailEvent is the wire payload consumed by cmd/mailer.
type MailEvent struct {
	Event string            `json:"event"`
	To    string            `json:"to"`
	Data  map[string]string `json:"data,omitempty"`
}
