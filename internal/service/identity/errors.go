package identity

// Reason codes carried by a login denial. Clients branch on the code; the
// message is already safe to display.
const (
	ReasonVerifyEmail = "verify_email"
	ReasonNotInvited  = "not_invited"
	ReasonRestricted  = "restricted"
	ReasonSetupFailed = "setup_failed"
)

// DenialError is a login refused by the resolution flow, as opposed to a bad
// credential or an infrastructure failure.
type DenialError struct {
	Reason  string
	Message string
}

func (e *DenialError) Error() string { return e.Message }

// ErrUnverified denies login until the email address is verified.
func ErrUnverified() *DenialError {
	return &DenialError{
		Reason:  ReasonVerifyEmail,
		Message: "please verify your email address before signing in",
	}
}

// ErrNotInvited denies login for accounts with no role registry entry.
func ErrNotInvited() *DenialError {
	return &DenialError{
		Reason:  ReasonNotInvited,
		Message: "this account has not been invited; contact an administrator",
	}
}

// ErrRestricted denies login for disabled accounts.
func ErrRestricted() *DenialError {
	return &DenialError{
		Reason:  ReasonRestricted,
		Message: "this account has been restricted; contact an administrator",
	}
}

// ErrSetupFailed denies login when first-login provisioning could not
// complete. The attempt is safe to retry.
func ErrSetupFailed() *DenialError {
	return &DenialError{
		Reason:  ReasonSetupFailed,
		Message: "account setup failed; please try again",
	}
}
