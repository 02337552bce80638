package service

import "errors"

// Sentinel errors carry the exact response messages the API contract
// promises. Handlers map them to HTTP status codes and echo the message in
// the fail envelope.
var (
	ErrInvalidCredentials = errors.New("Invalid Credentials")
	ErrAccountRestricted  = errors.New("Account access restricted")
	ErrPermissionDenied   = errors.New("Permission Denied. Please log out and login again")
	ErrIncorrectPIN       = errors.New("Incorrect pin.")
	ErrIncorrectPassword  = errors.New("Incorrect password.")

	ErrPasscodeVerification = errors.New("Verification failed. Try with the correct passcode and if this continues, restart login.")
	ErrPasscodeResend       = errors.New("Failed to send passcode. Restart login.")

	ErrCurrencyExists   = errors.New("Currency already exists. Try editing it instead")
	ErrCurrencyMissing  = errors.New("Currency does not exist.")
	ErrCurrencyNotFound = errors.New("Currency not found")

	ErrPhoneTaken    = errors.New("The phone number is registered to another administrator.")
	ErrEmailTaken    = errors.New("The email address is registered to another administrator.")
	ErrAdminNotFound = errors.New("Administrator not found")

	ErrBureauNotFound = errors.New("Bureau not found")
	ErrRateNotFound   = errors.New("Rate not found")
)

// ValidationError reports a rejected request field. The message is surfaced
// verbatim to the client.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationError(msg string) error { return &ValidationError{Msg: msg} }
