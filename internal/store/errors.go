package store

import "errors"

var (
	// ErrInvalidInput reports a malformed or out-of-range event payload.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFoundOrUsed reports a failed reservation cancellation. Whether
	// the OTP never existed or was already redeemed is deliberately not
	// distinguished, so callers cannot probe which OTPs ever existed.
	ErrNotFoundOrUsed = errors.New("reservation not found or already used")

	// ErrAccessDenied reports a failed OTP redemption. It covers not-found,
	// already-used and malformed codes alike; a physical access point has
	// no business learning which one it was.
	ErrAccessDenied = errors.New("access denied")

	// ErrOTPExhausted reports that OTP generation ran out of attempts to
	// find an unused 4-digit code.
	ErrOTPExhausted = errors.New("otp space exhausted")
)
