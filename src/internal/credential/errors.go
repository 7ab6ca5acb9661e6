package credential

import "errors"

var (
	// ErrScopeNotSupported is returned when the platform cannot protect for the requested scope.
	ErrScopeNotSupported = errors.New("protection scope not supported on this platform")
	// ErrSchemeUnavailable is returned when an envelope was produced by a scheme this platform lacks.
	ErrSchemeUnavailable = errors.New("protection scheme not available on this platform")
	// ErrMalformed is returned for envelopes that cannot be decoded.
	ErrMalformed = errors.New("malformed protected password")
	// ErrMachineID is returned when the machine identifier cannot be read.
	ErrMachineID = errors.New("machine id unavailable")
	// ErrDecrypt is returned when an envelope does not authenticate, typically because
	// it was produced on another machine.
	ErrDecrypt = errors.New("decryption failed")
)
