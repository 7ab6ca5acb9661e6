package credential

import (
	"strings"

	apperrors "github.com/maksimkurb/njupt-wifi-login/src/internal/errors"
)

// Scope controls who can recover a protected password.
type Scope int

const (
	// ScopeAnywhere keeps the password as plaintext.
	ScopeAnywhere Scope = iota
	// ScopeLocalMachine binds the password to this machine.
	ScopeLocalMachine
	// ScopeCurrentUser binds the password to the current OS user. Windows only.
	ScopeCurrentUser
)

func (s Scope) String() string {
	switch s {
	case ScopeAnywhere:
		return "anywhere"
	case ScopeLocalMachine:
		return "local-machine"
	case ScopeCurrentUser:
		return "current-user"
	default:
		return "unknown"
	}
}

// ParseScope converts a command-line scope name into a Scope.
func ParseScope(name string) (Scope, error) {
	switch strings.ToLower(name) {
	case "anywhere", "basic", "plain":
		return ScopeAnywhere, nil
	case "local-machine", "machine":
		return ScopeLocalMachine, nil
	case "current-user", "user":
		return ScopeCurrentUser, nil
	default:
		return ScopeAnywhere, apperrors.NewValidationError("unknown scope "+name, nil)
	}
}

const (
	envelopeVersion = "v1"
	schemeMachine   = "m"
	schemeDPAPI     = "w"
	envelopeSep     = "$"
)

// Password is either a plaintext (basic) secret or a protected envelope.
// The zero value is an empty basic password.
type Password struct {
	protected bool
	scheme    string
	// payload is the plaintext for basic passwords and the envelope body
	// (everything after "v1$<scheme>$") for protected ones.
	payload string
}

// Basic returns an unprotected password.
func Basic(plaintext string) Password {
	return Password{payload: plaintext}
}

// IsProtected reports whether the password is stored as an encrypted envelope.
func (p Password) IsProtected() bool {
	return p.protected
}

// Get recovers the plaintext. Protected passwords are decrypted on every call
// and a failure is reported as an error, never as an empty string.
func (p Password) Get() (string, error) {
	if !p.protected {
		return p.payload, nil
	}

	var (
		plain []byte
		err   error
	)
	switch p.scheme {
	case schemeMachine:
		plain, err = machineUnprotect(p.payload)
	case schemeDPAPI:
		plain, err = dpapiUnprotectEnvelope(p.payload)
	default:
		err = ErrSchemeUnavailable
	}
	if err != nil {
		return "", apperrors.NewPasswordError("failed to recover protected password", err)
	}
	return string(plain), nil
}

// String returns the serialized form. Protected envelopes are safe to print;
// basic passwords are masked.
func (p Password) String() string {
	if !p.protected {
		return "******"
	}
	return p.encode()
}

func (p Password) encode() string {
	if !p.protected {
		return p.payload
	}
	return envelopeVersion + envelopeSep + p.scheme + envelopeSep + p.payload
}

// MarshalText implements encoding.TextMarshaler.
func (p Password) MarshalText() ([]byte, error) {
	return []byte(p.encode()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Password) UnmarshalText(text []byte) error {
	parsed, err := ParsePassword(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePassword reads the serialized form produced by MarshalText.
// Any value starting with "v1$" is treated as a protected envelope.
func ParsePassword(text string) (Password, error) {
	prefix := envelopeVersion + envelopeSep
	if !strings.HasPrefix(text, prefix) {
		return Basic(text), nil
	}

	scheme, payload, ok := strings.Cut(strings.TrimPrefix(text, prefix), envelopeSep)
	if !ok || payload == "" {
		return Password{}, apperrors.NewConfigError("malformed protected password", ErrMalformed)
	}

	switch scheme {
	case schemeMachine:
		if _, _, err := splitMachinePayload(payload); err != nil {
			return Password{}, apperrors.NewConfigError("malformed protected password", err)
		}
	case schemeDPAPI:
		if _, err := decodeDPAPIPayload(payload); err != nil {
			return Password{}, apperrors.NewConfigError("malformed protected password", err)
		}
	default:
		return Password{}, apperrors.NewConfigError("unknown password protection scheme "+scheme, ErrMalformed)
	}

	return Password{protected: true, scheme: scheme, payload: payload}, nil
}

// Protect encrypts plaintext for the given scope.
func Protect(plaintext string, scope Scope) (Password, error) {
	if scope == ScopeAnywhere {
		return Basic(plaintext), nil
	}
	return protectForScope([]byte(plaintext), scope)
}
