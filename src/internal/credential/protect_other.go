//go:build !windows

package credential

import "fmt"

func protectForScope(plain []byte, scope Scope) (Password, error) {
	switch scope {
	case ScopeLocalMachine:
		return machineProtect(plain)
	default:
		return Password{}, fmt.Errorf("%w: %s", ErrScopeNotSupported, scope)
	}
}

func dpapiUnprotectEnvelope(string) ([]byte, error) {
	return nil, ErrSchemeUnavailable
}
