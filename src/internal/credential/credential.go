package credential

import (
	"strings"

	apperrors "github.com/maksimkurb/njupt-wifi-login/src/internal/errors"
)

// IspType selects the account suffix expected by the portal.
type IspType string

const (
	IspEDU  IspType = "EDU"
	IspCMCC IspType = "CMCC"
	IspCT   IspType = "CT"
)

// ParseIspType accepts the ISP name in any letter case.
func ParseIspType(name string) (IspType, error) {
	switch IspType(strings.ToUpper(strings.TrimSpace(name))) {
	case IspEDU:
		return IspEDU, nil
	case IspCMCC:
		return IspCMCC, nil
	case IspCT:
		return IspCT, nil
	default:
		return "", apperrors.NewValidationError("unknown isp "+name, nil)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *IspType) UnmarshalText(text []byte) error {
	parsed, err := ParseIspType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Credential is the account used for portal login.
type Credential struct {
	UserID   string
	Password Password
	ISP      IspType
}

// DeriveAccount returns the login account name for the ISP.
func (c Credential) DeriveAccount() string {
	switch c.ISP {
	case IspCMCC:
		return c.UserID + "@cmcc"
	case IspCT:
		return c.UserID + "@njxy"
	default:
		return c.UserID
	}
}
