package portal

import "fmt"

// Status classifies the network as seen by a probe.
type Status int

const (
	// StatusDisconnected means the probe could not complete.
	StatusDisconnected Status = iota
	// StatusConnected means the internet is reachable.
	StatusConnected
	// StatusAuthenticationRequired means the campus portal intercepted the probe.
	StatusAuthenticationRequired
	// StatusAuthenticationUnknown means something intercepted the probe but it
	// does not look like the campus portal.
	StatusAuthenticationUnknown
)

func (s Status) String() string {
	switch s {
	case StatusConnected:
		return "connected"
	case StatusAuthenticationRequired:
		return "authentication-required"
	case StatusAuthenticationUnknown:
		return "authentication-unknown"
	default:
		return "disconnected"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ApInfo holds the access-point parameters required by the login request.
type ApInfo struct {
	UserIP string `json:"user_ip"`
	ACIP   string `json:"ac_ip,omitempty"`
	ACName string `json:"ac_name,omitempty"`
}

// NetworkStatus is the result of one probe. AP is set only for
// StatusAuthenticationRequired; Cause explains Disconnected and Unknown results.
type NetworkStatus struct {
	Status Status
	AP     *ApInfo
	Cause  error
}

func (n NetworkStatus) String() string {
	switch {
	case n.AP != nil:
		return fmt.Sprintf("%s (user ip %s)", n.Status, n.AP.UserIP)
	case n.Cause != nil:
		return fmt.Sprintf("%s (%v)", n.Status, n.Cause)
	default:
		return n.Status.String()
	}
}
