//go:build !linux && !windows

package netwatch

type noopListener struct{}

// New returns a listener that never fires.
func New(string) Listener {
	return noopListener{}
}

func (noopListener) InitialNotification() bool {
	return false
}

func (noopListener) Register(func() bool) (Handle, error) {
	return noopHandle{}, nil
}

type noopHandle struct{}

func (noopHandle) Close() error {
	return nil
}
