// Package netwatch delivers a notification whenever the OS reports a network
// change that may require a new portal login.
//
// Each platform has its own source:
//
//   - Linux: new routes with a gateway, from a netlink route subscription.
//   - Windows: connectivity hint changes to local or constrained access.
//   - Elsewhere: nothing; the periodic check still runs.
//
// Only Windows fires an initial notification on registration. Callers that need
// a check at startup consult InitialNotification.
package netwatch

// Handle stops a registration. Close is idempotent.
type Handle interface {
	Close() error
}

// Listener registers a change callback. The callback returns false once its
// consumer is gone, after which the listener stops on its own.
type Listener interface {
	Register(onChange func() bool) (Handle, error)
	// InitialNotification reports whether Register fires onChange once right away.
	InitialNotification() bool
}
