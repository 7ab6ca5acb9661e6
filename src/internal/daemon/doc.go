// Package daemon runs the check-and-login loop.
//
// Producers (the periodic timer, the platform network listener and any
// attached services such as the status API) push wake signals into a single
// coalescing queue. One consumer goroutine drains it, probes the network and
// logs in when the campus portal intercepts traffic. Only the consumer ever
// performs a login, so at most one attempt is in flight.
//
// Lifecycle is reported through an EventSink so the same loop can run in the
// foreground or under a service manager:
//
//	d, err := daemon.New(cfg)
//	if err != nil {
//	    return err
//	}
//	return d.Run(ctx, daemon.NopEventSink{})
package daemon
