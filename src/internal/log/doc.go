// Package log provides leveled logging for njupt-wifi-login.
//
// The package keeps a single global logrus logger behind printf-style helpers
// so call sites stay short. Structured fields are available through WithFields
// for messages that belong to a single login attempt.
//
// # Example Usage
//
//	log.Infof("Starting daemon on interface %s", iface)
//	log.WithFields(log.Fields{"attempt": id}).Warnf("Login rejected: %v", err)
//
// Enabling debug output:
//
//	log.SetVerbose(true)
//	log.Debugf("Probe response: %d", code)
//
// Writing to a file instead of the console:
//
//	if err := log.SetOutputFile("/var/log/njupt-wifi-login.log"); err != nil {
//	    log.Fatalf("Cannot open log file: %v", err)
//	}
package log
