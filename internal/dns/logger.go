package dns

import "github.com/sirupsen/logrus"

// Log is a package-global logger used throughout the library. Configuration
// can be changed directly on this instance or the instance replaced.
var Log = logrus.New()

func logger(resolver, domain string) *logrus.Entry {
	return Log.WithFields(logrus.Fields{
		"resolver": resolver,
		"domain":   domain,
	})
}
