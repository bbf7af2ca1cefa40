// Package obs carries the ambient logging and metrics stack shared by the
// server and client sessions. It is constructed explicitly by callers (never
// a package-level global) per the spec's note that process-wide state should
// be an explicit, immutable-after-init value, not a hidden global.
package obs

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds a logrus.Logger formatted in the teacher's terse,
// timestamped, colorized style. component is attached to every line so
// server and client sessions (and loopback co-tenants of one process) are
// distinguishable in interleaved output.
func NewLogger(component string) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return l.WithField("component", component)
}
