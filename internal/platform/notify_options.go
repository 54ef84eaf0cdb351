// Package platform sends desktop notifications through whatever the host
// operating system provides.
package platform

import "time"

// AppName is reported to notification servers that group by application.
const AppName = "ShineyBlur"

// DefaultTimeout is how long a notification stays up when Options.Timeout is
// zero.
const DefaultTimeout = 5 * time.Second

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file shown alongside the
	// notification where supported.
	IconPath string
	Timeout  time.Duration
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}
