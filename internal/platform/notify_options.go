// Package platform posts desktop notifications through the host's
// notification service.
package platform

import "time"

// AppName identifies the sender to the notification service.
const AppName = "Photomark"

// DefaultTimeout is how long a notification stays up when Options.Timeout
// is zero.
const DefaultTimeout = 5 * time.Second

// Options configures how a notification is displayed.
type Options struct {
	// IconPath points to an image shown with the notification where the
	// platform supports it.
	IconPath string
	Timeout  time.Duration
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}
