package notification

import "context"

// Channel is one delivery mechanism. Send failures are isolated per channel
// by the dispatcher; a channel that cannot reach its recipient (no email, no
// device token) returns nil and skips silently.
type Channel interface {
	Name() string
	Send(ctx context.Context, item WorkItem) error
}
