package ports

import "context"

// ChangeRecorder stores mutation events for later relay.
type ChangeRecorder interface {
	RecordChange(ctx context.Context, evt EntityChangedEvent) error
}
