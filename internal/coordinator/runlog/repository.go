package runlog

import "context"

// Repository persists run log entries. Save appends; entries are never
// updated.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
}
