package contact

import "context"

// Repository reads and seeds contact details.
type Repository interface {
	// First returns the first contact record, or nil when there is none.
	First(ctx context.Context) (*Info, error)
	Create(ctx context.Context, info *Info) error
}
