package ports

import "context"

// AdminStore persists the administrator list.
type AdminStore interface {
	// Load returns the saved ids in order. An empty slice with a nil error
	// means nothing was saved yet.
	Load(ctx context.Context) ([]int64, error)

	// Save replaces the saved list with ids.
	Save(ctx context.Context, ids []int64) error
}
