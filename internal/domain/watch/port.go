package watch

import "context"

// Repo is the durable watch registry. Owner-scoped calls never touch rows of
// other owners; every mutation is a single statement.
type Repo interface {
	Create(ctx context.Context, owner, url string, status Status) (int64, error)
	Delete(ctx context.Context, owner, url string) (int64, error)
	ListByOwner(ctx context.Context, owner string) ([]*Watch, error)
	ListAll(ctx context.Context) ([]*Watch, error)
	Clear(ctx context.Context, owner string) (int64, error)
}
