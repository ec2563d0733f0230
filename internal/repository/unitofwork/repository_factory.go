package unitofwork

import "context"

// RepositoryFactory hands out fresh units of work. Services hold the factory,
// never the *gorm.DB, so every operation decides its own transaction scope.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
