package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles all repository implementations for dependency injection
type Repositories struct {
	UserRepository     *UserRepository
	DocumentRepository *DocumentRepository
}

// NewRepositories creates all repositories backed by the given pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:     NewUserRepository(db),
		DocumentRepository: NewDocumentRepository(db),
	}
}
