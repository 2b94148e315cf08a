package domain

import (
	"context"

	"gorm.io/gorm"
)

// Repository is the account side of the persistence gateway. Writes are
// whole-set snapshots; there are no per-field updates.
type Repository interface {
	FindByUsername(ctx context.Context, db *gorm.DB, username string) (*Account, error)
	LoadAll(ctx context.Context, db *gorm.DB) (map[string]*Account, error)
	SaveAll(ctx context.Context, db *gorm.DB, accounts map[string]*Account) error
}
