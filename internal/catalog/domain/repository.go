package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	LoadCatalog(ctx context.Context, db *gorm.DB) ([]Item, error)
	SaveCatalog(ctx context.Context, db *gorm.DB, items []Item) error
}
