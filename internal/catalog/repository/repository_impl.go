package repository

import (
	"context"

	"github.com/smallbiznis/pointsale/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) LoadCatalog(ctx context.Context, db *gorm.DB) ([]domain.Item, error) {
	var items []domain.Item
	err := db.WithContext(ctx).Raw(
		`SELECT id, title, title_key, price, created_at
		 FROM catalog_items ORDER BY created_at ASC, id ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SaveCatalog replaces the stored catalog with items, preserving their order.
func (r *repo) SaveCatalog(ctx context.Context, db *gorm.DB, items []domain.Item) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM catalog_items`).Error; err != nil {
			return err
		}
		for _, item := range items {
			if err := tx.Exec(
				`INSERT INTO catalog_items (id, title, title_key, price, created_at)
				 VALUES (?, ?, ?, ?, ?)`,
				item.ID,
				item.Title,
				domain.TitleKey(item.Title),
				item.Price,
				item.CreatedAt,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
