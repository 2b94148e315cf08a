package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Item struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	Title     string          `gorm:"type:text;not null" json:"title"`
	TitleKey  string          `gorm:"column:title_key;type:text;not null;uniqueIndex:ux_catalog_items_title_key" json:"-"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Item) TableName() string { return "catalog_items" }

// TitleKey is the case-insensitive identity of a catalog title.
func TitleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
