package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type Service interface {
	AddItem(ctx context.Context, req AddItemRequest) (Item, error)
	RemoveItem(ctx context.Context, title string) error
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, title string) (Item, error)
}

type AddItemRequest struct {
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

var (
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidPrice       = errors.New("invalid_price")
	ErrDuplicateItem      = errors.New("duplicate_item")
	ErrNotFound           = errors.New("not_found")
	ErrStorageUnavailable = errors.New("storage_unavailable")
)
