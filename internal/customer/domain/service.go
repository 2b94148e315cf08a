package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Username       string
	Password       string
	InitialBalance decimal.Decimal
}

type AdjustBalanceRequest struct {
	Username string
	Amount   decimal.Decimal
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (Account, error)
	Remove(ctx context.Context, username string) error
	AdjustBalance(ctx context.Context, req AdjustBalanceRequest) (Account, error)
	Get(ctx context.Context, username string) (Account, error)
	List(ctx context.Context) ([]Account, error)
}

var (
	ErrInvalidArgument    = errors.New("invalid_argument")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidUsername    = errors.New("invalid_username")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrReservedUsername   = errors.New("reserved_username")
	ErrDuplicateAccount   = errors.New("duplicate_account")
	ErrNotFound           = errors.New("not_found")
	ErrStorageUnavailable = errors.New("storage_unavailable")
)
