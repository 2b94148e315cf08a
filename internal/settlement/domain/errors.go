package domain

import (
	"errors"

	customerdomain "github.com/smallbiznis/pointsale/internal/customer/domain"
)

var (
	ErrInsufficientFunds  = errors.New("insufficient_funds")
	ErrUnknownStrategy    = errors.New("unknown_strategy")
	ErrAccountNotFound    = errors.New("account_not_found")
	ErrStorageUnavailable = errors.New("storage_unavailable")

	// ErrInvalidArgument is shared with the account so either package's
	// sentinel matches.
	ErrInvalidArgument = customerdomain.ErrInvalidArgument
)
