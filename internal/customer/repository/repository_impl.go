package repository

import (
	"context"
	"sort"

	"github.com/smallbiznis/pointsale/internal/customer/domain"
	"github.com/smallbiznis/pointsale/internal/tier"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.Account, error) {
	var account domain.Account
	err := db.WithContext(ctx).Raw(
		`SELECT id, username, password_hash, cash_balance, points, tier, created_at, updated_at
		 FROM customer_accounts WHERE username = ?`,
		domain.NormalizeUsername(username),
	).Scan(&account).Error
	if err != nil {
		return nil, err
	}
	if account.ID == 0 {
		return nil, nil
	}
	restore(&account)
	return &account, nil
}

func (r *repo) LoadAll(ctx context.Context, db *gorm.DB) (map[string]*domain.Account, error) {
	var accounts []*domain.Account
	err := db.WithContext(ctx).
		Model(&domain.Account{}).
		Order("username asc").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]*domain.Account, len(accounts))
	for _, account := range accounts {
		restore(account)
		out[account.Username] = account
	}
	return out, nil
}

// restore derives the tier from the stored points; the tier column is
// written for reporting only.
func restore(account *domain.Account) {
	account.Tier = tier.Classify(account.Points)
}

// SaveAll replaces every stored account with the given snapshot inside one
// transaction, so readers see either the old set or the new one.
func (r *repo) SaveAll(ctx context.Context, db *gorm.DB, accounts map[string]*domain.Account) error {
	usernames := make([]string, 0, len(accounts))
	for username, account := range accounts {
		if account == nil {
			continue
		}
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM customer_accounts`).Error; err != nil {
			return err
		}
		for _, username := range usernames {
			account := accounts[username]
			if err := tx.Exec(
				`INSERT INTO customer_accounts (id, username, password_hash, cash_balance, points, tier, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				account.ID,
				domain.NormalizeUsername(account.Username),
				account.PasswordHash,
				account.CashBalance,
				account.Points,
				string(account.Tier),
				account.CreatedAt,
				account.UpdatedAt,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
