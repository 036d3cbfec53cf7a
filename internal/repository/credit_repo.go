package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ytscout/ytscout-go/internal/model"
)

var (
	ErrAccountNotFound     = errors.New("credit account not found")
	ErrInsufficientCredits = errors.New("insufficient credits")
)

type CreditRepo struct {
	pool *pgxpool.Pool
}

func NewCreditRepo(pool *pgxpool.Pool) *CreditRepo {
	return &CreditRepo{pool: pool}
}

// Balance returns a single account by user ID.
func (r *CreditRepo) Balance(ctx context.Context, userID string) (*model.CreditAccount, error) {
	var a model.CreditAccount
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, balance, updated_at
		FROM credits
		WHERE user_id = $1`, userID).Scan(&a.UserID, &a.Balance, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Deduct subtracts amount from the user's balance in a single conditional
// UPDATE, so concurrent deductions can never overdraw an account.
func (r *CreditRepo) Deduct(ctx context.Context, userID string, amount int) (int, error) {
	var balance int
	err := r.pool.QueryRow(ctx, `
		UPDATE credits
		SET balance = balance - $2, updated_at = NOW()
		WHERE user_id = $1 AND balance >= $2
		RETURNING balance`, userID, amount).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	// No row updated: either the account is missing or it cannot cover amount.
	var exists bool
	if err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM credits WHERE user_id = $1)`, userID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrAccountNotFound
	}
	return 0, ErrInsufficientCredits
}

// ResetAll overwrites every balance with amount and returns the number of
// accounts touched.
func (r *CreditRepo) ResetAll(ctx context.Context, amount int) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE credits SET balance = $1, updated_at = NOW()`, amount)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
