package service

import (
	"context"

	"github.com/ytscout/ytscout-go/internal/model"
)

// CreditLedger is the per-user credit store. Deduct must check and update a
// balance atomically.
type CreditLedger interface {
	Balance(ctx context.Context, userID string) (*model.CreditAccount, error)
	Deduct(ctx context.Context, userID string, amount int) (int, error)
	ResetAll(ctx context.Context, amount int) (int64, error)
}

type CreditService struct {
	ledger CreditLedger
}

func NewCreditService(ledger CreditLedger) *CreditService {
	return &CreditService{ledger: ledger}
}

// Balance returns the caller's account.
func (s *CreditService) Balance(ctx context.Context, userID string) (*model.CreditAccount, error) {
	return s.ledger.Balance(ctx, userID)
}

// ResetAll overwrites every balance with amount.
func (s *CreditService) ResetAll(ctx context.Context, amount int) (*model.CreditResetResponse, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}
	affected, err := s.ledger.ResetAll(ctx, amount)
	if err != nil {
		return nil, err
	}
	return &model.CreditResetResponse{Amount: amount, Affected: affected}, nil
}
