package service

import (
	"errors"

	"github.com/ytscout/ytscout-go/internal/repository"
)

var (
	ErrMissingQuery  = errors.New("search query is required")
	ErrMissingID     = errors.New("channel id is required")
	ErrRateLimited   = errors.New("rate limited")
	ErrInvalidAmount = errors.New("amount must not be negative")

	// Ledger failures surface unchanged from the repository.
	ErrInsufficientCredits = repository.ErrInsufficientCredits
	ErrAccountNotFound     = repository.ErrAccountNotFound
)
