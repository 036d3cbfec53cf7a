package model

import "time"

// CreditAccount is a caller's credit balance.
type CreditAccount struct {
	UserID    string    `json:"userId"`
	Balance   int       `json:"balance"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreditResetRequest is the admin request body for a bulk balance reset.
type CreditResetRequest struct {
	Amount int `json:"amount"`
}

// CreditResetResponse reports how many accounts a reset touched.
type CreditResetResponse struct {
	Amount   int   `json:"amount"`
	Affected int64 `json:"affected"`
}

// QueryLogEntry is one search recorded for a caller.
type QueryLogEntry struct {
	UserID     string    `json:"userId"`
	Query      string    `json:"query"`
	RecordedAt time.Time `json:"recordedAt"`
}
