package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ytscout/ytscout-go/internal/model"
)

type QueryLogRepo struct {
	pool *pgxpool.Pool
}

func NewQueryLogRepo(pool *pgxpool.Pool) *QueryLogRepo {
	return &QueryLogRepo{pool: pool}
}

// Insert appends one search to the log.
func (r *QueryLogRepo) Insert(ctx context.Context, e model.QueryLogEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO query_log (user_id, query, recorded_at)
		VALUES ($1, $2, $3)`,
		e.UserID, e.Query, e.RecordedAt)
	return err
}

// Recent returns a user's latest searches, newest first.
func (r *QueryLogRepo) Recent(ctx context.Context, userID string, limit int) ([]model.QueryLogEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, query, recorded_at
		FROM query_log
		WHERE user_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.QueryLogEntry
	for rows.Next() {
		var e model.QueryLogEntry
		if err := rows.Scan(&e.UserID, &e.Query, &e.RecordedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
