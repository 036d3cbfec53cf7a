package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ytscout/ytscout-go/internal/model"
	"github.com/ytscout/ytscout-go/pkg/hash"
)

const defaultQueryLogBuffer = 256

// QueryLogStore persists query log entries.
type QueryLogStore interface {
	Insert(ctx context.Context, entry model.QueryLogEntry) error
}

// AsyncQueryLog hands entries to a single writer goroutine. Record never
// blocks: when the buffer is full the entry is dropped.
type AsyncQueryLog struct {
	store   QueryLogStore
	entries chan model.QueryLogEntry
	done    chan struct{}
	now     func() time.Time
	log     zerolog.Logger
}

func NewAsyncQueryLog(store QueryLogStore, buffer int, log zerolog.Logger) *AsyncQueryLog {
	if buffer <= 0 {
		buffer = defaultQueryLogBuffer
	}
	return &AsyncQueryLog{
		store:   store,
		entries: make(chan model.QueryLogEntry, buffer),
		done:    make(chan struct{}),
		now:     time.Now,
		log:     log,
	}
}

// Record queues a search for userID.
func (q *AsyncQueryLog) Record(userID, query string) {
	entry := model.QueryLogEntry{UserID: userID, Query: query, RecordedAt: q.now()}
	select {
	case q.entries <- entry:
	default:
		q.log.Warn().Str("caller", hash.ShortHash(userID)).Msg("query-log: buffer full, entry dropped")
	}
}

// Start drains queued entries until ctx is cancelled, then flushes what is
// already buffered.
func (q *AsyncQueryLog) Start(ctx context.Context) {
	defer close(q.done)
	q.log.Info().Msg("query-log: starting")

	for {
		select {
		case e := <-q.entries:
			q.write(ctx, e)
		case <-ctx.Done():
			q.flush()
			q.log.Info().Msg("query-log: stopping (context cancelled)")
			return
		}
	}
}

// Done is closed once Start has returned.
func (q *AsyncQueryLog) Done() <-chan struct{} {
	return q.done
}

func (q *AsyncQueryLog) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case e := <-q.entries:
			q.write(ctx, e)
		default:
			return
		}
	}
}

func (q *AsyncQueryLog) write(ctx context.Context, e model.QueryLogEntry) {
	if err := q.store.Insert(ctx, e); err != nil {
		q.log.Warn().Err(err).Str("caller", hash.ShortHash(e.UserID)).Msg("query-log: insert failed")
	}
}
