package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"mempoolScope/internal/model"
)

// Store provides Postgres persistence for classified events.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// SaveEvent inserts a classified event. Replays of the same tx hash are
// ignored at the store level as well.
func (s *Store) SaveEvent(ctx context.Context, event model.ClassifiedEvent) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO swap_events (
			tx_hash, direction, token_address, token_symbol, token_name,
			native_wei, sender, observed_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (tx_hash) DO NOTHING
	`,
		event.TxHash,
		string(event.Direction),
		event.TokenAddress,
		event.TokenSymbol,
		event.TokenName,
		event.NativeWei,
		event.Sender,
		event.ObservedAt,
	)
	if err != nil {
		return fmt.Errorf("insert swap event: %w", err)
	}
	return nil
}

// RecentEvents returns up to limit events, most recent first.
func (s *Store) RecentEvents(ctx context.Context, limit int) ([]model.ClassifiedEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT tx_hash, direction, token_address, token_symbol, token_name,
			native_wei, sender, observed_at
		FROM swap_events
		ORDER BY observed_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query swap events: %w", err)
	}
	defer rows.Close()

	events := make([]model.ClassifiedEvent, 0, limit)
	for rows.Next() {
		var event model.ClassifiedEvent
		var direction string
		if err := rows.Scan(
			&event.TxHash,
			&direction,
			&event.TokenAddress,
			&event.TokenSymbol,
			&event.TokenName,
			&event.NativeWei,
			&event.Sender,
			&event.ObservedAt,
		); err != nil {
			return nil, fmt.Errorf("scan swap event: %w", err)
		}
		event.Direction = model.Direction(direction)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swap events: %w", err)
	}

	return events, nil
}
