package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLStore keeps counters in the `counters` table (see assets/sql).
type SQLStore struct{ db *sql.DB }

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Get(ctx context.Context, ns, key string) (int64, bool, error) {
	var v int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM counters WHERE owner_id=? AND name=?`, ns, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get %s/%s: %w", ns, key, err)
	}
	return v, true, nil
}

func (s *SQLStore) Set(ctx context.Context, ns, key string, v int64) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO counters (owner_id, name, value) VALUES (?, ?, ?)
        ON CONFLICT(owner_id, name) DO UPDATE SET value = excluded.value`,
		ns, key, v,
	)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", ns, key, err)
	}
	return nil
}

func (s *SQLStore) Incr(ctx context.Context, ns, key string, delta int64) (int64, error) {
	var v int64
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO counters (owner_id, name, value) VALUES (?, ?, ?)
        ON CONFLICT(owner_id, name) DO UPDATE SET value = value + excluded.value
        RETURNING value`,
		ns, key, delta,
	).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("incr %s/%s: %w", ns, key, err)
	}
	return v, nil
}

func (s *SQLStore) All(ctx context.Context, ns string) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM counters WHERE owner_id=?`, ns)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", ns, err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var (
			k string
			v int64
		)
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (s *SQLStore) Clear(ctx context.Context, ns string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM counters WHERE owner_id=?`, ns); err != nil {
		return fmt.Errorf("clear %s: %w", ns, err)
	}
	return nil
}
