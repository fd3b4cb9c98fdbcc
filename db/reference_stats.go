/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/humaidq/gnprotocol/reference"
)

// ReferenceStat is one stored row of the reference_stats table.
type ReferenceStat struct {
	Quantity  string
	Summary   reference.Summary
	UpdatedAt time.Time
}

// ListReferenceStats returns every stored summary ordered by quantity.
func ListReferenceStats(ctx context.Context) ([]ReferenceStat, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `
		SELECT quantity, n, min_value, p5, p25, p50, p75, p95, max_value, updated_at
		FROM reference_stats
		ORDER BY quantity
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reference stats: %w", err)
	}
	defer rows.Close()

	var stats []ReferenceStat

	for rows.Next() {
		var (
			st ReferenceStat
			n  *int32
		)

		s := &st.Summary
		if err := rows.Scan(&st.Quantity, &n, &s.Min, &s.P5, &s.P25, &s.P50, &s.P75, &s.P95, &s.Max, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reference stat: %w", err)
		}

		if n != nil {
			v := int(*n)
			s.N = &v
		}

		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reference stats: %w", err)
	}

	return stats, nil
}

// LoadReferenceStats builds a reference table from the stored summaries.
func LoadReferenceStats(ctx context.Context) (*reference.Table, error) {
	stats, err := ListReferenceStats(ctx)
	if err != nil {
		return nil, err
	}

	if len(stats) == 0 {
		return nil, ErrNoReferenceStats
	}

	raw := make(map[string]reference.Summary, len(stats))
	for _, st := range stats {
		raw[st.Quantity] = st.Summary
	}

	logger.Info("Loaded reference statistics from database", "quantities", len(raw))

	return reference.NewTable(raw), nil
}

// SyncReferenceStats upserts every summary in the table in one transaction and
// returns the number of rows written.
func SyncReferenceStats(ctx context.Context, table *reference.Table) (int, error) {
	if pool == nil {
		return 0, ErrDatabaseConnectionNotInitialized
	}

	keys := table.Keys()
	logger.Infof("Syncing %d reference statistics to database...", len(keys))

	query := `
		INSERT INTO reference_stats (quantity, n, min_value, p5, p25, p50, p75, p95, max_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (quantity)
		DO UPDATE SET
			n = EXCLUDED.n,
			min_value = EXCLUDED.min_value,
			p5 = EXCLUDED.p5,
			p25 = EXCLUDED.p25,
			p50 = EXCLUDED.p50,
			p75 = EXCLUDED.p75,
			p95 = EXCLUDED.p95,
			max_value = EXCLUDED.max_value,
			updated_at = now()
	`

	synced := 0

	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for _, key := range keys {
			s := table.Get(key)

			_, err := tx.Exec(ctx, query, key, s.N, s.Min, s.P5, s.P25, s.P50, s.P75, s.P95, s.Max)
			if err != nil {
				return fmt.Errorf("failed to sync reference stat %s: %w", key, err)
			}

			synced++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Infof("Successfully synced %d reference statistics", synced)

	return synced, nil
}

// DeleteReferenceStat removes one stored summary.
func DeleteReferenceStat(ctx context.Context, quantity string) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	if _, err := pool.Exec(ctx, `DELETE FROM reference_stats WHERE quantity = $1`, reference.CanonicalKey(quantity)); err != nil {
		return fmt.Errorf("failed to delete reference stat: %w", err)
	}

	return nil
}
