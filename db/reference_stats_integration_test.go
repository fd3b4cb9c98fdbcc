// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/humaidq/gnprotocol/reference"
)

const statsFixture = `{
	"基础E2": {"n": 812, "min": 10, "p25": 50, "p50": 80, "p75": 120, "max": 200},
	"e2_1": {"p25": 120, "p75": 340}
}`

func TestReferenceStatsRoundTrip(t *testing.T) {
	resetDatabase(t)

	ctx := context.Background()

	if _, err := LoadReferenceStats(ctx); !errors.Is(err, ErrNoReferenceStats) {
		t.Fatalf("expected ErrNoReferenceStats on empty table, got %v", err)
	}

	table, err := reference.Parse(strings.NewReader(statsFixture))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	n, err := SyncReferenceStats(ctx, table)
	if err != nil {
		t.Fatalf("SyncReferenceStats failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows synced, got %d", n)
	}

	loaded, err := LoadReferenceStats(ctx)
	if err != nil {
		t.Fatalf("LoadReferenceStats failed: %v", err)
	}

	baseline := loaded.Get(reference.KeyBaselineE2)
	if baseline == nil {
		t.Fatal("expected baseline summary")
	}
	if baseline.N == nil || *baseline.N != 812 {
		t.Fatalf("expected n=812, got %v", baseline.N)
	}
	if baseline.P5 != nil {
		t.Fatalf("expected nil P5, got %v", *baseline.P5)
	}

	x := 65.0
	if p, ok := reference.Estimate(&x, baseline); !ok || p != 38 {
		t.Fatalf("expected P38 from stored stats, got %d (ok=%v)", p, ok)
	}

	round := loaded.Get(reference.KeyE2Round1)
	if round == nil || round.P50 != nil {
		t.Fatalf("expected e2_1 without P50, got %+v", round)
	}
}

func TestSyncReferenceStatsUpserts(t *testing.T) {
	resetDatabase(t)

	ctx := context.Background()

	first := reference.NewTable(map[string]reference.Summary{
		reference.KeyE2Round2: {P25: ptr(400), P75: ptr(900)},
	})
	if _, err := SyncReferenceStats(ctx, first); err != nil {
		t.Fatalf("first sync failed: %v", err)
	}

	second := reference.NewTable(map[string]reference.Summary{
		reference.KeyE2Round2: {P25: ptr(450), P50: ptr(600), P75: ptr(950)},
	})
	if _, err := SyncReferenceStats(ctx, second); err != nil {
		t.Fatalf("second sync failed: %v", err)
	}

	stats, err := ListReferenceStats(ctx)
	if err != nil {
		t.Fatalf("ListReferenceStats failed: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected 1 row, got %d", len(stats))
	}

	s := stats[0].Summary
	if s.P25 == nil || *s.P25 != 450 || s.P50 == nil || *s.P50 != 600 {
		t.Fatalf("expected updated anchors, got %+v", s)
	}

	if err := DeleteReferenceStat(ctx, "血E2_2"); err != nil {
		t.Fatalf("DeleteReferenceStat failed: %v", err)
	}

	stats, err = ListReferenceStats(ctx)
	if err != nil {
		t.Fatalf("ListReferenceStats failed: %v", err)
	}
	if len(stats) != 0 {
		t.Fatalf("expected alias delete to remove the row, got %d rows", len(stats))
	}
}

func ptr(f float64) *float64 {
	return &f
}
