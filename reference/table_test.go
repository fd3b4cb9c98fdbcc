// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package reference

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleStatistics = `{
	"基础E2": {"n": 812, "min": 5, "p5": 15, "p25": 28, "p50": 40, "p75": 55, "p95": 80, "max": 210},
	"血E2_1": {"n": 640, "p25": 120, "p50": 210, "p75": 340},
	"血E2_2": {"n": null, "min": null, "p25": 400, "p75": null},
	"e2_3": {}
}`

func TestParseNormalizesAliases(t *testing.T) {
	t.Parallel()

	table, err := Parse(strings.NewReader(sampleStatistics))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if table.Len() != 4 {
		t.Fatalf("expected 4 quantities, got %d", table.Len())
	}

	baseline := table.Get(KeyBaselineE2)
	if baseline == nil {
		t.Fatal("expected baseline_e2 summary")
	}
	if baseline.N == nil || *baseline.N != 812 {
		t.Fatalf("expected n=812, got %v", baseline.N)
	}
	if got := len(baseline.Knots()); got != 7 {
		t.Fatalf("expected 7 knots, got %d", got)
	}

	if table.Get("基础E2") != baseline {
		t.Fatal("expected alias lookup to resolve to the same summary")
	}

	round2 := table.Get(RoundKey(2))
	if round2 == nil {
		t.Fatal("expected e2_2 summary")
	}
	if _, _, ok := round2.Band(); ok {
		t.Fatal("expected no P25–P75 band when P75 is null")
	}

	if got := len(table.Get(KeyE2Round3).Knots()); got != 0 {
		t.Fatalf("expected empty summary for e2_3, got %d knots", got)
	}

	if table.Get("unknown") != nil {
		t.Fatal("expected nil summary for unknown quantity")
	}
}

func TestNewTablePrefersCanonicalKey(t *testing.T) {
	t.Parallel()

	table := NewTable(map[string]Summary{
		"血E2_1":    {P50: floatPtr(1)},
		KeyE2Round1: {P50: floatPtr(2)},
	})

	median, ok := table.Get(KeyE2Round1).Median()
	if !ok || median != 2 {
		t.Fatalf("expected canonical key to win, got %v ok=%v", median, ok)
	}
}

func TestParseRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := Parse(strings.NewReader("not json")); !errors.Is(err, ErrInvalidStatistics) {
		t.Fatalf("expected ErrInvalidStatistics, got %v", err)
	}

	if _, err := Parse(strings.NewReader("{}")); !errors.Is(err, ErrEmptyStatistics) {
		t.Fatalf("expected ErrEmptyStatistics, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "e2_percentiles.json")
	if err := os.WriteFile(path, []byte(sampleStatistics), 0o600); err != nil {
		t.Fatalf("failed to write stats file: %v", err)
	}

	table, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if table.Get(KeyE2Round1) == nil {
		t.Fatal("expected e2_1 summary")
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestCheckReportsInvertedSummary(t *testing.T) {
	t.Parallel()

	table := NewTable(map[string]Summary{
		"good": {P25: floatPtr(1), P75: floatPtr(2)},
		"bad":  {P25: floatPtr(3), P75: floatPtr(2)},
	})

	problems := table.Check()
	if len(problems) != 1 {
		t.Fatalf("expected 1 problem, got %d", len(problems))
	}
	if !errors.Is(problems["bad"], ErrNonMonotonic) {
		t.Fatalf("expected ErrNonMonotonic for bad, got %v", problems["bad"])
	}
}

func TestCanonicalKey(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"基础E2":        KeyBaselineE2,
		" 血E2_3 ":     KeyE2Round3,
		"E2_2":        KeyE2Round2,
		"baseline_e2": KeyBaselineE2,
	}

	for in, want := range tests {
		if got := CanonicalKey(in); got != want {
			t.Fatalf("CanonicalKey(%q) = %q, want %q", in, got, want)
		}
	}
}
