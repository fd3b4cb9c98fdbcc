/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package reference

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Quantity keys for the monitored serum E2 values.
const (
	KeyBaselineE2 = "baseline_e2"
	KeyE2Round1   = "e2_1"
	KeyE2Round2   = "e2_2"
	KeyE2Round3   = "e2_3"
)

// keyAliases maps the labels used by the original training export to the
// canonical quantity keys.
var keyAliases = map[string]string{
	"基础E2":  KeyBaselineE2,
	"血E2_1": KeyE2Round1,
	"血E2_2": KeyE2Round2,
	"血E2_3": KeyE2Round3,
}

// RoundKey returns the quantity key for the E2 reading of a monitoring round
// (1-based).
func RoundKey(round int) string {
	return fmt.Sprintf("e2_%d", round)
}

// CanonicalKey normalizes a quantity key, resolving known aliases.
func CanonicalKey(key string) string {
	key = strings.TrimSpace(key)
	if canonical, ok := keyAliases[key]; ok {
		return canonical
	}
	return strings.ToLower(key)
}

// Table maps quantity keys to their reference summaries. It is built once and
// never mutated afterwards.
type Table struct {
	summaries map[string]*Summary
}

// NewTable builds a table from raw keys, normalizing aliases. A later
// duplicate of the same canonical key replaces an earlier one.
func NewTable(raw map[string]Summary) *Table {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	// canonical keys win over aliases regardless of map order
	sort.Slice(keys, func(i, j int) bool {
		return isAlias(keys[i]) && !isAlias(keys[j])
	})

	t := &Table{summaries: make(map[string]*Summary, len(raw))}
	for _, k := range keys {
		s := raw[k]
		t.summaries[CanonicalKey(k)] = &s
	}
	return t
}

func isAlias(key string) bool {
	_, ok := keyAliases[strings.TrimSpace(key)]
	return ok
}

// Get returns the summary for a quantity, or nil if none is known.
func (t *Table) Get(key string) *Summary {
	if t == nil {
		return nil
	}
	return t.summaries[CanonicalKey(key)]
}

// Keys returns the known quantity keys in sorted order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, 0, len(t.summaries))
	for k := range t.summaries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of quantities in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.summaries)
}

// Check validates every summary, returning one error per inverted summary.
func (t *Table) Check() map[string]error {
	problems := make(map[string]error)
	for _, k := range t.Keys() {
		if err := t.summaries[k].Validate(); err != nil {
			problems[k] = err
		}
	}
	return problems
}

// Parse reads a statistics artifact in JSON form.
func Parse(r io.Reader) (*Table, error) {
	var raw map[string]Summary
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStatistics, err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyStatistics
	}
	return NewTable(raw), nil
}

// LoadFile reads a statistics artifact from disk.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statistics file: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return t, nil
}
