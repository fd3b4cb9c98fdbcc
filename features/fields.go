/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package features

import (
	"fmt"
	"strings"
)

// Rounds is the number of dynamic monitoring rounds collected by the form.
const Rounds = 3

// FillValue replaces every unset field when a vector is assembled. This is a
// plain substitution, not imputation.
const FillValue = 0.0

// Baseline field names.
const (
	FieldAge      = "age"
	FieldBMI      = "bmi"
	FieldFSH      = "fsh"
	FieldLH       = "lh"
	FieldPRL      = "prl"
	FieldE2       = "e2"
	FieldT        = "t"
	FieldAMH      = "amh"
	FieldAFCLeft  = "afc_left"
	FieldAFCRight = "afc_right"
)

// Supplementary follicle measurement field names.
const (
	FieldMaxFollicleDay3           = "max_follicle_day_3"
	FieldLeftMaxFollicleDiameter3  = "left_max_follicle_diameter_3"
	FieldRightMaxFollicleDiameter3 = "right_max_follicle_diameter_3"
)

// Per-round field prefixes; the round number is appended as "_N".
const (
	RoundE2  = "e2"
	RoundLH  = "lh"
	RoundFSH = "fsh"
	RoundP   = "p"
	RoundDay = "day"
)

// BaselineFields lists the baseline fields in form order.
var BaselineFields = []string{
	FieldAge, FieldBMI,
	FieldFSH, FieldLH, FieldPRL,
	FieldE2, FieldT, FieldAMH,
	FieldAFCLeft, FieldAFCRight,
}

// RoundPrefixes lists the per-round measurements in form order.
var RoundPrefixes = []string{RoundE2, RoundLH, RoundFSH, RoundP, RoundDay}

// SupplementaryFields lists the supplementary measurements in form order.
var SupplementaryFields = []string{
	FieldMaxFollicleDay3,
	FieldLeftMaxFollicleDiameter3,
	FieldRightMaxFollicleDiameter3,
}

// RoundField returns the field name of a per-round measurement (1-based round).
func RoundField(prefix string, round int) string {
	return fmt.Sprintf("%s_%d", prefix, round)
}

// AllFields returns every field name known to the assembler, in form order.
func AllFields() []string {
	fields := make([]string, 0, len(BaselineFields)+Rounds*len(RoundPrefixes)+len(SupplementaryFields))
	fields = append(fields, BaselineFields...)
	for round := 1; round <= Rounds; round++ {
		for _, prefix := range RoundPrefixes {
			fields = append(fields, RoundField(prefix, round))
		}
	}
	fields = append(fields, SupplementaryFields...)
	return fields
}

// Labels are human-readable names for the form.
var Labels = map[string]string{
	FieldAge:                       "Age",
	FieldBMI:                       "BMI",
	FieldFSH:                       "Baseline FSH",
	FieldLH:                        "Baseline LH",
	FieldPRL:                       "Baseline PRL",
	FieldE2:                        "Baseline E2",
	FieldT:                         "Baseline T",
	FieldAMH:                       "Baseline AMH",
	FieldAFCLeft:                   "Left antral follicle count",
	FieldAFCRight:                  "Right antral follicle count",
	FieldMaxFollicleDay3:           "Max follicle measurement day 3",
	FieldLeftMaxFollicleDiameter3:  "Left max follicle diameter 3",
	FieldRightMaxFollicleDiameter3: "Right max follicle diameter 3",
}

var roundLabels = map[string]string{
	RoundE2:  "E2",
	RoundLH:  "LH",
	RoundFSH: "FSH",
	RoundP:   "P",
	RoundDay: "Day",
}

// Label returns the display label for a field name.
func Label(field string) string {
	if label, ok := Labels[field]; ok {
		return label
	}
	for prefix, label := range roundLabels {
		for round := 1; round <= Rounds; round++ {
			if field == RoundField(prefix, round) {
				return fmt.Sprintf("%s_%d", label, round)
			}
		}
	}
	return field
}

// aliases maps the column labels of the original training data to canonical
// field names, so artifacts exported with those labels assemble unchanged.
var aliases = map[string]string{
	"年龄":          FieldAge,
	"体重指数":        FieldBMI,
	"(基础内分泌)FSH":  FieldFSH,
	"(基础内分泌)LH":   FieldLH,
	"(基础内分泌)PRL":  FieldPRL,
	"(基础内分泌)E2":   FieldE2,
	"(基础内分泌)T":    FieldT,
	"(基础内分泌)AMH":  FieldAMH,
	"左窦卵泡数":       FieldAFCLeft,
	"右窦卵泡数":       FieldAFCRight,
	"最大卵泡测定日3":    FieldMaxFollicleDay3,
	"左侧最大卵泡直径3":   FieldLeftMaxFollicleDiameter3,
	"右侧最大卵巢直径3":   FieldRightMaxFollicleDiameter3,
}

var roundAliasPrefixes = map[string]string{
	"血E2":  RoundE2,
	"血LH":  RoundLH,
	"血FSH": RoundFSH,
	"血P":   RoundP,
	"Day":  RoundDay,
}

func init() {
	for alias, prefix := range roundAliasPrefixes {
		for round := 1; round <= Rounds; round++ {
			aliases[RoundField(alias, round)] = RoundField(prefix, round)
		}
	}
}

var known = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, f := range AllFields() {
		m[f] = struct{}{}
	}
	return m
}()

// Canonical resolves a declared feature name to a canonical field name.
func Canonical(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if canonical, ok := aliases[name]; ok {
		return canonical, true
	}

	lower := strings.ToLower(name)
	if _, ok := known[lower]; ok {
		return lower, true
	}

	return "", false
}
