/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package features

// Baseline is the baseline hormonal and biometric panel. Every field has a
// value; the form prefills zero.
type Baseline struct {
	Age      float64 `json:"age"`
	BMI      float64 `json:"bmi"`
	FSH      float64 `json:"fsh"`
	LH       float64 `json:"lh"`
	PRL      float64 `json:"prl"`
	E2       float64 `json:"e2"`
	T        float64 `json:"t"`
	AMH      float64 `json:"amh"`
	AFCLeft  float64 `json:"afc_left"`
	AFCRight float64 `json:"afc_right"`
}

// Round is one round of dynamic hormone monitoring. Any reading may be unset.
type Round struct {
	E2  *float64 `json:"e2,omitempty"`
	LH  *float64 `json:"lh,omitempty"`
	FSH *float64 `json:"fsh,omitempty"`
	P   *float64 `json:"p,omitempty"`
	Day *float64 `json:"day,omitempty"`
}

// Supplementary holds the extra follicle measurements.
type Supplementary struct {
	MaxFollicleDay3           *float64 `json:"max_follicle_day_3,omitempty"`
	LeftMaxFollicleDiameter3  *float64 `json:"left_max_follicle_diameter_3,omitempty"`
	RightMaxFollicleDiameter3 *float64 `json:"right_max_follicle_diameter_3,omitempty"`
}

// Submission is everything the user entered in one form submission.
type Submission struct {
	Baseline      Baseline      `json:"baseline"`
	Rounds        [Rounds]Round `json:"rounds"`
	Supplementary Supplementary `json:"supplementary"`
}

// Values flattens the submission into canonical field names. Unset readings
// map to nil.
func (s *Submission) Values() map[string]*float64 {
	b := s.Baseline
	values := map[string]*float64{
		FieldAge:      &b.Age,
		FieldBMI:      &b.BMI,
		FieldFSH:      &b.FSH,
		FieldLH:       &b.LH,
		FieldPRL:      &b.PRL,
		FieldE2:       &b.E2,
		FieldT:        &b.T,
		FieldAMH:      &b.AMH,
		FieldAFCLeft:  &b.AFCLeft,
		FieldAFCRight: &b.AFCRight,

		FieldMaxFollicleDay3:           s.Supplementary.MaxFollicleDay3,
		FieldLeftMaxFollicleDiameter3:  s.Supplementary.LeftMaxFollicleDiameter3,
		FieldRightMaxFollicleDiameter3: s.Supplementary.RightMaxFollicleDiameter3,
	}

	for i, r := range s.Rounds {
		round := i + 1
		values[RoundField(RoundE2, round)] = r.E2
		values[RoundField(RoundLH, round)] = r.LH
		values[RoundField(RoundFSH, round)] = r.FSH
		values[RoundField(RoundP, round)] = r.P
		values[RoundField(RoundDay, round)] = r.Day
	}

	return values
}

// E2Reading returns the E2 reading of a monitoring round (1-based), or nil.
func (s *Submission) E2Reading(round int) *float64 {
	if round < 1 || round > Rounds {
		return nil
	}
	return s.Rounds[round-1].E2
}
