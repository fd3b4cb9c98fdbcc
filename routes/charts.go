/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/humaidq/gnprotocol/models"
)

const (
	e2AxisName     = "E2 (pg/mL)"
	bandSeriesName = "P25–P75"
	bandColor      = "rgba(84, 112, 198, 0.45)"
	valueColor     = "#ee6666"
	// echarts skips "-" values
	emptyValue = "-"
)

// e2PointLabel is the annotation drawn next to a reading, e.g. "210 (P50)".
func e2PointLabel(p models.E2Percentile) string {
	label := fmt.Sprintf("%.0f", *p.Value)
	if p.Percentile != nil {
		label += fmt.Sprintf(" (P%d)", *p.Percentile)
	}
	return label
}

// roundE2Explanations returns one line per monitoring round that has both a
// reading and reference statistics.
func roundE2Explanations(rounds []models.E2Percentile) []string {
	lines := make([]string, 0, len(rounds))
	for _, p := range rounds {
		if p.Value == nil || !p.HasReference() {
			continue
		}
		if p.Percentile != nil {
			lines = append(lines, fmt.Sprintf("%s: %.0f pg/mL, at P%d", p.Label, *p.Value, *p.Percentile))
		} else {
			lines = append(lines, fmt.Sprintf("%s: %.0f pg/mL (reference P25–P75)", p.Label, *p.Value))
		}
	}
	return lines
}

// baselineE2Explanation describes the baseline reading against its reference.
func baselineE2Explanation(p models.E2Percentile) string {
	if p.Percentile != nil {
		return fmt.Sprintf("Your Baseline E2 value is %.0f pg/mL, at about P%d.", *p.Value, *p.Percentile)
	}
	return fmt.Sprintf("Your Baseline E2 value is %.0f pg/mL (reference P25–P75).", *p.Value)
}

// bandSeries returns the invisible offset bars and the visible P25–P75 bars
// that stack into a floating band per category.
func bandSeries(points []models.E2Percentile) (base, band []opts.BarData, drawn bool) {
	base = make([]opts.BarData, 0, len(points))
	band = make([]opts.BarData, 0, len(points))

	for _, p := range points {
		var (
			p25, p75 float64
			ok       bool
		)
		if p.Summary != nil {
			p25, p75, ok = p.Summary.Band()
		}
		if !ok {
			base = append(base, opts.BarData{Value: emptyValue})
			band = append(band, opts.BarData{Value: emptyValue})
			continue
		}

		drawn = true
		base = append(base, opts.BarData{Value: p25})
		band = append(band, opts.BarData{
			Name:  fmt.Sprintf("P25 %.0f – P75 %.0f", p25, p75),
			Value: p75 - p25,
		})
	}

	return base, band, drawn
}

func valueSeries(points []models.E2Percentile, label func(models.E2Percentile) string) ([]opts.ScatterData, bool) {
	data := make([]opts.ScatterData, 0, len(points))
	drawn := false

	for _, p := range points {
		if p.Value == nil {
			data = append(data, opts.ScatterData{Value: emptyValue})
			continue
		}

		drawn = true
		data = append(data, opts.ScatterData{
			Name:       label(p),
			Value:      *p.Value,
			SymbolSize: 12,
		})
	}

	return data, drawn
}

func newE2Chart(title, chartID string, categories []string, base, band []opts.BarData, bandOpts ...charts.SeriesOpts) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:   "100%",
			Height:  "360px",
			ChartID: chartID,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Data: []string{bandSeriesName, "Your value"},
			Top:  "bottom",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: e2AxisName,
		}),
	)

	bandOpts = append([]charts.SeriesOpts{
		charts.WithBarChartOpts(opts.BarChart{Stack: "band"}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: bandColor}),
	}, bandOpts...)

	bar.SetXAxis(categories).
		AddSeries("offset", base,
			charts.WithBarChartOpts(opts.BarChart{Stack: "band"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "transparent"}),
		).
		AddSeries(bandSeriesName, band, bandOpts...)

	return bar
}

func newValueScatter(categories []string, data []opts.ScatterData) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetXAxis(categories).
		AddSeries("Your value", data,
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Position:  "right",
				Formatter: "{b}",
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: valueColor}),
		)
	return scatter
}

// renderRoundE2Chart draws the serum E2 percentile chart across the
// monitoring rounds. It returns "" when there is nothing to draw.
func renderRoundE2Chart(rounds []models.E2Percentile) (string, error) {
	categories := make([]string, 0, len(rounds))
	for _, p := range rounds {
		categories = append(categories, p.Label)
	}

	base, band, hasBand := bandSeries(rounds)
	points, hasPoints := valueSeries(rounds, e2PointLabel)
	if !hasBand && !hasPoints {
		return "", nil
	}

	bar := newE2Chart("Serum E2 percentile plot", "serum_e2_percentiles", categories, base, band)
	bar.Overlap(newValueScatter(categories, points))

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// renderBaselineE2Chart draws the baseline E2 reading against its reference
// band with a dashed median line. It returns "" when the baseline has no
// reference statistics.
func renderBaselineE2Chart(p models.E2Percentile) (string, error) {
	if !p.HasReference() || p.Value == nil {
		return "", nil
	}

	points := []models.E2Percentile{p}
	categories := []string{p.Label}
	base, band, _ := bandSeries(points)
	values, _ := valueSeries(points, func(p models.E2Percentile) string {
		return fmt.Sprintf("Your value: %.0f", *p.Value)
	})

	var bandOpts []charts.SeriesOpts
	if p50, ok := p.Summary.Median(); ok {
		bandOpts = append(bandOpts, func(s *charts.SingleSeries) {
			s.MarkLines = &opts.MarkLines{
				Data: []interface{}{
					opts.MarkLineNameYAxisItem{Name: "P50", YAxis: p50},
				},
				MarkLineStyle: opts.MarkLineStyle{
					Symbol: []string{"none", "none"},
					LineStyle: &opts.LineStyle{
						Color: "rgba(128, 128, 128, 0.8)",
						Type:  "dashed",
						Width: 1.5,
					},
				},
			}
		})
	}

	bar := newE2Chart("Baseline E2 percentile plot", "baseline_e2_percentile", categories, base, band, bandOpts...)
	bar.Overlap(newValueScatter(categories, values))

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}
