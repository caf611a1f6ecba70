package calculation

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/masspension/planner/internal/domain"
)

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// ChartPoint is one labeled value in a series.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartSeries is one named series of points.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartConfig is a renderer-agnostic chart description. Frontends map it
// onto whatever charting library they use.
type ChartConfig struct {
	ChartType  string        `json:"chart_type"`
	Title      string        `json:"title"`
	XAxis      string        `json:"x_axis,omitempty"`
	YAxis      string        `json:"y_axis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors"`
	ShowLegend bool          `json:"show_legend"`
	ShowGrid   bool          `json:"show_grid"`
}

// BuildBenefitProjectionChart produces a line chart of the year-by-year
// income streams for one scenario. Returns nil when there is nothing to
// plot.
func BuildBenefitProjectionChart(results *domain.ScenarioResults) *ChartConfig {
	if results == nil || len(results.IncomeProjections.YearlyProjections) == 0 {
		return nil
	}

	projections := results.IncomeProjections.YearlyProjections
	pension := make([]ChartPoint, 0, len(projections))
	socialSecurity := make([]ChartPoint, 0, len(projections))
	combined := make([]ChartPoint, 0, len(projections))

	for _, year := range projections {
		label := ageLabel(year.Age)
		pension = append(pension, ChartPoint{Label: label, Value: roundTo2(year.TotalPensionAnnual)})
		socialSecurity = append(socialSecurity, ChartPoint{Label: label, Value: roundTo2(year.SocialSecurityAnnual)})
		combined = append(combined, ChartPoint{Label: label, Value: roundTo2(year.CombinedTotalAnnual)})
	}

	config := &ChartConfig{
		ChartType:  "line",
		Title:      "Projected Annual Income by Age",
		XAxis:      "Age",
		YAxis:      "Annual Income ($)",
		ShowLegend: true,
		ShowGrid:   true,
		Series: []ChartSeries{
			{Name: "Pension", Data: pension},
			{Name: "Social Security", Data: socialSecurity},
			{Name: "Combined", Data: combined},
		},
	}
	assignSeriesColors(config)
	return config
}

// BuildIncomeComparisonChart produces a bar chart comparing total annual
// income across scenarios. Scenarios with no results are skipped.
func BuildIncomeComparisonChart(scenarios []*domain.RetirementScenario, results []*domain.ScenarioResults) *ChartConfig {
	points := make([]ChartPoint, 0, len(results))
	for i, res := range results {
		if res == nil {
			continue
		}
		label := res.ScenarioID
		if i < len(scenarios) && scenarios[i] != nil && scenarios[i].Name != "" {
			label = scenarios[i].Name
		}
		points = append(points, ChartPoint{
			Label: label,
			Value: roundTo2(res.IncomeProjections.TotalAnnualIncome),
		})
	}
	if len(points) == 0 {
		return nil
	}

	config := &ChartConfig{
		ChartType:  "bar",
		Title:      "Total Annual Income by Scenario",
		XAxis:      "Scenario",
		YAxis:      "Annual Income ($)",
		ShowLegend: false,
		ShowGrid:   true,
		Series: []ChartSeries{
			{Name: "Annual Income", Data: points},
		},
	}
	assignSeriesColors(config)
	return config
}

// BuildIncomeBreakdownChart produces a pie chart of the first-year income
// sources for one scenario. Zero-valued sources are omitted.
func BuildIncomeBreakdownChart(results *domain.ScenarioResults) *ChartConfig {
	if results == nil || len(results.IncomeProjections.YearlyProjections) == 0 {
		return nil
	}
	firstYear := results.IncomeProjections.YearlyProjections[0]

	sources := []struct {
		label string
		value decimal.Decimal
	}{
		{"Pension", firstYear.TotalPensionAnnual},
		{"Social Security", firstYear.SocialSecurityAnnual},
		{"Portfolio Withdrawals", firstYear.PortfolioWithdrawal},
		{"Other Income", firstYear.CombinedTotalAnnual.Sub(firstYear.TotalPensionAnnual).Sub(firstYear.SocialSecurityAnnual).Sub(firstYear.PortfolioWithdrawal)},
	}

	points := make([]ChartPoint, 0, len(sources))
	for _, s := range sources {
		if s.value.LessThanOrEqual(decimal.Zero) {
			continue
		}
		points = append(points, ChartPoint{Label: s.label, Value: roundTo2(s.value)})
	}
	if len(points) == 0 {
		return nil
	}

	config := &ChartConfig{
		ChartType:  "pie",
		Title:      "First-Year Income Breakdown",
		ShowLegend: true,
		ShowGrid:   false,
		Series: []ChartSeries{
			{Name: "Income Sources", Data: points},
		},
	}
	assignSeriesColors(config)
	return config
}

func assignSeriesColors(config *ChartConfig) {
	config.Colors = make([]string, len(config.Series))
	for i := range config.Series {
		color := defaultColors[i%len(defaultColors)]
		config.Series[i].Color = color
		config.Colors[i] = color
	}
}

func ageLabel(age int) string {
	return "Age " + strconv.Itoa(age)
}

func roundTo2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
