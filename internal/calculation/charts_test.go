package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masspension/planner/internal/domain"
)

func chartResults() *domain.ScenarioResults {
	return &domain.ScenarioResults{
		ScenarioID: "chart-test",
		IncomeProjections: domain.IncomeProjections{
			TotalAnnualIncome: decimal.NewFromInt(70000),
			YearlyProjections: []domain.ProjectionYear{
				{
					Age:                  65,
					TotalPensionAnnual:   decimal.NewFromInt(46875),
					SocialSecurityAnnual: decimal.Zero,
					PortfolioWithdrawal:  decimal.NewFromInt(14000),
					CombinedTotalAnnual:  decimal.NewFromInt(65875),
				},
				{
					Age:                  66,
					TotalPensionAnnual:   decimal.NewFromInt(47265),
					SocialSecurityAnnual: decimal.NewFromInt(24000),
					PortfolioWithdrawal:  decimal.NewFromInt(14000),
					CombinedTotalAnnual:  decimal.NewFromInt(85265),
				},
			},
		},
	}
}

func TestBuildBenefitProjectionChart(t *testing.T) {
	chart := BuildBenefitProjectionChart(chartResults())
	require.NotNil(t, chart)

	assert.Equal(t, "line", chart.ChartType)
	assert.True(t, chart.ShowLegend)
	require.Len(t, chart.Series, 3)

	names := []string{chart.Series[0].Name, chart.Series[1].Name, chart.Series[2].Name}
	assert.Equal(t, []string{"Pension", "Social Security", "Combined"}, names)

	for _, series := range chart.Series {
		require.Len(t, series.Data, 2)
		assert.Equal(t, "Age 65", series.Data[0].Label)
		assert.Equal(t, "Age 66", series.Data[1].Label)
		assert.NotEmpty(t, series.Color)
	}
	assert.Len(t, chart.Colors, 3)

	assert.InDelta(t, 46875.0, chart.Series[0].Data[0].Value, 0.01)
	assert.InDelta(t, 24000.0, chart.Series[1].Data[1].Value, 0.01)
	assert.InDelta(t, 85265.0, chart.Series[2].Data[1].Value, 0.01)
}

func TestBuildBenefitProjectionChartEmpty(t *testing.T) {
	assert.Nil(t, BuildBenefitProjectionChart(nil))
	assert.Nil(t, BuildBenefitProjectionChart(&domain.ScenarioResults{}))
}

func TestBuildIncomeComparisonChart(t *testing.T) {
	scenarios := []*domain.RetirementScenario{
		{ID: "a", Name: "Retire at 65"},
		{ID: "b"}, // no display name, falls back to the id
		{ID: "c"},
	}
	results := []*domain.ScenarioResults{
		{ScenarioID: "a", IncomeProjections: domain.IncomeProjections{TotalAnnualIncome: decimal.NewFromInt(70000)}},
		{ScenarioID: "b", IncomeProjections: domain.IncomeProjections{TotalAnnualIncome: decimal.NewFromInt(55000)}},
		nil, // failed scenario is skipped
	}

	chart := BuildIncomeComparisonChart(scenarios, results)
	require.NotNil(t, chart)

	assert.Equal(t, "bar", chart.ChartType)
	require.Len(t, chart.Series, 1)
	require.Len(t, chart.Series[0].Data, 2)

	assert.Equal(t, "Retire at 65", chart.Series[0].Data[0].Label)
	assert.InDelta(t, 70000.0, chart.Series[0].Data[0].Value, 0.01)
	assert.Equal(t, "b", chart.Series[0].Data[1].Label)
}

func TestBuildIncomeComparisonChartAllFailed(t *testing.T) {
	chart := BuildIncomeComparisonChart(nil, []*domain.ScenarioResults{nil, nil})
	assert.Nil(t, chart)
}

func TestBuildIncomeBreakdownChart(t *testing.T) {
	chart := BuildIncomeBreakdownChart(chartResults())
	require.NotNil(t, chart)

	assert.Equal(t, "pie", chart.ChartType)
	assert.False(t, chart.ShowGrid)
	require.Len(t, chart.Series, 1)

	// First year has no Social Security and a 5,000 other-income remainder.
	labels := make([]string, 0, len(chart.Series[0].Data))
	for _, point := range chart.Series[0].Data {
		labels = append(labels, point.Label)
	}
	assert.Equal(t, []string{"Pension", "Portfolio Withdrawals", "Other Income"}, labels)

	assert.InDelta(t, 46875.0, chart.Series[0].Data[0].Value, 0.01)
	assert.InDelta(t, 14000.0, chart.Series[0].Data[1].Value, 0.01)
	assert.InDelta(t, 5000.0, chart.Series[0].Data[2].Value, 0.01)
}
