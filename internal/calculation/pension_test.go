package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masspension/planner/internal/domain"
)

func TestBenefitMultiplierTable(t *testing.T) {
	tests := []struct {
		name     string
		group    int
		age      int
		expected decimal.Decimal
	}{
		{"Group 1 at minimum age 60", domain.GroupGeneral, 60, decimal.NewFromFloat(0.020)},
		{"Group 1 at 62", domain.GroupGeneral, 62, decimal.NewFromFloat(0.022)},
		{"Group 1 at 65 reaches maximum", domain.GroupGeneral, 65, decimal.NewFromFloat(0.025)},
		{"Group 1 past 65 stays at maximum", domain.GroupGeneral, 70, decimal.NewFromFloat(0.025)},
		{"Group 2 at minimum age 55", domain.GroupHazardous, 55, decimal.NewFromFloat(0.020)},
		{"Group 2 at 58", domain.GroupHazardous, 58, decimal.NewFromFloat(0.023)},
		{"Group 3 at 50", domain.GroupStatePolice, 50, decimal.NewFromFloat(0.020)},
		{"Group 3 at 55 reaches maximum", domain.GroupStatePolice, 55, decimal.NewFromFloat(0.025)},
		{"Group 4 at minimum age 50", domain.GroupPublicSafety, 50, decimal.NewFromFloat(0.020)},
		{"Group 4 at 55 reaches maximum", domain.GroupPublicSafety, 55, decimal.NewFromFloat(0.025)},
		{"Below minimum age uses base rate", domain.GroupGeneral, 55, decimal.NewFromFloat(0.020)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			multiplier := BenefitMultiplier(tt.group, tt.age)
			assert.True(t, multiplier.Equal(tt.expected),
				"expected multiplier %s, got %s", tt.expected, multiplier)
		})
	}
}

func TestCheckEligibility(t *testing.T) {
	tests := []struct {
		name     string
		group    int
		age      int
		service  decimal.Decimal
		eligible bool
	}{
		{"Group 1 at 60 is eligible", domain.GroupGeneral, 60, decimal.NewFromInt(10), true},
		{"Group 1 at 59 is not eligible", domain.GroupGeneral, 59, decimal.NewFromInt(30), false},
		{"Group 2 at 55 is eligible", domain.GroupHazardous, 55, decimal.NewFromInt(10), true},
		{"Group 2 at 54 is not eligible", domain.GroupHazardous, 54, decimal.NewFromInt(25), false},
		{"Group 3 at 45 with 20 years is eligible", domain.GroupStatePolice, 45, decimal.NewFromInt(20), true},
		{"Group 3 at 45 with 19 years is not eligible", domain.GroupStatePolice, 45, decimal.NewFromInt(19), false},
		{"Group 3 at 55 with few years is eligible", domain.GroupStatePolice, 55, decimal.NewFromInt(5), true},
		{"Group 4 at 50 is eligible", domain.GroupPublicSafety, 50, decimal.NewFromInt(10), true},
		{"Group 4 at 49 is not eligible", domain.GroupPublicSafety, 49, decimal.NewFromInt(25), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eligible, note := CheckEligibility(tt.group, tt.age, tt.service)
			assert.Equal(t, tt.eligible, eligible)
			assert.NotEmpty(t, note)
		})
	}
}

func TestAverageHighestThree(t *testing.T) {
	tests := []struct {
		name     string
		history  []decimal.Decimal
		expected decimal.Decimal
	}{
		{
			name:     "picks highest three of five",
			history:  []decimal.Decimal{decimal.NewFromInt(60000), decimal.NewFromInt(70000), decimal.NewFromInt(80000), decimal.NewFromInt(90000), decimal.NewFromInt(100000)},
			expected: decimal.NewFromInt(90000),
		},
		{
			name:     "order does not matter",
			history:  []decimal.Decimal{decimal.NewFromInt(100000), decimal.NewFromInt(60000), decimal.NewFromInt(90000), decimal.NewFromInt(80000)},
			expected: decimal.NewFromInt(90000),
		},
		{
			name:     "two entries averages both",
			history:  []decimal.Decimal{decimal.NewFromInt(80000), decimal.NewFromInt(90000)},
			expected: decimal.NewFromInt(85000),
		},
		{
			name:     "single entry",
			history:  []decimal.Decimal{decimal.NewFromInt(75000)},
			expected: decimal.NewFromInt(75000),
		},
		{
			name:     "empty history yields zero",
			history:  nil,
			expected: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg := AverageHighestThree(tt.history)
			assert.True(t, avg.Equal(tt.expected),
				"expected average %s, got %s", tt.expected, avg)
		})
	}
}

func TestPensionCalculatorBaseCase(t *testing.T) {
	calc := NewPensionCalculator()

	// Group 1 member retiring at 65 with 25 years and $75,000 average
	// salary: 2.5% x 25 = 62.5% of salary.
	result, err := calc.Calculate(PensionInput{
		Group:          domain.GroupGeneral,
		Age:            65,
		YearsOfService: decimal.NewFromInt(25),
		AverageSalary:  decimal.NewFromInt(75000),
		Option:         domain.OptionA,
	})
	require.NoError(t, err)

	assert.True(t, result.Eligible)
	assert.True(t, result.Multiplier.Equal(decimal.NewFromFloat(0.025)),
		"expected multiplier 0.025, got %s", result.Multiplier)
	assert.True(t, result.BenefitFactor.Equal(decimal.NewFromFloat(0.625)),
		"expected benefit factor 0.625, got %s", result.BenefitFactor)
	assert.True(t, result.AnnualPension.Equal(decimal.NewFromInt(46875)),
		"expected annual pension 46875, got %s", result.AnnualPension)
	assert.True(t, result.MonthlyPension.Equal(decimal.NewFromFloat(3906.25)),
		"expected monthly pension 3906.25, got %s", result.MonthlyPension)
	assert.False(t, result.CappedAt80Percent)
	assert.True(t, result.BenefitReduction.IsZero())
	assert.Nil(t, result.SurvivorPension)
}

func TestPensionCalculator80PercentCap(t *testing.T) {
	calc := NewPensionCalculator()

	// 40 years at 2.5% would be 100% of salary; the cap holds it at 80%.
	result, err := calc.Calculate(PensionInput{
		Group:          domain.GroupGeneral,
		Age:            65,
		YearsOfService: decimal.NewFromInt(40),
		AverageSalary:  decimal.NewFromInt(100000),
		Option:         domain.OptionA,
	})
	require.NoError(t, err)

	assert.True(t, result.CappedAt80Percent)
	assert.True(t, result.BenefitFactor.Equal(decimal.NewFromFloat(0.80)),
		"expected capped factor 0.80, got %s", result.BenefitFactor)
	assert.True(t, result.AnnualPension.Equal(decimal.NewFromInt(80000)),
		"expected annual pension 80000, got %s", result.AnnualPension)
}

func TestPensionCalculatorIneligible(t *testing.T) {
	calc := NewPensionCalculator()

	result, err := calc.Calculate(PensionInput{
		Group:          domain.GroupGeneral,
		Age:            55,
		YearsOfService: decimal.NewFromInt(30),
		AverageSalary:  decimal.NewFromInt(90000),
		Option:         domain.OptionA,
	})
	require.NoError(t, err)

	assert.False(t, result.Eligible)
	assert.Contains(t, result.EligibilityNote, "minimum retirement age")
	assert.True(t, result.AnnualPension.IsZero())
	assert.True(t, result.MonthlyPension.IsZero())
}

func TestPensionCalculatorSalaryHistoryWins(t *testing.T) {
	calc := NewPensionCalculator()

	// A supplied salary history overrides the direct average.
	result, err := calc.Calculate(PensionInput{
		Group:          domain.GroupGeneral,
		Age:            65,
		YearsOfService: decimal.NewFromInt(20),
		SalaryHistory:  []decimal.Decimal{decimal.NewFromInt(70000), decimal.NewFromInt(80000), decimal.NewFromInt(90000)},
		AverageSalary:  decimal.NewFromInt(1),
		Option:         domain.OptionA,
	})
	require.NoError(t, err)

	assert.True(t, result.AverageSalary.Equal(decimal.NewFromInt(80000)),
		"expected average salary 80000, got %s", result.AverageSalary)
}

func TestPensionCalculatorOptions(t *testing.T) {
	beneficiary55 := 55
	beneficiary65 := 65
	beneficiary25 := 25

	tests := []struct {
		name              string
		option            string
		beneficiaryAge    *int
		expectedReduction decimal.Decimal
		survivorFraction  decimal.Decimal // of the reduced annual pension
	}{
		{
			name:              "Option A has no reduction and no survivor",
			option:            domain.OptionA,
			expectedReduction: decimal.Zero,
			survivorFraction:  decimal.Zero,
		},
		{
			name:              "Option B same-age beneficiary",
			option:            domain.OptionB,
			beneficiaryAge:    &beneficiary65,
			expectedReduction: decimal.NewFromFloat(0.02),
			survivorFraction:  decimal.NewFromFloat(0.50),
		},
		{
			name:              "Option C ten-year-younger beneficiary",
			option:            domain.OptionC,
			beneficiaryAge:    &beneficiary55,
			expectedReduction: decimal.NewFromFloat(0.095),
			survivorFraction:  decimal.NewFromInt(2).Div(decimal.NewFromInt(3)),
		},
		{
			name:              "Option C reduction caps at 15 percent",
			option:            domain.OptionC,
			beneficiaryAge:    &beneficiary25,
			expectedReduction: decimal.NewFromFloat(0.15),
			survivorFraction:  decimal.NewFromInt(2).Div(decimal.NewFromInt(3)),
		},
		{
			name:              "Option D mirrors Option C",
			option:            domain.OptionD,
			beneficiaryAge:    &beneficiary55,
			expectedReduction: decimal.NewFromFloat(0.095),
			survivorFraction:  decimal.NewFromInt(2).Div(decimal.NewFromInt(3)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewPensionCalculator()
			result, err := calc.Calculate(PensionInput{
				Group:          domain.GroupGeneral,
				Age:            65,
				YearsOfService: decimal.NewFromInt(25),
				AverageSalary:  decimal.NewFromInt(75000),
				Option:         tt.option,
				BeneficiaryAge: tt.beneficiaryAge,
			})
			require.NoError(t, err)

			assert.True(t, result.BenefitReduction.Equal(tt.expectedReduction),
				"expected reduction %s, got %s", tt.expectedReduction, result.BenefitReduction)

			expectedAnnual := decimal.NewFromInt(46875).Mul(decimal.NewFromInt(1).Sub(tt.expectedReduction))
			assert.True(t, result.AnnualPension.Equal(expectedAnnual),
				"expected annual pension %s, got %s", expectedAnnual, result.AnnualPension)

			if tt.survivorFraction.IsZero() {
				assert.Nil(t, result.SurvivorPension)
			} else {
				require.NotNil(t, result.SurvivorPension)
				expectedSurvivor := expectedAnnual.Mul(tt.survivorFraction)
				assert.True(t, result.SurvivorPension.Equal(expectedSurvivor),
					"expected survivor pension %s, got %s", expectedSurvivor, result.SurvivorPension)
			}
		})
	}
}

func TestPensionCalculatorInputErrors(t *testing.T) {
	calc := NewPensionCalculator()

	tests := []struct {
		name  string
		input PensionInput
	}{
		{
			name: "negative service",
			input: PensionInput{
				Group:          domain.GroupGeneral,
				Age:            65,
				YearsOfService: decimal.NewFromInt(-1),
				AverageSalary:  decimal.NewFromInt(75000),
			},
		},
		{
			name: "negative salary",
			input: PensionInput{
				Group:          domain.GroupGeneral,
				Age:            65,
				YearsOfService: decimal.NewFromInt(25),
				AverageSalary:  decimal.NewFromInt(-75000),
			},
		},
		{
			name: "negative salary history entry",
			input: PensionInput{
				Group:          domain.GroupGeneral,
				Age:            65,
				YearsOfService: decimal.NewFromInt(25),
				SalaryHistory:  []decimal.Decimal{decimal.NewFromInt(75000), decimal.NewFromInt(-1)},
			},
		},
		{
			name: "unknown group",
			input: PensionInput{
				Group:          7,
				Age:            65,
				YearsOfService: decimal.NewFromInt(25),
				AverageSalary:  decimal.NewFromInt(75000),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Calculate(tt.input)
			assert.Error(t, err)
		})
	}
}
