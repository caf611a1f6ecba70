package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenefitAtAge(t *testing.T) {
	tests := []struct {
		name         string
		fra          int
		benefitAtFRA decimal.Decimal
		claimingAge  int
		expected     decimal.Decimal
	}{
		{
			name:         "claiming at FRA pays the full benefit",
			fra:          67,
			benefitAtFRA: decimal.NewFromInt(2000),
			claimingAge:  67,
			expected:     decimal.NewFromInt(2000),
		},
		{
			name:         "claiming 36 months early reduces by 20 percent",
			fra:          67,
			benefitAtFRA: decimal.NewFromInt(2000),
			claimingAge:  64,
			expected:     decimal.NewFromInt(1600),
		},
		{
			name:         "claiming at 62 with FRA 67 reduces by 30 percent",
			fra:          67,
			benefitAtFRA: decimal.NewFromInt(2000),
			claimingAge:  62,
			expected:     decimal.NewFromInt(1400),
		},
		{
			name:         "claiming at 70 with FRA 67 adds 24 percent",
			fra:          67,
			benefitAtFRA: decimal.NewFromInt(2000),
			claimingAge:  70,
			expected:     decimal.NewFromInt(2480),
		},
		{
			name:         "claiming at 70 with FRA 66 adds 32 percent",
			fra:          66,
			benefitAtFRA: decimal.NewFromInt(2000),
			claimingAge:  70,
			expected:     decimal.NewFromInt(2640),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewSocialSecurityCalculator(1960, tt.fra, tt.benefitAtFRA)
			benefit := calc.BenefitAtAge(tt.claimingAge)

			require.True(t, benefit.Eligible)
			difference := benefit.MonthlyBenefit.Sub(tt.expected).Abs()
			assert.True(t, difference.LessThan(decimal.NewFromFloat(0.01)),
				"expected monthly benefit near %s, got %s", tt.expected, benefit.MonthlyBenefit)
			assert.True(t, benefit.AnnualBenefit.Equal(benefit.MonthlyBenefit.Mul(decimal.NewFromInt(12))))
		})
	}
}

func TestBenefitAtAgeBefore62(t *testing.T) {
	calc := NewSocialSecurityCalculator(1960, 67, decimal.NewFromInt(2000))
	benefit := calc.BenefitAtAge(60)

	assert.False(t, benefit.Eligible)
	assert.True(t, benefit.MonthlyBenefit.IsZero())
	assert.True(t, benefit.AnnualBenefit.IsZero())
}

func TestBenefitAtAgeDefaultsFRAFromBirthYear(t *testing.T) {
	// FRA left zero falls back to the SSA schedule: born 1960 or later
	// means 67.
	calc := NewSocialSecurityCalculator(1962, 0, decimal.NewFromInt(2000))
	assert.Equal(t, 67, calc.FullRetirementAge)

	benefit := calc.BenefitAtAge(67)
	assert.True(t, benefit.MonthlyBenefit.Equal(decimal.NewFromInt(2000)))
}

func TestSpousalBenefit(t *testing.T) {
	tests := []struct {
		name      string
		own       decimal.Decimal
		spouseFRA decimal.Decimal
		expected  decimal.Decimal
	}{
		{
			name:      "own benefit wins when higher than half of spouse's",
			own:       decimal.NewFromInt(1800),
			spouseFRA: decimal.NewFromInt(3000),
			expected:  decimal.NewFromInt(1800),
		},
		{
			name:      "half of spouse's benefit wins when own is lower",
			own:       decimal.NewFromInt(1200),
			spouseFRA: decimal.NewFromInt(3000),
			expected:  decimal.NewFromInt(1500),
		},
		{
			name:      "zero own benefit gets the spousal half",
			own:       decimal.Zero,
			spouseFRA: decimal.NewFromInt(2400),
			expected:  decimal.NewFromInt(1200),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SpousalBenefit(tt.own, tt.spouseFRA)
			assert.True(t, result.Equal(tt.expected),
				"expected %s, got %s", tt.expected, result)
		})
	}
}

func TestSurvivorBenefit(t *testing.T) {
	deceased := decimal.NewFromInt(2000)

	tests := []struct {
		name        string
		survivorAge int
		expected    decimal.Decimal
	}{
		{"at FRA pays full benefit", 67, decimal.NewFromInt(2000)},
		{"past FRA pays full benefit", 70, decimal.NewFromInt(2000)},
		{"at 60 pays 71.5 percent", 60, decimal.NewFromInt(1430)},
		{"under 60 is not eligible", 59, decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SurvivorBenefit(deceased, tt.survivorAge, 67)
			difference := result.Sub(tt.expected).Abs()
			assert.True(t, difference.LessThan(decimal.NewFromFloat(0.01)),
				"expected %s, got %s", tt.expected, result)
		})
	}

	t.Run("between 60 and FRA scales linearly", func(t *testing.T) {
		at63 := SurvivorBenefit(deceased, 63, 67)
		at60 := SurvivorBenefit(deceased, 60, 67)
		at66 := SurvivorBenefit(deceased, 66, 67)

		assert.True(t, at63.GreaterThan(at60))
		assert.True(t, at66.GreaterThan(at63))
		assert.True(t, at66.LessThan(deceased))
	})

	t.Run("zero deceased benefit yields zero", func(t *testing.T) {
		result := SurvivorBenefit(decimal.Zero, 67, 67)
		assert.True(t, result.IsZero())
	})
}

func TestInterpolateBenefitEstimate(t *testing.T) {
	b62 := decimal.NewFromInt(1400)
	bFRA := decimal.NewFromInt(2000)
	b70 := decimal.NewFromInt(2480)

	tests := []struct {
		name        string
		claimingAge int
		expected    decimal.Decimal
	}{
		{"at 62 uses the 62 estimate", 62, b62},
		{"at FRA uses the FRA estimate", 67, bFRA},
		{"at 70 uses the 70 estimate", 70, b70},
		{"midway between 62 and FRA", 64, decimal.NewFromInt(1640)}, // 1400 + 600 * 24/60
		{"midway between FRA and 70", 68, decimal.NewFromInt(2160)}, // 2000 + 480 * 12/36
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := InterpolateBenefitEstimate(b62, bFRA, b70, tt.claimingAge, 67)
			difference := result.Sub(tt.expected).Abs()
			assert.True(t, difference.LessThan(decimal.NewFromFloat(0.01)),
				"expected %s, got %s", tt.expected, result)
		})
	}
}
