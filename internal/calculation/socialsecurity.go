package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/masspension/planner/pkg/dateutil"
)

// SSBenefit is the benefit payable at a claiming age. Claiming before 62 is
// not possible; such requests come back Eligible=false with zero amounts.
type SSBenefit struct {
	Eligible       bool
	MonthlyBenefit decimal.Decimal
	AnnualBenefit  decimal.Decimal
}

// SocialSecurityCalculator computes primary, spousal, and survivor Social
// Security benefits from the member's SSA benefit estimates.
type SocialSecurityCalculator struct {
	BirthYear         int
	FullRetirementAge int
	BenefitAtFRA      decimal.Decimal // monthly
}

// NewSocialSecurityCalculator creates a calculator for one member. A zero
// fullRetirementAge falls back to the SSA schedule for the birth year.
func NewSocialSecurityCalculator(birthYear, fullRetirementAge int, benefitAtFRA decimal.Decimal) *SocialSecurityCalculator {
	if fullRetirementAge == 0 {
		fullRetirementAge = dateutil.FullRetirementAge(birthYear)
	}
	return &SocialSecurityCalculator{
		BirthYear:         birthYear,
		FullRetirementAge: fullRetirementAge,
		BenefitAtFRA:      benefitAtFRA,
	}
}

// BenefitAtAge calculates the monthly and annual benefit at a claiming age,
// applying the standard early-claiming reduction or delayed retirement
// credits to the full-retirement-age benefit.
func (ssc *SocialSecurityCalculator) BenefitAtAge(claimingAge int) SSBenefit {
	if claimingAge < dateutil.SSEarliestClaimingAge {
		return SSBenefit{}
	}

	monthly := ssc.BenefitAtFRA

	if claimingAge < ssc.FullRetirementAge {
		monthsEarly := (ssc.FullRetirementAge - claimingAge) * 12
		var reduction decimal.Decimal
		if monthsEarly <= 36 {
			// 5/9 of 1% per month for the first 36 months
			reduction = decimal.NewFromFloat(5.0 / 9.0 / 100.0).Mul(decimal.NewFromInt(int64(monthsEarly)))
		} else {
			firstReduction := decimal.NewFromFloat(5.0 / 9.0 / 100.0).Mul(decimal.NewFromInt(36))
			additionalMonths := monthsEarly - 36
			// 5/12 of 1% per month beyond 36
			additionalReduction := decimal.NewFromFloat(5.0 / 12.0 / 100.0).Mul(decimal.NewFromInt(int64(additionalMonths)))
			reduction = firstReduction.Add(additionalReduction)
		}
		monthly = ssc.BenefitAtFRA.Mul(decimal.NewFromInt(1).Sub(reduction))
	} else if claimingAge > ssc.FullRetirementAge {
		// Delayed retirement credits: 8% per year (2/3% per month), no
		// further credit past age 70.
		monthsDelayed := (claimingAge - ssc.FullRetirementAge) * 12
		maxMonths := (dateutil.SSMaxClaimingAge - ssc.FullRetirementAge) * 12
		if monthsDelayed > maxMonths {
			monthsDelayed = maxMonths
		}
		credit := decimal.NewFromFloat(2.0 / 3.0 / 100.0).Mul(decimal.NewFromInt(int64(monthsDelayed)))
		monthly = ssc.BenefitAtFRA.Mul(decimal.NewFromInt(1).Add(credit))
	}

	return SSBenefit{
		Eligible:       true,
		MonthlyBenefit: monthly,
		AnnualBenefit:  monthly.Mul(decimal.NewFromInt(12)),
	}
}

// SpousalBenefit returns the combined monthly benefit for a member whose
// spouse has a benefit of their own: the higher of the member's own benefit
// or 50% of the higher-earning spouse's full benefit.
func SpousalBenefit(ownBenefit, spouseBenefitFRA decimal.Decimal) decimal.Decimal {
	half := spouseBenefitFRA.Mul(decimal.NewFromFloat(0.5))
	return decimal.Max(ownBenefit, half)
}

// SurvivorBenefit computes the benefit payable to a surviving spouse: up to
// 100% of the deceased's benefit at or after the survivor's FRA, reduced
// linearly to 71.5% at age 60. Survivors under 60 are not yet eligible.
func SurvivorBenefit(deceasedBenefit decimal.Decimal, survivorAge, survivorFRA int) decimal.Decimal {
	if deceasedBenefit.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if survivorAge >= survivorFRA {
		return deceasedBenefit
	}
	if survivorAge < 60 {
		return decimal.Zero
	}

	totalMonths := (survivorFRA - 60) * 12
	monthsFrom60 := (survivorAge - 60) * 12
	ratio := decimal.NewFromInt(int64(monthsFrom60)).Div(decimal.NewFromInt(int64(totalMonths)))
	minFactor := decimal.NewFromFloat(0.715)
	factor := minFactor.Add(decimal.NewFromInt(1).Sub(minFactor).Mul(ratio))
	return deceasedBenefit.Mul(factor)
}

// InterpolateBenefitEstimate fills in a claiming-age benefit from the SSA
// statement's 62/FRA/70 estimates. Interpolation is linear in months between
// the known points.
func InterpolateBenefitEstimate(benefit62, benefitFRA, benefit70 decimal.Decimal, claimingAge, fra int) decimal.Decimal {
	switch {
	case claimingAge <= dateutil.SSEarliestClaimingAge:
		return benefit62
	case claimingAge == fra:
		return benefitFRA
	case claimingAge >= dateutil.SSMaxClaimingAge:
		return benefit70
	case claimingAge < fra:
		monthsBetween := (claimingAge - dateutil.SSEarliestClaimingAge) * 12
		totalMonths := (fra - dateutil.SSEarliestClaimingAge) * 12
		ratio := decimal.NewFromInt(int64(monthsBetween)).Div(decimal.NewFromInt(int64(totalMonths)))
		return benefit62.Add(benefitFRA.Sub(benefit62).Mul(ratio))
	default:
		monthsBetween := (claimingAge - fra) * 12
		totalMonths := (dateutil.SSMaxClaimingAge - fra) * 12
		ratio := decimal.NewFromInt(int64(monthsBetween)).Div(decimal.NewFromInt(int64(totalMonths)))
		return benefitFRA.Add(benefit70.Sub(benefitFRA).Mul(ratio))
	}
}
