package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/masspension/planner/internal/domain"
)

// COLABaseAmount is the statutory base: the pension COLA applies only to the
// first $13,000 of annual benefit, so a 3% COLA adds at most $390 per year.
var COLABaseAmount = decimal.NewFromInt(13000)

// effectiveCOLARates resolves the COLA rates for a scenario. Explicit rates
// win; zero rates fall back to the named COLA scenario's defaults.
func effectiveCOLARates(cola domain.COLAParameters) (pensionRate, ssRate decimal.Decimal) {
	pensionRate = cola.PensionCOLARate
	ssRate = cola.SocialSecurityCOLARate
	if !pensionRate.IsZero() || !ssRate.IsZero() {
		return pensionRate, ssRate
	}

	switch cola.COLAScenario {
	case "conservative":
		return decimal.NewFromFloat(0.02), decimal.NewFromFloat(0.015)
	case "optimistic":
		return decimal.NewFromFloat(0.03), decimal.NewFromFloat(0.035)
	default: // moderate
		return decimal.NewFromFloat(0.03), decimal.NewFromFloat(0.025)
	}
}

// ProjectBenefitSchedule produces the year-by-year benefit schedule, one row
// per age from retirement age to life expectancy. The full sequence is always
// produced; truncating at the 80%-cap plateau is a display concern owned by
// the caller.
//
// Per-year rules:
//   - service is frozen at its retirement value; post-retirement years do not
//     add service credit
//   - the 80%-of-salary cap on the pre-COLA base is re-checked every year and
//     flagged when it binds
//   - the pension COLA applies to the first $13,000 of the current total
//     pension and compounds on prior COLA-adjusted totals
//   - the Social Security COLA applies to the full current benefit from the
//     claiming age onward
func ProjectBenefitSchedule(pension PensionCalculation, ssAnnualAtClaim decimal.Decimal, scenario *domain.RetirementScenario, portfolio PortfolioSimulation) []domain.ProjectionYear {
	horizon := scenario.ProjectionHorizon()
	if horizon <= 0 {
		return nil
	}

	pensionCOLARate, ssCOLARate := effectiveCOLARates(scenario.COLA)
	twelve := decimal.NewFromInt(12)

	serviceAtRetirement := scenario.ServiceAtRetirement()
	benefitCap := pension.AverageSalary.Mul(MaxBenefitPercent)

	claimingAge := scenario.SocialSec.ClaimingAge
	otherIncome := scenario.Financial.OtherRetirementIncome

	years := make([]domain.ProjectionYear, 0, horizon)

	colaAccumulated := decimal.Zero
	currentSS := decimal.Zero

	for i := 0; i < horizon; i++ {
		age := scenario.Personal.RetirementAge + i

		// Re-derive the pre-COLA base from the benefit factor and clamp at
		// the statutory cap.
		base := pension.AverageSalary.Mul(pension.BenefitFactor)
		capped := false
		if base.GreaterThan(benefitCap) {
			base = benefitCap
			capped = true
		}
		capped = capped || pension.CappedAt80Percent

		optionFactor := decimal.NewFromInt(1).Sub(pension.BenefitReduction)
		pensionWithOption := base.Mul(optionFactor)

		totalPension := pensionWithOption.Add(colaAccumulated)

		// COLA for next year compounds on this year's total, limited to the
		// statutory base amount.
		colaIncrease := decimal.Min(totalPension, COLABaseAmount).Mul(pensionCOLARate)

		// Social Security starts at the claiming age; its COLA compounds on
		// the full current benefit. A member who claimed before retiring
		// enters the schedule already drawing, with the COLAs accrued since
		// the claiming age.
		switch {
		case age == claimingAge:
			currentSS = ssAnnualAtClaim
		case age > claimingAge && currentSS.GreaterThan(decimal.Zero):
			currentSS = currentSS.Mul(decimal.NewFromInt(1).Add(ssCOLARate))
		case age > claimingAge:
			growth := decimal.NewFromInt(1).Add(ssCOLARate).Pow(decimal.NewFromInt(int64(age - claimingAge)))
			currentSS = ssAnnualAtClaim.Mul(growth)
		}

		withdrawal := decimal.Zero
		balance := decimal.Zero
		if i < len(portfolio.YearlyWithdrawals) {
			withdrawal = portfolio.YearlyWithdrawals[i]
			balance = portfolio.YearlyBalances[i]
		}

		combined := totalPension.Add(currentSS).Add(withdrawal).Add(otherIncome)

		years = append(years, domain.ProjectionYear{
			Age:                   age,
			YearsOfService:        serviceAtRetirement,
			BenefitFactor:         pension.BenefitFactor,
			PensionWithOption:     pensionWithOption,
			COLAAdjustment:        colaAccumulated,
			TotalPensionAnnual:    totalPension,
			TotalPensionMonthly:   totalPension.Div(twelve),
			SocialSecurityAnnual:  currentSS,
			SocialSecurityMonthly: currentSS.Div(twelve),
			PortfolioBalance:      balance,
			PortfolioWithdrawal:   withdrawal,
			CombinedTotalAnnual:   combined,
			CombinedTotalMonthly:  combined.Div(twelve),
			CappedAt80Percent:     capped,
		})

		colaAccumulated = colaAccumulated.Add(colaIncrease)
	}

	return years
}
