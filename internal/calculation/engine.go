package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/masspension/planner/internal/domain"
	"github.com/masspension/planner/pkg/dateutil"
)

// Narrow contracts for the sub-calculators so tests can substitute fakes
// without touching the orchestrator's composition logic.

// PensionCalc computes a pension benefit and eligibility.
type PensionCalc interface {
	Calculate(in PensionInput) (PensionCalculation, error)
}

// SSCalc computes a Social Security benefit at a claiming age.
type SSCalc interface {
	Calculate(birthYear, fullRetirementAge, claimingAge int, benefitAtFRA decimal.Decimal) SSBenefit
}

// TaxCalc computes the retirement tax breakdown for an income mix.
type TaxCalc interface {
	CalculateRetirementTaxes(pensionIncome, ssBenefitAnnual, otherIncome decimal.Decimal, filingStatus string, age65OrOlder bool) (TaxCalculationResult, error)
}

// PortfolioSim runs the withdrawal simulation.
type PortfolioSim interface {
	Simulate(in PortfolioSimulationInput) PortfolioSimulation
}

// ssBenefitService adapts SocialSecurityCalculator to the SSCalc contract.
type ssBenefitService struct{}

func (ssBenefitService) Calculate(birthYear, fullRetirementAge, claimingAge int, benefitAtFRA decimal.Decimal) SSBenefit {
	return NewSocialSecurityCalculator(birthYear, fullRetirementAge, benefitAtFRA).BenefitAtAge(claimingAge)
}

// portfolioService adapts SimulatePortfolio to the PortfolioSim contract.
type portfolioService struct{}

func (portfolioService) Simulate(in PortfolioSimulationInput) PortfolioSimulation {
	return SimulatePortfolio(in)
}

// CalculationEngine composes the calculators into complete scenario results.
// The engine is stateless between calls; all configuration is in-core
// constants.
type CalculationEngine struct {
	Pension        PensionCalc
	SocialSecurity SSCalc
	Taxes          TaxCalc
	Portfolio      PortfolioSim
	Logger         Logger
}

// NewCalculationEngine creates an engine wired to the production
// calculators.
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		Pension:        NewPensionCalculator(),
		SocialSecurity: ssBenefitService{},
		Taxes:          NewTaxCalculator(),
		Portfolio:      portfolioService{},
		Logger:         NopLogger{},
	}
}

// SetLogger sets the engine logger. A nil logger restores the no-op default.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// CalculateScenarioResults is the single public entry point for one
// scenario. Failures propagate to the caller; only the batch runner converts
// them to placeholder results.
func (ce *CalculationEngine) CalculateScenarioResults(scenario *domain.RetirementScenario) (*domain.ScenarioResults, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario is nil")
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", scenario.ID, err)
	}

	horizon := scenario.ProjectionHorizon()

	pension, err := ce.Pension.Calculate(PensionInput{
		Group:          scenario.Pension.RetirementGroup,
		Age:            scenario.Personal.RetirementAge,
		YearsOfService: scenario.ServiceAtRetirement(),
		SalaryHistory:  scenario.Pension.SalaryHistory,
		AverageSalary:  scenario.Pension.AverageSalary,
		Option:         scenario.Pension.RetirementOption,
		BeneficiaryAge: scenario.Pension.BeneficiaryAge,
	})
	if err != nil {
		return nil, fmt.Errorf("pension calculation for scenario %s: %w", scenario.ID, err)
	}
	if !pension.Eligible {
		ce.Logger.Infof("scenario %s: member not eligible for retirement: %s", scenario.ID, pension.EligibilityNote)
	}

	ssMonthly := ce.socialSecurityMonthly(scenario)
	ssAnnual := ssMonthly.Mul(decimal.NewFromInt(12))

	initialBalance := scenario.Financial.TotalPortfolioBalance()
	portfolio := ce.Portfolio.Simulate(PortfolioSimulationInput{
		InitialBalance: initialBalance,
		ReturnRate:     scenario.Financial.ExpectedReturnRate,
		InflationRate:  scenario.Financial.InflationRate,
		WithdrawalRate: scenario.Financial.WithdrawalRate,
		Strategy:       scenario.Financial.WithdrawalStrategy,
		HealthcareCost: scenario.Financial.AnnualHealthcareCost,
		HorizonYears:   horizon,
	})

	projections := ProjectBenefitSchedule(pension, ssAnnual, scenario, portfolio)

	firstWithdrawal := decimal.Zero
	if len(portfolio.YearlyWithdrawals) > 0 {
		firstWithdrawal = portfolio.YearlyWithdrawals[0]
	}

	// Tax analysis for the first full-benefit year. Portfolio withdrawals
	// are treated as ordinary other income.
	taxes, err := ce.Taxes.CalculateRetirementTaxes(
		pension.AnnualPension,
		ssAnnual,
		scenario.Financial.OtherRetirementIncome.Add(firstWithdrawal),
		scenario.Tax.FilingStatus,
		scenario.Personal.RetirementAge >= 65,
	)
	if err != nil {
		return nil, fmt.Errorf("tax calculation for scenario %s: %w", scenario.ID, err)
	}

	totalAnnualIncome := pension.AnnualPension.Add(ssAnnual).
		Add(scenario.Financial.OtherRetirementIncome).Add(firstWithdrawal)

	replacementRatio := decimal.Zero
	if pension.AverageSalary.GreaterThan(decimal.Zero) {
		replacementRatio = totalAnnualIncome.Div(pension.AverageSalary)
	}

	var pensionLifetime, ssLifetime, combinedLifetime decimal.Decimal
	for _, year := range projections {
		pensionLifetime = pensionLifetime.Add(year.TotalPensionAnnual)
		ssLifetime = ssLifetime.Add(year.SocialSecurityAnnual)
		combinedLifetime = combinedLifetime.Add(year.CombinedTotalAnnual)
	}

	results := &domain.ScenarioResults{
		ScenarioID: scenario.ID,
		PensionBenefits: domain.PensionBenefits{
			Eligible:         pension.Eligible,
			MonthlyBenefit:   pension.MonthlyPension,
			AnnualBenefit:    pension.AnnualPension,
			LifetimeBenefit:  pensionLifetime,
			BenefitReduction: pension.BenefitReduction,
			SurvivorPension:  pension.SurvivorPension,
		},
		SocialSecurity: domain.SocialSecurityBenefits{
			MonthlyBenefit:  ssMonthly,
			AnnualBenefit:   ssAnnual,
			LifetimeBenefit: ssLifetime,
		},
		IncomeProjections: domain.IncomeProjections{
			TotalAnnualIncome:  totalAnnualIncome,
			TotalMonthlyIncome: totalAnnualIncome.Div(decimal.NewFromInt(12)),
			NetAfterTaxIncome:  totalAnnualIncome.Sub(taxes.TotalTax),
			ReplacementRatio:   replacementRatio,
			YearlyProjections:  projections,
		},
		TaxAnalysis: domain.TaxAnalysis{
			AnnualTaxBurden:       taxes.TotalTax,
			EffectiveTaxRate:      taxes.EffectiveTaxRate,
			MarginalTaxRate:       taxes.MarginalTaxRate,
			FederalTax:            taxes.FederalTax,
			StateTax:              taxes.StateTax,
			TaxableSocialSecurity: taxes.TaxableSocialSecurity,
		},
	}

	// Absent portfolio means absent analysis, not a zero-filled one.
	if initialBalance.GreaterThan(decimal.Zero) {
		results.PortfolioAnalysis = &domain.PortfolioAnalysis{
			InitialBalance:       initialBalance,
			FinalBalance:         portfolio.FinalBalance,
			TotalWithdrawals:     portfolio.TotalWithdrawals,
			PortfolioLongevity:   portfolio.LongevityYears,
			ProbabilityOfSuccess: portfolio.ProbabilityOfSuccess,
		}
	}

	if scenario.SocialSec.IsMarried {
		ce.populateMarriedBenefits(scenario, ssMonthly, &results.SocialSecurity)
	}

	results.KeyMetrics = domain.KeyMetrics{
		TotalLifetimeIncome: combinedLifetime,
		BreakEvenAge:        ce.claimingBreakEvenAge(scenario),
		RiskScore:           ce.riskScore(scenario, portfolio, horizon),
		FlexibilityScore:    ce.flexibilityScore(scenario, initialBalance, totalAnnualIncome),
		OptimizationScore:   ce.optimizationScore(scenario, replacementRatio, taxes.EffectiveTaxRate),
	}

	return results, nil
}

// socialSecurityMonthly resolves the monthly benefit at the claiming age.
// When the SSA statement supplies all three estimates, the claiming benefit
// is interpolated between them; otherwise the standard adjustment formula is
// applied to the full-retirement-age estimate.
func (ce *CalculationEngine) socialSecurityMonthly(scenario *domain.RetirementScenario) decimal.Decimal {
	ss := scenario.SocialSec
	if !ss.EstimatedBenefit62.IsZero() && !ss.EstimatedBenefit70.IsZero() {
		return InterpolateBenefitEstimate(ss.EstimatedBenefit62, ss.EstimatedBenefitFRA, ss.EstimatedBenefit70, ss.ClaimingAge, ss.FullRetirementAge)
	}
	benefit := ce.SocialSecurity.Calculate(scenario.Personal.BirthYear, ss.FullRetirementAge, ss.ClaimingAge, ss.EstimatedBenefitFRA)
	return benefit.MonthlyBenefit
}

// populateMarriedBenefits fills in the spousal and survivor fields for
// married scenarios.
func (ce *CalculationEngine) populateMarriedBenefits(scenario *domain.RetirementScenario, ownMonthly decimal.Decimal, ss *domain.SocialSecurityBenefits) {
	spouseFRA := decimal.Zero
	if scenario.SocialSec.SpouseBenefitFRA != nil {
		spouseFRA = *scenario.SocialSec.SpouseBenefitFRA
	}

	spousal := SpousalBenefit(ownMonthly, spouseFRA)
	ss.SpousalBenefit = &spousal

	survivor := SurvivorBenefit(spouseFRA, scenario.SocialSec.ClaimingAge, scenario.SocialSec.FullRetirementAge)
	ss.SurvivorBenefit = &survivor
}

// claimingBreakEvenAge finds the age at which cumulative benefits from the
// chosen claiming age overtake cumulative benefits from claiming at the
// earliest age. Returns 0 when claiming at 62 (nothing to break even
// against) or when the chosen age never catches up within the table.
func (ce *CalculationEngine) claimingBreakEvenAge(scenario *domain.RetirementScenario) int {
	ss := scenario.SocialSec
	if ss.ClaimingAge <= dateutil.SSEarliestClaimingAge {
		return 0
	}

	chosen := ce.SocialSecurity.Calculate(scenario.Personal.BirthYear, ss.FullRetirementAge, ss.ClaimingAge, ss.EstimatedBenefitFRA)
	early := ce.SocialSecurity.Calculate(scenario.Personal.BirthYear, ss.FullRetirementAge, dateutil.SSEarliestClaimingAge, ss.EstimatedBenefitFRA)
	if chosen.AnnualBenefit.LessThanOrEqual(early.AnnualBenefit) {
		return 0
	}

	for age := ss.ClaimingAge; age <= 110; age++ {
		chosenYears := decimal.NewFromInt(int64(age - ss.ClaimingAge + 1))
		earlyYears := decimal.NewFromInt(int64(age - dateutil.SSEarliestClaimingAge + 1))
		if chosen.AnnualBenefit.Mul(chosenYears).GreaterThanOrEqual(early.AnnualBenefit.Mul(earlyYears)) {
			return age
		}
	}
	return 0
}

// riskScore rates the scenario's risk on a 1-10 scale. Earlier retirement,
// aggressive assumptions, and a portfolio that depletes before the horizon
// all push the score up.
func (ce *CalculationEngine) riskScore(scenario *domain.RetirementScenario, portfolio PortfolioSimulation, horizon int) int {
	score := 5

	switch {
	case scenario.Personal.RetirementAge < 60:
		score += 2
	case scenario.Personal.RetirementAge < 62:
		score++
	case scenario.Personal.RetirementAge >= 67:
		score--
	}

	switch scenario.Financial.RiskTolerance {
	case domain.RiskAggressive:
		score += 2
	case domain.RiskConservative:
		score -= 2
	}

	if scenario.Financial.ExpectedReturnRate.GreaterThan(decimal.NewFromFloat(0.07)) {
		score++
	}
	if scenario.Financial.WithdrawalRate.GreaterThan(decimal.NewFromFloat(0.05)) {
		score++
	}
	if scenario.Financial.TotalPortfolioBalance().GreaterThan(decimal.Zero) && portfolio.LongevityYears < horizon {
		score++
	}

	return clampScore(score)
}

// flexibilityScore rates discretionary assets relative to income need.
func (ce *CalculationEngine) flexibilityScore(scenario *domain.RetirementScenario, initialBalance, annualIncome decimal.Decimal) int {
	score := 3

	if annualIncome.GreaterThan(decimal.Zero) {
		ratio := initialBalance.Div(annualIncome)
		switch {
		case ratio.GreaterThan(decimal.NewFromInt(10)):
			score += 4
		case ratio.GreaterThan(decimal.NewFromInt(5)):
			score += 3
		case ratio.GreaterThan(decimal.NewFromInt(2)):
			score += 2
		case ratio.GreaterThan(decimal.NewFromFloat(0.5)):
			score++
		}
	}

	switch scenario.Financial.RiskTolerance {
	case domain.RiskAggressive:
		score++
	case domain.RiskConservative:
		score--
	}

	return clampScore(score)
}

// optimizationScore is a composite of replacement ratio, tax efficiency,
// and claiming-age efficiency.
func (ce *CalculationEngine) optimizationScore(scenario *domain.RetirementScenario, replacementRatio, effectiveRate decimal.Decimal) int {
	score := 3

	switch {
	case replacementRatio.GreaterThanOrEqual(decimal.NewFromInt(1)):
		score += 3
	case replacementRatio.GreaterThanOrEqual(decimal.NewFromFloat(0.8)):
		score += 2
	case replacementRatio.GreaterThanOrEqual(decimal.NewFromFloat(0.6)):
		score++
	}

	switch {
	case effectiveRate.LessThan(decimal.NewFromFloat(0.10)):
		score += 2
	case effectiveRate.LessThan(decimal.NewFromFloat(0.15)):
		score++
	}

	if scenario.SocialSec.ClaimingAge >= scenario.SocialSec.FullRetirementAge {
		score += 2
	} else if scenario.SocialSec.ClaimingAge >= 65 {
		score++
	}

	return clampScore(score)
}

// clampScore clamps a score to the 1-10 scale.
func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
