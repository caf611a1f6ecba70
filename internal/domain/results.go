package domain

import (
	"github.com/shopspring/decimal"
)

// ProjectionYear is one row of the benefit schedule, one per age from
// retirement age to life expectancy. Rows are immutable once produced.
type ProjectionYear struct {
	Age                   int             `json:"age"`
	YearsOfService        decimal.Decimal `json:"years_of_service"`
	BenefitFactor         decimal.Decimal `json:"benefit_factor"`
	PensionWithOption     decimal.Decimal `json:"pension_with_option"`
	COLAAdjustment        decimal.Decimal `json:"cola_adjustment"`
	TotalPensionAnnual    decimal.Decimal `json:"total_pension_annual"`
	TotalPensionMonthly   decimal.Decimal `json:"total_pension_monthly"`
	SocialSecurityAnnual  decimal.Decimal `json:"social_security_annual"`
	SocialSecurityMonthly decimal.Decimal `json:"social_security_monthly"`
	PortfolioBalance      decimal.Decimal `json:"portfolio_balance"`
	PortfolioWithdrawal   decimal.Decimal `json:"portfolio_withdrawal"`
	CombinedTotalAnnual   decimal.Decimal `json:"combined_total_annual"`
	CombinedTotalMonthly  decimal.Decimal `json:"combined_total_monthly"`
	CappedAt80Percent     bool            `json:"capped_at_80_percent"`
}

// PensionBenefits summarizes the pension portion of the results.
type PensionBenefits struct {
	Eligible         bool             `json:"eligible"`
	MonthlyBenefit   decimal.Decimal  `json:"monthly_benefit"`
	AnnualBenefit    decimal.Decimal  `json:"annual_benefit"`
	LifetimeBenefit  decimal.Decimal  `json:"lifetime_benefit"`
	BenefitReduction decimal.Decimal  `json:"benefit_reduction"`
	SurvivorPension  *decimal.Decimal `json:"survivor_pension,omitempty"`
}

// SocialSecurityBenefits summarizes the Social Security portion.
// Spousal and survivor fields are populated only for married scenarios.
type SocialSecurityBenefits struct {
	MonthlyBenefit  decimal.Decimal  `json:"monthly_benefit"`
	AnnualBenefit   decimal.Decimal  `json:"annual_benefit"`
	LifetimeBenefit decimal.Decimal  `json:"lifetime_benefit"`
	SpousalBenefit  *decimal.Decimal `json:"spousal_benefit,omitempty"`
	SurvivorBenefit *decimal.Decimal `json:"survivor_benefit,omitempty"`
}

// IncomeProjections carries the year-by-year schedule and derived totals.
type IncomeProjections struct {
	TotalAnnualIncome  decimal.Decimal  `json:"total_annual_income"`
	TotalMonthlyIncome decimal.Decimal  `json:"total_monthly_income"`
	NetAfterTaxIncome  decimal.Decimal  `json:"net_after_tax_income"`
	ReplacementRatio   decimal.Decimal  `json:"replacement_ratio"`
	YearlyProjections  []ProjectionYear `json:"yearly_projections"`
}

// TaxAnalysis breaks down the first-year retirement tax burden.
type TaxAnalysis struct {
	AnnualTaxBurden       decimal.Decimal `json:"annual_tax_burden"`
	EffectiveTaxRate      decimal.Decimal `json:"effective_tax_rate"`
	MarginalTaxRate       decimal.Decimal `json:"marginal_tax_rate"`
	FederalTax            decimal.Decimal `json:"federal_tax"`
	StateTax              decimal.Decimal `json:"state_tax"`
	TaxableSocialSecurity decimal.Decimal `json:"taxable_social_security"`
}

// PortfolioAnalysis summarizes the withdrawal simulation. Omitted entirely
// (nil on ScenarioResults) when no portfolio is modeled.
type PortfolioAnalysis struct {
	InitialBalance       decimal.Decimal `json:"initial_balance"`
	FinalBalance         decimal.Decimal `json:"final_balance"`
	TotalWithdrawals     decimal.Decimal `json:"total_withdrawals"`
	PortfolioLongevity   int             `json:"portfolio_longevity"`
	ProbabilityOfSuccess decimal.Decimal `json:"probability_of_success"`
}

// KeyMetrics carries the summary risk/flexibility/optimization scores.
// Scores are on a 1-10 scale.
type KeyMetrics struct {
	TotalLifetimeIncome decimal.Decimal `json:"total_lifetime_income"`
	BreakEvenAge        int             `json:"break_even_age"`
	RiskScore           int             `json:"risk_score"`
	FlexibilityScore    int             `json:"flexibility_score"`
	OptimizationScore   int             `json:"optimization_score"`
}

// ScenarioResults is the complete output for one scenario, one-to-one with
// its input. Computed fresh on every calculation request and replaced
// wholesale, never partially mutated.
type ScenarioResults struct {
	ScenarioID        string                 `json:"scenario_id"`
	PensionBenefits   PensionBenefits        `json:"pension_benefits"`
	SocialSecurity    SocialSecurityBenefits `json:"social_security_benefits"`
	IncomeProjections IncomeProjections      `json:"income_projections"`
	TaxAnalysis       TaxAnalysis            `json:"tax_analysis"`
	PortfolioAnalysis *PortfolioAnalysis     `json:"portfolio_analysis,omitempty"`
	KeyMetrics        KeyMetrics             `json:"key_metrics"`
}

// HasPortfolio reports whether a portfolio was modeled for this scenario.
func (sr *ScenarioResults) HasPortfolio() bool {
	return sr.PortfolioAnalysis != nil
}
