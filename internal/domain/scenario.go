package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Retirement system groups. Group determines eligibility ages and the
// benefit multiplier table.
const (
	GroupGeneral      = 1 // general employees
	GroupHazardous    = 2 // certain hazardous-duty titles
	GroupStatePolice  = 3 // state police
	GroupPublicSafety = 4 // police, fire, corrections
)

// Retirement payout options. B and C trade a reduced benefit for a
// survivor annuity; D is treated as C.
const (
	OptionA = "A"
	OptionB = "B"
	OptionC = "C"
	OptionD = "D"
)

// Filing statuses recognized by the tax calculator.
const (
	FilingSingle  = "single"
	FilingMarried = "married_filing_jointly"
)

// Withdrawal strategies for the supplemental portfolio.
const (
	WithdrawalPercentage = "percentage"
	WithdrawalFixed      = "fixed"
)

// Risk tolerance levels.
const (
	RiskConservative = "conservative"
	RiskModerate     = "moderate"
	RiskAggressive   = "aggressive"
)

// PersonalParameters describes the member's age timeline.
type PersonalParameters struct {
	CurrentAge     int `json:"current_age" yaml:"current_age"`
	RetirementAge  int `json:"retirement_age" yaml:"retirement_age"`
	LifeExpectancy int `json:"life_expectancy" yaml:"life_expectancy"`
	BirthYear      int `json:"birth_year" yaml:"birth_year"`
}

// ServicePurchase represents purchased creditable service (e.g. military
// buyback) added to the member's years of service.
type ServicePurchase struct {
	Years decimal.Decimal `json:"years" yaml:"years"`
	Cost  decimal.Decimal `json:"cost" yaml:"cost"`
}

// PensionParameters describes the member's standing in the pension system.
// SalaryHistory holds annual salaries; the calculator averages the highest
// three. AverageSalary may be supplied directly when no history is available.
type PensionParameters struct {
	RetirementGroup  int               `json:"retirement_group" yaml:"retirement_group"`
	YearsOfService   decimal.Decimal   `json:"years_of_service" yaml:"years_of_service"`
	SalaryHistory    []decimal.Decimal `json:"salary_history,omitempty" yaml:"salary_history,omitempty"`
	AverageSalary    decimal.Decimal   `json:"average_salary" yaml:"average_salary"`
	RetirementOption string            `json:"retirement_option" yaml:"retirement_option"`
	BeneficiaryAge   *int              `json:"beneficiary_age,omitempty" yaml:"beneficiary_age,omitempty"`
	ServicePurchases []ServicePurchase `json:"service_purchases,omitempty" yaml:"service_purchases,omitempty"`
}

// CreditedService returns years of service including purchased service.
func (pp *PensionParameters) CreditedService() decimal.Decimal {
	total := pp.YearsOfService
	for _, sp := range pp.ServicePurchases {
		total = total.Add(sp.Years)
	}
	return total
}

// SocialSecurityParameters carries the member's SSA benefit estimates.
// Benefit estimates are monthly amounts.
type SocialSecurityParameters struct {
	ClaimingAge         int              `json:"claiming_age" yaml:"claiming_age"`
	FullRetirementAge   int              `json:"full_retirement_age" yaml:"full_retirement_age"`
	EstimatedBenefit62  decimal.Decimal  `json:"estimated_benefit_62" yaml:"estimated_benefit_62"`
	EstimatedBenefitFRA decimal.Decimal  `json:"estimated_benefit_fra" yaml:"estimated_benefit_fra"`
	EstimatedBenefit70  decimal.Decimal  `json:"estimated_benefit_70" yaml:"estimated_benefit_70"`
	IsMarried           bool             `json:"is_married" yaml:"is_married"`
	SpouseBenefitFRA    *decimal.Decimal `json:"spouse_benefit_fra,omitempty" yaml:"spouse_benefit_fra,omitempty"`
	SpouseAge           *int             `json:"spouse_age,omitempty" yaml:"spouse_age,omitempty"`
}

// FinancialParameters describes supplemental assets and assumptions.
type FinancialParameters struct {
	OtherRetirementIncome   decimal.Decimal `json:"other_retirement_income" yaml:"other_retirement_income"`
	RothBalance             decimal.Decimal `json:"roth_balance" yaml:"roth_balance"`
	PretaxBalance           decimal.Decimal `json:"pretax_balance" yaml:"pretax_balance"`
	TaxableBalance          decimal.Decimal `json:"taxable_balance" yaml:"taxable_balance"`
	ExpectedReturnRate      decimal.Decimal `json:"expected_return_rate" yaml:"expected_return_rate"`
	InflationRate           decimal.Decimal `json:"inflation_rate" yaml:"inflation_rate"`
	RiskTolerance           string          `json:"risk_tolerance" yaml:"risk_tolerance"`
	WithdrawalStrategy      string          `json:"withdrawal_strategy" yaml:"withdrawal_strategy"`
	WithdrawalRate          decimal.Decimal `json:"withdrawal_rate" yaml:"withdrawal_rate"`
	AnnualHealthcareCost    decimal.Decimal `json:"annual_healthcare_cost" yaml:"annual_healthcare_cost"`
	HealthcareInflationRate decimal.Decimal `json:"healthcare_inflation_rate" yaml:"healthcare_inflation_rate"`
}

// TotalPortfolioBalance returns the combined balance across account types.
func (fp *FinancialParameters) TotalPortfolioBalance() decimal.Decimal {
	return fp.RothBalance.Add(fp.PretaxBalance).Add(fp.TaxableBalance)
}

// TaxParameters describes the member's filing situation.
type TaxParameters struct {
	FilingStatus               string `json:"filing_status" yaml:"filing_status"`
	StateOfResidence           string `json:"state_of_residence" yaml:"state_of_residence"`
	OptimizeWithdrawalSequence bool   `json:"optimize_withdrawal_sequence" yaml:"optimize_withdrawal_sequence"`
}

// COLAParameters describes cost-of-living adjustment assumptions.
type COLAParameters struct {
	PensionCOLARate        decimal.Decimal `json:"pension_cola_rate" yaml:"pension_cola_rate"`
	SocialSecurityCOLARate decimal.Decimal `json:"social_security_cola_rate" yaml:"social_security_cola_rate"`
	COLAScenario           string          `json:"cola_scenario" yaml:"cola_scenario"`
}

// RetirementScenario is the immutable input description for one projection.
// At most one scenario per user is the baseline; that uniqueness is enforced
// by the persistence layer, not here.
type RetirementScenario struct {
	ID         string                   `json:"id" yaml:"id"`
	Name       string                   `json:"name" yaml:"name"`
	IsBaseline bool                     `json:"is_baseline" yaml:"is_baseline"`
	Personal   PersonalParameters       `json:"personal_parameters" yaml:"personal_parameters"`
	Pension    PensionParameters        `json:"pension_parameters" yaml:"pension_parameters"`
	SocialSec  SocialSecurityParameters `json:"social_security_parameters" yaml:"social_security_parameters"`
	Financial  FinancialParameters      `json:"financial_parameters" yaml:"financial_parameters"`
	Tax        TaxParameters            `json:"tax_parameters" yaml:"tax_parameters"`
	COLA       COLAParameters           `json:"cola_parameters" yaml:"cola_parameters"`
}

// ServiceAtRetirement projects credited service forward to the retirement
// age: service accrues one year per year until retirement, then freezes.
func (rs *RetirementScenario) ServiceAtRetirement() decimal.Decimal {
	accrual := rs.Personal.RetirementAge - rs.Personal.CurrentAge
	if accrual < 0 {
		accrual = 0
	}
	return rs.Pension.CreditedService().Add(decimal.NewFromInt(int64(accrual)))
}

// ProjectionHorizon returns the number of projection rows the scenario
// produces: one per age from retirement age to life expectancy (exclusive).
func (rs *RetirementScenario) ProjectionHorizon() int {
	return rs.Personal.LifeExpectancy - rs.Personal.RetirementAge
}

// Validate checks the scenario for clearly invalid values. Ineligibility is
// not a validation failure; this only rejects inputs the calculators cannot
// produce sensible output for.
func (rs *RetirementScenario) Validate() error {
	p := rs.Personal
	if p.CurrentAge > p.RetirementAge {
		return fmt.Errorf("current age (%d) cannot exceed retirement age (%d)", p.CurrentAge, p.RetirementAge)
	}
	if p.RetirementAge > p.LifeExpectancy {
		return fmt.Errorf("retirement age (%d) cannot exceed life expectancy (%d)", p.RetirementAge, p.LifeExpectancy)
	}

	pen := rs.Pension
	if pen.RetirementGroup < GroupGeneral || pen.RetirementGroup > GroupPublicSafety {
		return fmt.Errorf("retirement group must be 1-4, got %d", pen.RetirementGroup)
	}
	if pen.YearsOfService.IsNegative() {
		return fmt.Errorf("years of service cannot be negative, got %s", pen.YearsOfService)
	}
	if pen.AverageSalary.IsNegative() {
		return fmt.Errorf("average salary cannot be negative, got %s", pen.AverageSalary)
	}
	for _, s := range pen.SalaryHistory {
		if s.IsNegative() {
			return fmt.Errorf("salary history cannot contain negative values, got %s", s)
		}
	}
	switch pen.RetirementOption {
	case OptionA, OptionB, OptionC, OptionD:
	default:
		return fmt.Errorf("retirement option must be A, B, C, or D, got %q", pen.RetirementOption)
	}
	if (pen.RetirementOption == OptionB || pen.RetirementOption == OptionC || pen.RetirementOption == OptionD) && pen.BeneficiaryAge == nil {
		return fmt.Errorf("option %s requires a beneficiary age", pen.RetirementOption)
	}

	ss := rs.SocialSec
	if ss.ClaimingAge < 62 || ss.ClaimingAge > 70 {
		return fmt.Errorf("claiming age must be between 62 and 70, got %d", ss.ClaimingAge)
	}
	if ss.FullRetirementAge < 65 || ss.FullRetirementAge > 67 {
		return fmt.Errorf("full retirement age must be between 65 and 67, got %d", ss.FullRetirementAge)
	}

	fin := rs.Financial
	if fin.TotalPortfolioBalance().IsNegative() {
		return fmt.Errorf("portfolio balances cannot be negative")
	}
	if fin.WithdrawalRate.IsNegative() {
		return fmt.Errorf("withdrawal rate cannot be negative, got %s", fin.WithdrawalRate)
	}

	switch rs.Tax.FilingStatus {
	case FilingSingle, FilingMarried:
	default:
		return fmt.Errorf("filing status must be %q or %q, got %q", FilingSingle, FilingMarried, rs.Tax.FilingStatus)
	}

	return nil
}
