package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/masspension/planner/internal/domain"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Federal: 2025 brackets and standard deductions for all projection years,
//    no inflation indexing of thresholds.
// 2. State: Massachusetts-style flat 5% tax on pension and other income.
//    Social Security is exempt from state tax.
// 3. Social Security taxability uses the combined-income tiers
//    (25k/34k single, 32k/44k married filing jointly).
//
// All thresholds are in-core constants; the engine takes no runtime tax
// configuration.

// TaxBracket represents one federal tax bracket.
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// FederalTaxCalculator applies the progressive federal brackets.
type FederalTaxCalculator struct {
	Year                     int
	StandardDeductionSingle  decimal.Decimal
	StandardDeductionMarried decimal.Decimal
	AdditionalStdDedSingle   decimal.Decimal // age 65+
	AdditionalStdDedMarried  decimal.Decimal // age 65+, per person
	BracketsSingle           []TaxBracket
	BracketsMarried          []TaxBracket
}

// NewFederalTaxCalculator2025 creates a federal tax calculator with 2025
// brackets and standard deductions.
func NewFederalTaxCalculator2025() *FederalTaxCalculator {
	return &FederalTaxCalculator{
		Year:                     2025,
		StandardDeductionSingle:  decimal.NewFromInt(15000),
		StandardDeductionMarried: decimal.NewFromInt(30000),
		AdditionalStdDedSingle:   decimal.NewFromInt(2000),
		AdditionalStdDedMarried:  decimal.NewFromInt(1600),
		BracketsSingle: []TaxBracket{
			{decimal.Zero, decimal.NewFromInt(11925), decimal.NewFromFloat(0.10)},
			{decimal.NewFromInt(11925), decimal.NewFromInt(48475), decimal.NewFromFloat(0.12)},
			{decimal.NewFromInt(48475), decimal.NewFromInt(103350), decimal.NewFromFloat(0.22)},
			{decimal.NewFromInt(103350), decimal.NewFromInt(197300), decimal.NewFromFloat(0.24)},
			{decimal.NewFromInt(197300), decimal.NewFromInt(250525), decimal.NewFromFloat(0.32)},
			{decimal.NewFromInt(250525), decimal.NewFromInt(626350), decimal.NewFromFloat(0.35)},
			{decimal.NewFromInt(626350), decimal.NewFromInt(999999999), decimal.NewFromFloat(0.37)},
		},
		BracketsMarried: []TaxBracket{
			{decimal.Zero, decimal.NewFromInt(23850), decimal.NewFromFloat(0.10)},
			{decimal.NewFromInt(23850), decimal.NewFromInt(96950), decimal.NewFromFloat(0.12)},
			{decimal.NewFromInt(96950), decimal.NewFromInt(206700), decimal.NewFromFloat(0.22)},
			{decimal.NewFromInt(206700), decimal.NewFromInt(394600), decimal.NewFromFloat(0.24)},
			{decimal.NewFromInt(394600), decimal.NewFromInt(501050), decimal.NewFromFloat(0.32)},
			{decimal.NewFromInt(501050), decimal.NewFromInt(751600), decimal.NewFromFloat(0.35)},
			{decimal.NewFromInt(751600), decimal.NewFromInt(999999999), decimal.NewFromFloat(0.37)},
		},
	}
}

// brackets returns the bracket table for a filing status.
func (ftc *FederalTaxCalculator) brackets(filingStatus string) []TaxBracket {
	if filingStatus == domain.FilingMarried {
		return ftc.BracketsMarried
	}
	return ftc.BracketsSingle
}

// standardDeduction returns the standard deduction including the age-65+
// addition. Married filers are assumed to share the household age band.
func (ftc *FederalTaxCalculator) standardDeduction(filingStatus string, age65OrOlder bool) decimal.Decimal {
	if filingStatus == domain.FilingMarried {
		ded := ftc.StandardDeductionMarried
		if age65OrOlder {
			ded = ded.Add(ftc.AdditionalStdDedMarried.Mul(decimal.NewFromInt(2)))
		}
		return ded
	}
	ded := ftc.StandardDeductionSingle
	if age65OrOlder {
		ded = ded.Add(ftc.AdditionalStdDedSingle)
	}
	return ded
}

// Calculate applies the progressive brackets to gross income less the
// standard deduction. Returns the tax, the taxable income, and the marginal
// rate (the bracket rate containing the top dollar of taxable income).
func (ftc *FederalTaxCalculator) Calculate(grossIncome decimal.Decimal, filingStatus string, age65OrOlder bool) (tax, taxableIncome, marginalRate decimal.Decimal) {
	taxableIncome = grossIncome.Sub(ftc.standardDeduction(filingStatus, age65OrOlder))
	if taxableIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero, decimal.Zero
	}

	for _, bracket := range ftc.brackets(filingStatus) {
		if taxableIncome.LessThanOrEqual(bracket.Min) {
			break
		}
		incomeInBracket := decimal.Min(taxableIncome, bracket.Max).Sub(bracket.Min)
		if incomeInBracket.GreaterThan(decimal.Zero) {
			tax = tax.Add(incomeInBracket.Mul(bracket.Rate))
			marginalRate = bracket.Rate
		}
	}

	return tax, taxableIncome, marginalRate
}

// SSTaxCalculator determines the federally taxable portion of Social
// Security benefits from combined income.
type SSTaxCalculator struct{}

// NewSSTaxCalculator creates a new Social Security tax calculator.
func NewSSTaxCalculator() *SSTaxCalculator {
	return &SSTaxCalculator{}
}

// ssTaxThresholds returns the (no-tax, partial-tax) combined-income
// thresholds for a filing status.
func ssTaxThresholds(filingStatus string) (decimal.Decimal, decimal.Decimal) {
	if filingStatus == domain.FilingMarried {
		return decimal.NewFromInt(32000), decimal.NewFromInt(44000)
	}
	return decimal.NewFromInt(25000), decimal.NewFromInt(34000)
}

// CombinedIncome is other taxable income plus half of the Social Security
// benefit.
func (sstc *SSTaxCalculator) CombinedIncome(otherIncome, ssBenefitAnnual decimal.Decimal) decimal.Decimal {
	return otherIncome.Add(ssBenefitAnnual.Mul(decimal.NewFromFloat(0.5)))
}

// TaxableSocialSecurity computes the taxable portion of an annual Social
// Security benefit:
//   - combined income at or below the first threshold: nothing is taxable
//   - between the thresholds: the lesser of 50% of the excess over the first
//     threshold or 50% of the benefit
//   - above the second threshold: 85% of the excess over the second threshold
//     plus the first-tier amount, never more than 85% of the benefit
func (sstc *SSTaxCalculator) TaxableSocialSecurity(ssBenefitAnnual, otherIncome decimal.Decimal, filingStatus string) decimal.Decimal {
	if ssBenefitAnnual.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	threshold1, threshold2 := ssTaxThresholds(filingStatus)
	combined := sstc.CombinedIncome(otherIncome, ssBenefitAnnual)

	if combined.LessThanOrEqual(threshold1) {
		return decimal.Zero
	}

	half := decimal.NewFromFloat(0.5)
	if combined.LessThanOrEqual(threshold2) {
		taxablePart := combined.Sub(threshold1).Mul(half)
		return decimal.Min(taxablePart, ssBenefitAnnual.Mul(half))
	}

	firstTier := decimal.Min(threshold2.Sub(threshold1).Mul(half), ssBenefitAnnual.Mul(half))
	secondTier := combined.Sub(threshold2).Mul(decimal.NewFromFloat(0.85))
	cap := ssBenefitAnnual.Mul(decimal.NewFromFloat(0.85))
	return decimal.Min(firstTier.Add(secondTier), cap)
}

// StateTaxCalculator applies the flat state income tax. Social Security is
// exempt; pension and other income are taxed after the standard deduction,
// personal exemption, and per-person age-65+ exemption.
type StateTaxCalculator struct {
	Rate                     decimal.Decimal
	StandardDeductionSingle  decimal.Decimal
	StandardDeductionMarried decimal.Decimal
	PersonalExemptionSingle  decimal.Decimal
	PersonalExemptionMarried decimal.Decimal
	SeniorExemption          decimal.Decimal // per person 65+
}

// NewStateTaxCalculator creates the flat-rate state tax calculator with the
// in-core constants.
func NewStateTaxCalculator() *StateTaxCalculator {
	return &StateTaxCalculator{
		Rate:                     decimal.NewFromFloat(0.05),
		StandardDeductionSingle:  decimal.NewFromInt(2000),
		StandardDeductionMarried: decimal.NewFromInt(4000),
		PersonalExemptionSingle:  decimal.NewFromInt(4400),
		PersonalExemptionMarried: decimal.NewFromInt(8800),
		SeniorExemption:          decimal.NewFromInt(700),
	}
}

// Calculate computes the state tax on pension plus other income.
func (stc *StateTaxCalculator) Calculate(pensionIncome, otherIncome decimal.Decimal, filingStatus string, age65OrOlder bool) decimal.Decimal {
	gross := pensionIncome.Add(otherIncome)

	deductions := stc.StandardDeductionSingle.Add(stc.PersonalExemptionSingle)
	seniors := 0
	if age65OrOlder {
		seniors = 1
	}
	if filingStatus == domain.FilingMarried {
		deductions = stc.StandardDeductionMarried.Add(stc.PersonalExemptionMarried)
		if age65OrOlder {
			seniors = 2
		}
	}
	deductions = deductions.Add(stc.SeniorExemption.Mul(decimal.NewFromInt(int64(seniors))))

	taxable := gross.Sub(deductions)
	if taxable.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return taxable.Mul(stc.Rate)
}

// TaxCalculationResult is the complete tax breakdown for one income mix.
type TaxCalculationResult struct {
	GrossIncome           decimal.Decimal `json:"gross_income"`
	TaxableSocialSecurity decimal.Decimal `json:"taxable_social_security"`
	FederalTaxableIncome  decimal.Decimal `json:"federal_taxable_income"`
	FederalTax            decimal.Decimal `json:"federal_tax"`
	StateTax              decimal.Decimal `json:"state_tax"`
	TotalTax              decimal.Decimal `json:"total_tax"`
	EffectiveTaxRate      decimal.Decimal `json:"effective_tax_rate"`
	MarginalTaxRate       decimal.Decimal `json:"marginal_tax_rate"`
	NetIncome             decimal.Decimal `json:"net_income"`
}

// TaxCalculator composes the federal, state, and Social Security tax rules.
type TaxCalculator struct {
	Federal *FederalTaxCalculator
	State   *StateTaxCalculator
	SSTax   *SSTaxCalculator
}

// NewTaxCalculator creates the composed tax calculator with 2025 constants.
func NewTaxCalculator() *TaxCalculator {
	return &TaxCalculator{
		Federal: NewFederalTaxCalculator2025(),
		State:   NewStateTaxCalculator(),
		SSTax:   NewSSTaxCalculator(),
	}
}

// CalculateRetirementTaxes computes federal and state tax liability for a
// retirement income mix. Amounts are annual.
func (tc *TaxCalculator) CalculateRetirementTaxes(pensionIncome, ssBenefitAnnual, otherIncome decimal.Decimal, filingStatus string, age65OrOlder bool) (TaxCalculationResult, error) {
	if pensionIncome.IsNegative() || ssBenefitAnnual.IsNegative() || otherIncome.IsNegative() {
		return TaxCalculationResult{}, fmt.Errorf("income components cannot be negative: pension=%s ss=%s other=%s", pensionIncome, ssBenefitAnnual, otherIncome)
	}

	taxableSS := tc.SSTax.TaxableSocialSecurity(ssBenefitAnnual, pensionIncome.Add(otherIncome), filingStatus)

	federalGross := pensionIncome.Add(otherIncome).Add(taxableSS)
	federalTax, federalTaxable, marginalRate := tc.Federal.Calculate(federalGross, filingStatus, age65OrOlder)

	stateTax := tc.State.Calculate(pensionIncome, otherIncome, filingStatus, age65OrOlder)

	totalTax := federalTax.Add(stateTax)
	grossIncome := pensionIncome.Add(ssBenefitAnnual).Add(otherIncome)

	effectiveRate := decimal.Zero
	if federalTaxable.GreaterThan(decimal.Zero) {
		effectiveRate = totalTax.Div(federalTaxable)
	}

	return TaxCalculationResult{
		GrossIncome:           grossIncome,
		TaxableSocialSecurity: taxableSS,
		FederalTaxableIncome:  federalTaxable,
		FederalTax:            federalTax,
		StateTax:              stateTax,
		TotalTax:              totalTax,
		EffectiveTaxRate:      effectiveRate,
		MarginalTaxRate:       marginalRate,
		NetIncome:             grossIncome.Sub(totalTax),
	}, nil
}
