package calculation

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/masspension/planner/internal/domain"
)

// MaxBenefitPercent is the statutory cap: the base pension may not exceed
// 80% of the member's average highest salary.
var MaxBenefitPercent = decimal.NewFromFloat(0.80)

// Minimum retirement ages by group. Group 3 members may retire at any age
// with 20+ years of service.
var groupMinimumAges = map[int]int{
	domain.GroupGeneral:      60,
	domain.GroupHazardous:    55,
	domain.GroupStatePolice:  55,
	domain.GroupPublicSafety: 50,
}

// Group3ServiceYears is the service threshold for the Group 3 any-age rule.
var Group3ServiceYears = decimal.NewFromInt(20)

// PensionInput carries everything the pension calculator needs for one
// member. SalaryHistory holds annual salaries; when empty, AverageSalary is
// used directly.
type PensionInput struct {
	Group          int
	Age            int
	YearsOfService decimal.Decimal
	SalaryHistory  []decimal.Decimal
	AverageSalary  decimal.Decimal
	Option         string
	BeneficiaryAge *int
}

// PensionCalculation is the complete pension calculation result. Ineligible
// members get Eligible=false and zeroed benefit fields, not an error.
type PensionCalculation struct {
	Eligible          bool
	EligibilityNote   string
	AverageSalary     decimal.Decimal
	Multiplier        decimal.Decimal
	BenefitFactor     decimal.Decimal // multiplier x service, capped at 80%
	BasePension       decimal.Decimal // pre-option annual amount
	AnnualPension     decimal.Decimal // post-option annual amount
	MonthlyPension    decimal.Decimal
	BenefitReduction  decimal.Decimal // option reduction fraction of base
	SurvivorPension   *decimal.Decimal
	CappedAt80Percent bool
}

// PensionCalculator computes base pension benefits and eligibility. It is
// stateless; the zero value is ready to use.
type PensionCalculator struct{}

// NewPensionCalculator creates a new pension calculator.
func NewPensionCalculator() *PensionCalculator {
	return &PensionCalculator{}
}

// Calculate computes the pension benefit for one member.
func (pc *PensionCalculator) Calculate(in PensionInput) (PensionCalculation, error) {
	if in.YearsOfService.IsNegative() {
		return PensionCalculation{}, fmt.Errorf("years of service cannot be negative: %s", in.YearsOfService)
	}
	if in.AverageSalary.IsNegative() {
		return PensionCalculation{}, fmt.Errorf("average salary cannot be negative: %s", in.AverageSalary)
	}
	for _, s := range in.SalaryHistory {
		if s.IsNegative() {
			return PensionCalculation{}, fmt.Errorf("salary history cannot contain negative values: %s", s)
		}
	}
	if _, ok := groupMinimumAges[in.Group]; !ok {
		return PensionCalculation{}, fmt.Errorf("unknown retirement group %d", in.Group)
	}

	avgSalary := AverageHighestThree(in.SalaryHistory)
	if avgSalary.IsZero() {
		avgSalary = in.AverageSalary
	}

	eligible, note := CheckEligibility(in.Group, in.Age, in.YearsOfService)
	result := PensionCalculation{
		Eligible:        eligible,
		EligibilityNote: note,
		AverageSalary:   avgSalary,
	}
	if !eligible {
		return result, nil
	}

	multiplier := BenefitMultiplier(in.Group, in.Age)
	factor := multiplier.Mul(in.YearsOfService)
	if factor.GreaterThan(MaxBenefitPercent) {
		factor = MaxBenefitPercent
		result.CappedAt80Percent = true
	}

	basePension := avgSalary.Mul(factor)

	optionFactor, survivorPct := optionReduction(in.Option, in.Age, in.BeneficiaryAge)
	annualPension := basePension.Mul(optionFactor)

	result.Multiplier = multiplier
	result.BenefitFactor = factor
	result.BasePension = basePension
	result.AnnualPension = annualPension
	result.MonthlyPension = annualPension.Div(decimal.NewFromInt(12))
	result.BenefitReduction = decimal.NewFromInt(1).Sub(optionFactor)

	if survivorPct.GreaterThan(decimal.Zero) {
		survivor := annualPension.Mul(survivorPct)
		result.SurvivorPension = &survivor
	}

	return result, nil
}

// AverageHighestThree returns the mean of the highest three salaries in the
// history, or of all entries when fewer than three are supplied.
func AverageHighestThree(history []decimal.Decimal) decimal.Decimal {
	if len(history) == 0 {
		return decimal.Zero
	}

	sorted := make([]decimal.Decimal, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].GreaterThan(sorted[j])
	})

	n := 3
	if len(sorted) < n {
		n = len(sorted)
	}

	var sum decimal.Decimal
	for i := 0; i < n; i++ {
		sum = sum.Add(sorted[i])
	}
	return sum.Div(decimal.NewFromInt(int64(n)))
}

// CheckEligibility applies the group eligibility rules. Group 3 members may
// retire at any age with 20+ years of service; all other groups must reach
// the group minimum age.
func CheckEligibility(group, age int, serviceYears decimal.Decimal) (bool, string) {
	if group == domain.GroupStatePolice && serviceYears.GreaterThanOrEqual(Group3ServiceYears) {
		return true, "Group 3 member with 20+ years of service"
	}

	minAge := groupMinimumAges[group]
	if age < minAge {
		return false, fmt.Sprintf("Group %d minimum retirement age is %d", group, minAge)
	}
	return true, fmt.Sprintf("Group %d member at or above minimum retirement age", group)
}

// BenefitMultiplier returns the percentage-per-year-of-service factor for a
// (group, age) pair. Each group starts at 2.0% at its minimum age and rises
// 0.1% per year to a 2.5% maximum.
func BenefitMultiplier(group, age int) decimal.Decimal {
	base := decimal.NewFromFloat(0.020)
	max := decimal.NewFromFloat(0.025)
	step := decimal.NewFromFloat(0.001)

	minAge := groupMinimumAges[group]
	if group == domain.GroupStatePolice {
		// Group 3 factors plateau at 55 regardless of the any-age rule.
		minAge = 50
	}

	yearsOver := age - minAge
	if yearsOver <= 0 {
		return base
	}

	multiplier := base.Add(step.Mul(decimal.NewFromInt(int64(yearsOver))))
	return decimal.Min(multiplier, max)
}

// optionReduction returns the payable fraction of the base pension and the
// survivor percentage for a payout option. Joint-and-survivor reductions grow
// as the beneficiary gets younger relative to the member. Option D carries
// the same joint-and-survivor terms as Option C.
func optionReduction(option string, memberAge int, beneficiaryAge *int) (decimal.Decimal, decimal.Decimal) {
	one := decimal.NewFromInt(1)

	switch option {
	case domain.OptionA, "":
		return one, decimal.Zero
	case domain.OptionB:
		reduction := ageGapReduction(decimal.NewFromFloat(0.02), decimal.NewFromFloat(0.0015), decimal.NewFromFloat(0.10), memberAge, beneficiaryAge)
		return one.Sub(reduction), decimal.NewFromFloat(0.50)
	case domain.OptionC, domain.OptionD:
		reduction := ageGapReduction(decimal.NewFromFloat(0.07), decimal.NewFromFloat(0.0025), decimal.NewFromFloat(0.15), memberAge, beneficiaryAge)
		twoThirds := decimal.NewFromInt(2).Div(decimal.NewFromInt(3))
		return one.Sub(reduction), twoThirds
	}

	return one, decimal.Zero
}

// ageGapReduction computes base + perYear x (memberAge - beneficiaryAge),
// clamped to [base, cap]. A missing beneficiary age contributes no gap.
func ageGapReduction(base, perYear, cap decimal.Decimal, memberAge int, beneficiaryAge *int) decimal.Decimal {
	reduction := base
	if beneficiaryAge != nil && *beneficiaryAge < memberAge {
		gap := decimal.NewFromInt(int64(memberAge - *beneficiaryAge))
		reduction = reduction.Add(perYear.Mul(gap))
	}
	return decimal.Min(reduction, cap)
}
