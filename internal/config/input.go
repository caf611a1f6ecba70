package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/masspension/planner/internal/domain"
)

// Plan is the top-level input document: one member's scenarios plus any
// plan-wide settings.
type Plan struct {
	PlanName  string                       `json:"plan_name" yaml:"plan_name"`
	Scenarios []*domain.RetirementScenario `json:"scenarios" yaml:"scenarios"`
}

// InputParser handles parsing of plan input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML file. JSON parses too since YAML is
// a superset.
func (ip *InputParser) LoadFromFile(filename string) (*Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse parses and validates a plan document.
func (ip *InputParser) Parse(data []byte) (*Plan, error) {
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	return &plan, nil
}

// ValidatePlan validates the loaded plan: plan-level constraints here,
// per-scenario constraints via the scenario's own Validate.
func (ip *InputParser) ValidatePlan(plan *Plan) error {
	if len(plan.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}

	seenIDs := make(map[string]bool, len(plan.Scenarios))
	baselines := 0

	for i, scenario := range plan.Scenarios {
		if scenario == nil {
			return fmt.Errorf("scenario %d is empty", i)
		}
		if scenario.ID == "" {
			return fmt.Errorf("scenario %d: id is required", i)
		}
		if seenIDs[scenario.ID] {
			return fmt.Errorf("scenario %d: duplicate id %q", i, scenario.ID)
		}
		seenIDs[scenario.ID] = true

		if scenario.IsBaseline {
			baselines++
		}

		if err := scenario.Validate(); err != nil {
			return fmt.Errorf("scenario %q validation failed: %w", scenario.ID, err)
		}
	}

	if baselines > 1 {
		return fmt.Errorf("at most one scenario may be marked as baseline, found %d", baselines)
	}

	return nil
}

// CreateExamplePlan creates a worked example plan suitable for writing out
// as a starter file.
func (ip *InputParser) CreateExamplePlan() *Plan {
	beneficiaryAge := 62
	spouseBenefit := decimal.NewFromInt(2100)
	spouseAge := 63

	return &Plan{
		PlanName: "Sample Retirement Plan",
		Scenarios: []*domain.RetirementScenario{
			{
				ID:         "retire-at-65",
				Name:       "Retire at 65",
				IsBaseline: true,
				Personal: domain.PersonalParameters{
					CurrentAge:     58,
					RetirementAge:  65,
					LifeExpectancy: 90,
					BirthYear:      1967,
				},
				Pension: domain.PensionParameters{
					RetirementGroup:  domain.GroupGeneral,
					YearsOfService:   decimal.NewFromInt(18),
					SalaryHistory:    []decimal.Decimal{decimal.NewFromInt(88000), decimal.NewFromInt(91000), decimal.NewFromInt(94000)},
					RetirementOption: domain.OptionC,
					BeneficiaryAge:   &beneficiaryAge,
				},
				SocialSec: domain.SocialSecurityParameters{
					ClaimingAge:         67,
					FullRetirementAge:   67,
					EstimatedBenefit62:  decimal.NewFromInt(1960),
					EstimatedBenefitFRA: decimal.NewFromInt(2800),
					EstimatedBenefit70:  decimal.NewFromInt(3472),
					IsMarried:           true,
					SpouseBenefitFRA:    &spouseBenefit,
					SpouseAge:           &spouseAge,
				},
				Financial: domain.FinancialParameters{
					PretaxBalance:        decimal.NewFromInt(350000),
					RothBalance:          decimal.NewFromInt(75000),
					ExpectedReturnRate:   decimal.NewFromFloat(0.05),
					InflationRate:        decimal.NewFromFloat(0.025),
					RiskTolerance:        domain.RiskModerate,
					WithdrawalStrategy:   domain.WithdrawalPercentage,
					WithdrawalRate:       decimal.NewFromFloat(0.04),
					AnnualHealthcareCost: decimal.NewFromInt(6000),
				},
				Tax: domain.TaxParameters{
					FilingStatus:     domain.FilingMarried,
					StateOfResidence: "MA",
				},
				COLA: domain.COLAParameters{
					COLAScenario: "moderate",
				},
			},
			{
				ID:   "retire-at-62",
				Name: "Retire Early at 62",
				Personal: domain.PersonalParameters{
					CurrentAge:     58,
					RetirementAge:  62,
					LifeExpectancy: 90,
					BirthYear:      1967,
				},
				Pension: domain.PensionParameters{
					RetirementGroup:  domain.GroupGeneral,
					YearsOfService:   decimal.NewFromInt(18),
					SalaryHistory:    []decimal.Decimal{decimal.NewFromInt(88000), decimal.NewFromInt(91000), decimal.NewFromInt(94000)},
					RetirementOption: domain.OptionA,
				},
				SocialSec: domain.SocialSecurityParameters{
					ClaimingAge:         62,
					FullRetirementAge:   67,
					EstimatedBenefit62:  decimal.NewFromInt(1960),
					EstimatedBenefitFRA: decimal.NewFromInt(2800),
					EstimatedBenefit70:  decimal.NewFromInt(3472),
				},
				Financial: domain.FinancialParameters{
					PretaxBalance:        decimal.NewFromInt(350000),
					RothBalance:          decimal.NewFromInt(75000),
					ExpectedReturnRate:   decimal.NewFromFloat(0.05),
					InflationRate:        decimal.NewFromFloat(0.025),
					RiskTolerance:        domain.RiskModerate,
					WithdrawalStrategy:   domain.WithdrawalFixed,
					WithdrawalRate:       decimal.NewFromFloat(0.04),
					AnnualHealthcareCost: decimal.NewFromInt(9000),
				},
				Tax: domain.TaxParameters{
					FilingStatus:     domain.FilingSingle,
					StateOfResidence: "MA",
				},
				COLA: domain.COLAParameters{
					COLAScenario: "conservative",
				},
			},
		},
	}
}
