package config

import (
	"encoding/json"
	"fmt"

	"github.com/masspension/planner/internal/domain"
)

// ScenarioRecord is the flat persistence shape for one scenario: each
// parameter group serialized independently so storage can treat them as
// opaque columns keyed by scenario id. The calculators never see this
// shape; decoding happens here, at the boundary.
type ScenarioRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsBaseline bool   `json:"is_baseline"`

	PersonalParameters       string `json:"personal_parameters"`
	PensionParameters        string `json:"pension_parameters"`
	SocialSecurityParameters string `json:"social_security_parameters"`
	FinancialParameters      string `json:"financial_parameters"`
	TaxParameters            string `json:"tax_parameters"`
	COLAParameters           string `json:"cola_parameters"`
}

// EncodeScenarioRecord serializes a scenario into its flat record form.
func EncodeScenarioRecord(scenario *domain.RetirementScenario) (*ScenarioRecord, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario is nil")
	}

	record := &ScenarioRecord{
		ID:         scenario.ID,
		Name:       scenario.Name,
		IsBaseline: scenario.IsBaseline,
	}

	groups := []struct {
		name  string
		value any
		dest  *string
	}{
		{"personal_parameters", scenario.Personal, &record.PersonalParameters},
		{"pension_parameters", scenario.Pension, &record.PensionParameters},
		{"social_security_parameters", scenario.SocialSec, &record.SocialSecurityParameters},
		{"financial_parameters", scenario.Financial, &record.FinancialParameters},
		{"tax_parameters", scenario.Tax, &record.TaxParameters},
		{"cola_parameters", scenario.COLA, &record.COLAParameters},
	}
	for _, g := range groups {
		data, err := json.Marshal(g.value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s for scenario %s: %w", g.name, scenario.ID, err)
		}
		*g.dest = string(data)
	}

	return record, nil
}

// DecodeScenarioRecord reconstructs a typed scenario from its flat record
// form. The result is validated before being returned.
func DecodeScenarioRecord(record *ScenarioRecord) (*domain.RetirementScenario, error) {
	if record == nil {
		return nil, fmt.Errorf("record is nil")
	}
	if record.ID == "" {
		return nil, fmt.Errorf("record has no scenario id")
	}

	scenario := &domain.RetirementScenario{
		ID:         record.ID,
		Name:       record.Name,
		IsBaseline: record.IsBaseline,
	}

	groups := []struct {
		name string
		raw  string
		dest any
	}{
		{"personal_parameters", record.PersonalParameters, &scenario.Personal},
		{"pension_parameters", record.PensionParameters, &scenario.Pension},
		{"social_security_parameters", record.SocialSecurityParameters, &scenario.SocialSec},
		{"financial_parameters", record.FinancialParameters, &scenario.Financial},
		{"tax_parameters", record.TaxParameters, &scenario.Tax},
		{"cola_parameters", record.COLAParameters, &scenario.COLA},
	}
	for _, g := range groups {
		if g.raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(g.raw), g.dest); err != nil {
			return nil, fmt.Errorf("failed to decode %s for scenario %s: %w", g.name, record.ID, err)
		}
	}

	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("decoded scenario %s is invalid: %w", record.ID, err)
	}

	return scenario, nil
}

// EncodeResults serializes scenario results for storage as the one-to-one
// side record keyed by scenario id.
func EncodeResults(results *domain.ScenarioResults) ([]byte, error) {
	if results == nil {
		return nil, fmt.Errorf("results is nil")
	}
	data, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("failed to encode results for scenario %s: %w", results.ScenarioID, err)
	}
	return data, nil
}

// DecodeResults reconstructs scenario results from their stored form.
func DecodeResults(data []byte) (*domain.ScenarioResults, error) {
	var results domain.ScenarioResults
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	return &results, nil
}
