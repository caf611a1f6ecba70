package calculation

import (
	"context"
	"sync"

	"github.com/masspension/planner/internal/domain"
)

// DefaultBatchWorkers bounds concurrent scenario calculations in a batch.
const DefaultBatchWorkers = 4

// CalculateMultipleScenarios runs every scenario through the engine
// concurrently with a bounded worker pool. One scenario's failure never
// aborts the batch: failed or panicked scenarios produce a neutral
// placeholder result in their slot. Results are ordered to match the input.
func (ce *CalculationEngine) CalculateMultipleScenarios(ctx context.Context, scenarios []*domain.RetirementScenario) []*domain.ScenarioResults {
	return ce.calculateMultipleScenarios(ctx, scenarios, DefaultBatchWorkers)
}

func (ce *CalculationEngine) calculateMultipleScenarios(ctx context.Context, scenarios []*domain.RetirementScenario, workers int) []*domain.ScenarioResults {
	results := make([]*domain.ScenarioResults, len(scenarios))
	if len(scenarios) == 0 {
		return results
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(scenarios) {
		workers = len(scenarios)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = ce.calculateIsolated(scenarios[idx])
			}
		}()
	}

	for idx := range scenarios {
		select {
		case <-ctx.Done():
			ce.Logger.Warnf("batch cancelled after submitting %d of %d scenarios", idx, len(scenarios))
			close(jobs)
			wg.Wait()
			fillPlaceholders(results, scenarios)
			return results
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	fillPlaceholders(results, scenarios)
	return results
}

// calculateIsolated runs one scenario and converts both errors and panics
// into a placeholder result so a bad scenario cannot take down its batch.
func (ce *CalculationEngine) calculateIsolated(scenario *domain.RetirementScenario) (result *domain.ScenarioResults) {
	defer func() {
		if r := recover(); r != nil {
			ce.Logger.Errorf("scenario %s panicked: %v", scenarioID(scenario), r)
			result = placeholderResults(scenario)
		}
	}()

	res, err := ce.CalculateScenarioResults(scenario)
	if err != nil {
		ce.Logger.Warnf("scenario %s failed: %v", scenarioID(scenario), err)
		return placeholderResults(scenario)
	}
	return res
}

// placeholderResults is the neutral stand-in for a scenario that could not
// be calculated: zero benefits and a middle-of-the-scale risk score.
func placeholderResults(scenario *domain.RetirementScenario) *domain.ScenarioResults {
	return &domain.ScenarioResults{
		ScenarioID: scenarioID(scenario),
		KeyMetrics: domain.KeyMetrics{
			RiskScore:         5,
			FlexibilityScore:  1,
			OptimizationScore: 1,
		},
	}
}

func fillPlaceholders(results []*domain.ScenarioResults, scenarios []*domain.RetirementScenario) {
	for i, r := range results {
		if r == nil {
			results[i] = placeholderResults(scenarios[i])
		}
	}
}

func scenarioID(scenario *domain.RetirementScenario) string {
	if scenario == nil {
		return ""
	}
	return scenario.ID
}
