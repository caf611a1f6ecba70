package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/masspension/planner/internal/calculation"
	"github.com/masspension/planner/internal/config"
	"github.com/masspension/planner/internal/domain"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "planner",
		Short:   "Retirement income projection engine for public pension members",
		Version: Version,
	}

	rootCmd.AddCommand(calculateCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(chartCmd())
	rootCmd.AddCommand(exampleCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func calculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [plan file]",
		Short: "Calculate results for one scenario in a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarioID, _ := cmd.Flags().GetString("scenario")

			plan, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}

			scenario, err := pickScenario(plan, scenarioID)
			if err != nil {
				return err
			}

			engine := calculation.NewCalculationEngine()
			results, err := engine.CalculateScenarioResults(scenario)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().StringP("scenario", "s", "", "Scenario id (defaults to the baseline, then the first scenario)")

	return cmd
}

func batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [plan file]",
		Short: "Calculate results for every scenario in a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}

			engine := calculation.NewCalculationEngine()
			results := engine.CalculateMultipleScenarios(cmd.Context(), plan.Scenarios)

			return writeJSON(cmd.OutOrStdout(), results)
		},
	}
}

func chartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart [plan file]",
		Short: "Produce chart data for a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chartType, _ := cmd.Flags().GetString("type")
			scenarioID, _ := cmd.Flags().GetString("scenario")

			plan, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}

			engine := calculation.NewCalculationEngine()

			var chart *calculation.ChartConfig
			switch chartType {
			case "projection", "breakdown":
				scenario, err := pickScenario(plan, scenarioID)
				if err != nil {
					return err
				}
				results, err := engine.CalculateScenarioResults(scenario)
				if err != nil {
					return err
				}
				if chartType == "projection" {
					chart = calculation.BuildBenefitProjectionChart(results)
				} else {
					chart = calculation.BuildIncomeBreakdownChart(results)
				}
			case "comparison":
				results := engine.CalculateMultipleScenarios(cmd.Context(), plan.Scenarios)
				chart = calculation.BuildIncomeComparisonChart(plan.Scenarios, results)
			default:
				return fmt.Errorf("unknown chart type %q (want projection, breakdown, or comparison)", chartType)
			}

			if chart == nil {
				return fmt.Errorf("no data to chart")
			}
			return writeJSON(cmd.OutOrStdout(), chart)
		},
	}

	cmd.Flags().StringP("type", "t", "projection", "Chart type (projection, breakdown, comparison)")
	cmd.Flags().StringP("scenario", "s", "", "Scenario id for single-scenario charts")

	return cmd
}

func exampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print an example plan file",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := config.NewInputParser().CreateExamplePlan()
			data, err := yaml.Marshal(plan)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// pickScenario resolves which scenario to calculate: an explicit id wins,
// then the baseline, then the first scenario in the plan.
func pickScenario(plan *config.Plan, scenarioID string) (*domain.RetirementScenario, error) {
	if scenarioID != "" {
		for _, s := range plan.Scenarios {
			if s.ID == scenarioID {
				return s, nil
			}
		}
		return nil, fmt.Errorf("scenario %q not found in plan", scenarioID)
	}
	for _, s := range plan.Scenarios {
		if s.IsBaseline {
			return s, nil
		}
	}
	return plan.Scenarios[0], nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
