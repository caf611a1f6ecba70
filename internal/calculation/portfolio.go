package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/masspension/planner/internal/domain"
)

// WithdrawalStrategy defines how much is withdrawn from the supplemental
// portfolio each year. Year is zero-based from retirement.
type WithdrawalStrategy interface {
	Withdrawal(currentBalance decimal.Decimal, year int) decimal.Decimal
	Name() string
}

// PercentageWithdrawal withdraws a fixed percentage of the current balance
// each year.
type PercentageWithdrawal struct {
	Rate decimal.Decimal
}

// NewPercentageWithdrawal creates a percentage-of-balance strategy.
func NewPercentageWithdrawal(rate decimal.Decimal) *PercentageWithdrawal {
	return &PercentageWithdrawal{Rate: rate}
}

// Withdrawal returns the percentage of the current balance for this year.
func (pw *PercentageWithdrawal) Withdrawal(currentBalance decimal.Decimal, year int) decimal.Decimal {
	return currentBalance.Mul(pw.Rate)
}

// Name returns the strategy name.
func (pw *PercentageWithdrawal) Name() string { return domain.WithdrawalPercentage }

// FixedWithdrawal withdraws a fixed first-year amount grown by inflation
// each subsequent year.
type FixedWithdrawal struct {
	FirstYearAmount decimal.Decimal
	InflationRate   decimal.Decimal
}

// NewFixedWithdrawal creates an inflation-adjusted fixed-amount strategy.
func NewFixedWithdrawal(firstYearAmount, inflationRate decimal.Decimal) *FixedWithdrawal {
	return &FixedWithdrawal{
		FirstYearAmount: firstYearAmount,
		InflationRate:   inflationRate,
	}
}

// Withdrawal returns the inflation-adjusted amount for this year, regardless
// of balance; the simulator clamps to what remains.
func (fw *FixedWithdrawal) Withdrawal(currentBalance decimal.Decimal, year int) decimal.Decimal {
	if year == 0 {
		return fw.FirstYearAmount
	}
	growth := decimal.NewFromInt(1).Add(fw.InflationRate).Pow(decimal.NewFromInt(int64(year)))
	return fw.FirstYearAmount.Mul(growth)
}

// Name returns the strategy name.
func (fw *FixedWithdrawal) Name() string { return domain.WithdrawalFixed }

// PortfolioSimulationInput parameterizes the withdrawal simulation.
type PortfolioSimulationInput struct {
	InitialBalance decimal.Decimal
	ReturnRate     decimal.Decimal
	InflationRate  decimal.Decimal
	WithdrawalRate decimal.Decimal
	Strategy       string
	HealthcareCost decimal.Decimal // annual, added to the fixed-strategy need
	HorizonYears   int
}

// PortfolioSimulation is the simulated balance trajectory. Series are
// indexed by projection year and always have HorizonYears entries.
type PortfolioSimulation struct {
	YearlyBalances       []decimal.Decimal
	YearlyWithdrawals    []decimal.Decimal
	TotalWithdrawals     decimal.Decimal
	FinalBalance         decimal.Decimal
	LongevityYears       int
	ProbabilityOfSuccess decimal.Decimal
}

// SimulatePortfolio runs the deterministic year-by-year withdrawal
// simulation. A zero initial balance yields zero-filled series; callers
// treat that as "no portfolio modeled".
func SimulatePortfolio(in PortfolioSimulationInput) PortfolioSimulation {
	balances := make([]decimal.Decimal, in.HorizonYears)
	withdrawals := make([]decimal.Decimal, in.HorizonYears)

	result := PortfolioSimulation{
		YearlyBalances:    balances,
		YearlyWithdrawals: withdrawals,
	}
	if in.InitialBalance.LessThanOrEqual(decimal.Zero) || in.HorizonYears <= 0 {
		return result
	}

	strategy := buildStrategy(in)

	balance := in.InitialBalance
	growthFactor := decimal.NewFromInt(1).Add(in.ReturnRate)
	depletedAt := 0

	for year := 0; year < in.HorizonYears; year++ {
		withdrawal := strategy.Withdrawal(balance, year)
		if withdrawal.IsNegative() {
			withdrawal = decimal.Zero
		}

		grown := balance.Mul(growthFactor)
		if withdrawal.GreaterThan(grown) {
			withdrawal = grown
		}
		balance = grown.Sub(withdrawal)

		balances[year] = balance
		withdrawals[year] = withdrawal
		result.TotalWithdrawals = result.TotalWithdrawals.Add(withdrawal)

		if depletedAt == 0 && balance.LessThanOrEqual(decimal.Zero) {
			depletedAt = year + 1
		}
	}

	result.FinalBalance = balance
	if depletedAt == 0 {
		result.LongevityYears = in.HorizonYears
	} else {
		result.LongevityYears = depletedAt
	}
	result.ProbabilityOfSuccess = successEstimate(in.InitialBalance, balance, result.LongevityYears, in.HorizonYears)

	return result
}

// buildStrategy constructs the withdrawal strategy for the input. Unknown
// strategy names fall back to percentage-of-balance.
func buildStrategy(in PortfolioSimulationInput) WithdrawalStrategy {
	if in.Strategy == domain.WithdrawalFixed {
		need := in.InitialBalance.Mul(in.WithdrawalRate).Add(in.HealthcareCost)
		return NewFixedWithdrawal(need, in.InflationRate)
	}
	return NewPercentageWithdrawal(in.WithdrawalRate)
}

// successEstimate derives the deterministic success estimate (0-1) from
// whether the portfolio outlived the horizon. Not a Monte Carlo probability.
func successEstimate(initial, final decimal.Decimal, longevity, horizon int) decimal.Decimal {
	if longevity >= horizon {
		if final.GreaterThanOrEqual(initial) {
			return decimal.NewFromInt(1)
		}
		return decimal.NewFromFloat(0.95)
	}

	estimate := decimal.NewFromInt(int64(longevity)).Div(decimal.NewFromInt(int64(horizon)))
	floor := decimal.NewFromFloat(0.10)
	if estimate.LessThan(floor) && longevity > 1 {
		return floor
	}
	return estimate
}
