package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CostRuleKind represents how transaction costs are charged on a sale
type CostRuleKind string

const (
	CostRulePercentage CostRuleKind = "PERCENTAGE"
	CostRuleFixed      CostRuleKind = "FIXED"
)

// TransactionCostRule describes the cost of one sale event
type TransactionCostRule struct {
	Kind  CostRuleKind
	Value decimal.Decimal // Rate of the post-tax value for PERCENTAGE, amount per sale for FIXED
}

// PercentageCost charges rate × value for every sale event
func PercentageCost(rate decimal.Decimal) TransactionCostRule {
	return TransactionCostRule{Kind: CostRulePercentage, Value: rate}
}

// FixedCost charges a flat amount for every sale event
func FixedCost(amount decimal.Decimal) TransactionCostRule {
	return TransactionCostRule{Kind: CostRuleFixed, Value: amount}
}

// Validate ensures the rule kind is known and its value is non-negative
func (r TransactionCostRule) Validate() error {
	if r.Kind != CostRulePercentage && r.Kind != CostRuleFixed {
		return fmt.Errorf("%w: transaction cost rule must be PERCENTAGE or FIXED", ErrInvalidConfiguration)
	}
	if r.Value.IsNegative() {
		return fmt.Errorf("%w: transaction cost must be non-negative", ErrInvalidConfiguration)
	}
	return nil
}

// Cost returns the transaction cost of saleCount events against value
func (r TransactionCostRule) Cost(value decimal.Decimal, saleCount int) decimal.Decimal {
	count := decimal.NewFromInt(int64(saleCount))
	if r.Kind == CostRulePercentage {
		return value.Mul(r.Value).Mul(count)
	}
	return r.Value.Mul(count)
}

// FeeTiming controls how the management fee interacts with growth
type FeeTiming string

const (
	// FeeTimingPostGrowth charges the fee on the pre-growth value and subtracts it
	// after growth: v' = v × (1 + r) − v × f. This is the zero value.
	FeeTimingPostGrowth FeeTiming = ""

	// FeeTimingCompounded nets the fee multiplicatively: v' = v × (1 + r) × (1 − f)
	FeeTimingCompounded FeeTiming = "COMPOUNDED"
)

// VehicleConfig is the full input of one simulation run
type VehicleConfig struct {
	Name              string
	InitialCapital    decimal.Decimal
	Horizon           int // Years, >= 1
	ReturnRate        decimal.Decimal
	ManagementFeeRate decimal.Decimal
	TransactionCost   TransactionCostRule
	SaleSchedule      []int // Entry i = sale events in year i+1. len == Horizon
	FeeTiming         FeeTiming
}

// Validate ensures the configuration is within its documented ranges.
// Every failure wraps ErrInvalidConfiguration.
func (c *VehicleConfig) Validate() error {
	if c.InitialCapital.IsNegative() {
		return fmt.Errorf("%w: initial capital must be non-negative", ErrInvalidConfiguration)
	}

	if c.Horizon < 1 {
		return fmt.Errorf("%w: horizon must be at least 1 year", ErrInvalidConfiguration)
	}

	if c.ManagementFeeRate.IsNegative() {
		return fmt.Errorf("%w: management fee rate must be non-negative", ErrInvalidConfiguration)
	}

	if err := c.TransactionCost.Validate(); err != nil {
		return err
	}

	if c.FeeTiming != FeeTimingPostGrowth && c.FeeTiming != FeeTimingCompounded {
		return fmt.Errorf("%w: unknown fee timing %q", ErrInvalidConfiguration, string(c.FeeTiming))
	}

	if len(c.SaleSchedule) != c.Horizon {
		return fmt.Errorf("%w: sale schedule length %d must equal horizon %d",
			ErrInvalidConfiguration, len(c.SaleSchedule), c.Horizon)
	}

	for i, count := range c.SaleSchedule {
		if count < 0 {
			return fmt.Errorf("%w: sale count for year %d must be non-negative", ErrInvalidConfiguration, i+1)
		}
	}

	return nil
}

// MaxRequestHorizon is the longest horizon a host accepts from a caller.
// VehicleConfig.Validate does not enforce it; hosts check it before building a schedule.
const MaxRequestHorizon = 1000

// NoSales returns an all-zero sale schedule for horizon years
func NoSales(horizon int) []int {
	if horizon < 0 {
		horizon = 0
	}
	return make([]int, horizon)
}
