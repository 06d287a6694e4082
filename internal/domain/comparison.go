package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vehicle names used in results and metrics
const (
	VehicleETF  = "ETF"
	VehicleFund = "FUND"
	VehicleTie  = "TIE"
)

// VehicleParams holds the per-vehicle part of a comparison.
// Capital and horizon are shared and live on ComparisonInput.
type VehicleParams struct {
	ReturnRate        decimal.Decimal
	ManagementFeeRate decimal.Decimal
	TransactionCost   TransactionCostRule
	SaleSchedule      []int
	FeeTiming         FeeTiming
}

// FundParams returns params for a pooled fund: no transaction cost and no interim sales,
// so tax is deferred until final liquidation.
func FundParams(returnRate, feeRate decimal.Decimal, horizon int) VehicleParams {
	return VehicleParams{
		ReturnRate:        returnRate,
		ManagementFeeRate: feeRate,
		TransactionCost:   FixedCost(decimal.Zero),
		SaleSchedule:      NoSales(horizon),
	}
}

// ComparisonInput is everything needed to compare the two vehicles
type ComparisonInput struct {
	InitialCapital decimal.Decimal
	Horizon        int
	ETF            VehicleParams
	Fund           VehicleParams
	Brackets       []TaxBracket
}

// Config builds the VehicleConfig for one side of the comparison
func (in *ComparisonInput) Config(name string, p VehicleParams) VehicleConfig {
	schedule := make([]int, len(p.SaleSchedule))
	copy(schedule, p.SaleSchedule)

	return VehicleConfig{
		Name:              name,
		InitialCapital:    in.InitialCapital,
		Horizon:           in.Horizon,
		ReturnRate:        p.ReturnRate,
		ManagementFeeRate: p.ManagementFeeRate,
		TransactionCost:   p.TransactionCost,
		SaleSchedule:      schedule,
		FeeTiming:         p.FeeTiming,
	}
}

// Validate checks both vehicle configurations and the bracket schedule
func (in *ComparisonInput) Validate() error {
	if err := ValidateBrackets(in.Brackets); err != nil {
		return err
	}

	etf := in.Config(VehicleETF, in.ETF)
	if err := etf.Validate(); err != nil {
		return fmt.Errorf("etf: %w", err)
	}

	fund := in.Config(VehicleFund, in.Fund)
	if err := fund.Validate(); err != nil {
		return fmt.Errorf("fund: %w", err)
	}

	return nil
}

// YearDelta is the per-year gap between the two vehicles
type YearDelta struct {
	Year       int
	ETFValue   decimal.Decimal
	FundValue  decimal.Decimal
	Difference decimal.Decimal // ETFValue - FundValue
}

// ComparisonResult pairs the two trajectories of one comparison run
type ComparisonResult struct {
	RunID         uuid.UUID
	ETF           *SimulationResult
	Fund          *SimulationResult
	Deltas        []YearDelta
	NetDifference decimal.Decimal // ETF.NetFinalValue - Fund.NetFinalValue
}

// Leader returns the vehicle with the higher net final value, or VehicleTie
func (r *ComparisonResult) Leader() string {
	switch r.NetDifference.Sign() {
	case 1:
		return VehicleETF
	case -1:
		return VehicleFund
	default:
		return VehicleTie
	}
}
