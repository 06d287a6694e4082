package comparison

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/vehiclecompare-backend/internal/domain"
	"github.com/simaogato/vehiclecompare-backend/internal/observability"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// defaultInput uses the CLI defaults over a short horizon:
// ETF 5% return, 0.2% fee, 0.1% per sale; fund 5% return, 1.5% fee.
func defaultInput(horizon int, etfSales []int) domain.ComparisonInput {
	return domain.ComparisonInput{
		InitialCapital: d("10000"),
		Horizon:        horizon,
		ETF: domain.VehicleParams{
			ReturnRate:        d("0.05"),
			ManagementFeeRate: d("0.002"),
			TransactionCost:   domain.PercentageCost(d("0.001")),
			SaleSchedule:      etfSales,
		},
		Fund:     domain.FundParams(d("0.05"), d("0.015"), horizon),
		Brackets: domain.DefaultBrackets(),
	}
}

func TestCompare_SingleYear(t *testing.T) {
	ctx := context.Background()
	service := NewComparisonService(nil)

	result, err := service.Compare(ctx, defaultInput(1, []int{0}))
	require.NoError(t, err)

	// ETF: fee 20, value 10480, gain 480 taxed 91.2
	assert.True(t, d("10480").Equal(result.ETF.FinalGrossValue))
	assert.True(t, d("10388.8").Equal(result.ETF.NetFinalValue))

	// Fund: fee 150, value 10350, gain 350 taxed 66.5
	assert.True(t, d("10350").Equal(result.Fund.FinalGrossValue))
	assert.True(t, d("10283.5").Equal(result.Fund.NetFinalValue))

	assert.True(t, d("105.3").Equal(result.NetDifference))
	assert.Equal(t, domain.VehicleETF, result.Leader())
	assert.NotEqual(t, uuid.Nil, result.RunID)

	require.Len(t, result.Deltas, 2)
	assert.True(t, result.Deltas[0].Difference.IsZero())
	assert.True(t, d("130").Equal(result.Deltas[1].Difference))
	assert.Equal(t, 1, result.Deltas[1].Year)
}

func TestCompare_DeltasMatchTrajectories(t *testing.T) {
	service := NewComparisonService(nil)

	result, err := service.Compare(context.Background(), defaultInput(5, []int{0, 1, 0, 2, 0}))
	require.NoError(t, err)

	require.Len(t, result.Deltas, 6)
	for i, delta := range result.Deltas {
		assert.Equal(t, i, delta.Year)
		assert.True(t, delta.ETFValue.Equal(result.ETF.Records[i].Value))
		assert.True(t, delta.FundValue.Equal(result.Fund.Records[i].Value))
		assert.True(t, delta.Difference.Equal(delta.ETFValue.Sub(delta.FundValue)))
	}

	assert.Equal(t, 3, result.ETF.TotalSaleEvents)
	assert.Zero(t, result.Fund.TotalSaleEvents)
	assert.True(t, result.Fund.TotalInterimTax.IsZero())
	assert.Equal(t, domain.VehicleETF, result.ETF.Vehicle)
	assert.Equal(t, domain.VehicleFund, result.Fund.Vehicle)
}

func TestCompare_RunsAreIndependent(t *testing.T) {
	service := NewComparisonService(nil)
	input := defaultInput(4, []int{1, 1, 1, 1})

	first, err := service.Compare(context.Background(), input)
	require.NoError(t, err)

	// Swapping the vehicles swaps the results exactly
	swapped := input
	swapped.ETF, swapped.Fund = input.Fund, input.ETF
	second, err := service.Compare(context.Background(), swapped)
	require.NoError(t, err)

	assert.True(t, first.ETF.NetFinalValue.Equal(second.Fund.NetFinalValue))
	assert.True(t, first.Fund.NetFinalValue.Equal(second.ETF.NetFinalValue))
	assert.True(t, first.NetDifference.Equal(second.NetDifference.Neg()))
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestCompare_InvalidInput(t *testing.T) {
	metrics := observability.NewMetrics("test")
	service := NewComparisonService(metrics)

	input := defaultInput(3, []int{0, 1})

	result, err := service.Compare(context.Background(), input)

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfiguration))
	assert.Contains(t, err.Error(), "etf: ")
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.InvalidConfigurations))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.Simulations.WithLabelValues(domain.VehicleETF)))
}

func TestCompare_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	service := NewComparisonService(nil)
	result, err := service.Compare(ctx, defaultInput(1, []int{0}))

	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompare_RecordsMetrics(t *testing.T) {
	metrics := observability.NewMetrics("test")
	service := NewComparisonService(metrics)

	_, err := service.Compare(context.Background(), defaultInput(2, []int{0, 1}))
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Comparisons))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Simulations.WithLabelValues(domain.VehicleETF)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Simulations.WithLabelValues(domain.VehicleFund)))
}

func TestSimulate_SingleVehicle(t *testing.T) {
	metrics := observability.NewMetrics("test")
	service := NewComparisonService(metrics)

	cfg := domain.VehicleConfig{
		Name:              "my-portfolio",
		InitialCapital:    d("10000"),
		Horizon:           1,
		ReturnRate:        d("0.05"),
		ManagementFeeRate: decimal.Zero,
		TransactionCost:   domain.FixedCost(decimal.Zero),
		SaleSchedule:      []int{0},
	}

	result, err := service.Simulate(context.Background(), cfg, domain.DefaultBrackets())
	require.NoError(t, err)
	assert.True(t, d("10405").Equal(result.NetFinalValue))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Simulations.WithLabelValues("CUSTOM")))

	cfg.Horizon = 0
	_, err = service.Simulate(context.Background(), cfg, domain.DefaultBrackets())
	assert.True(t, errors.Is(err, domain.ErrInvalidConfiguration))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.InvalidConfigurations))
}
