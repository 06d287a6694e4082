package grpc

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/vehiclecompare-backend/internal/domain"
)

func TestDecodeBrackets(t *testing.T) {
	list, err := structpb.NewList([]interface{}{
		map[string]interface{}{"upper_bound": "6000", "rate": "0.19"},
		map[string]interface{}{"upper_bound": 50000, "rate": 0.21},
		map[string]interface{}{"upper_bound": nil, "rate": "0.27"},
	})
	require.NoError(t, err)

	brackets, err := DecodeBrackets(list.GetValues())
	require.NoError(t, err)
	require.Len(t, brackets, 3)

	assert.True(t, decimal.NewFromInt(6000).Equal(*brackets[0].UpperBound))
	assert.True(t, decimal.RequireFromString("0.21").Equal(brackets[1].Rate))
	assert.True(t, brackets[2].IsUnbounded())
	assert.NoError(t, domain.ValidateBrackets(brackets))
}

func TestDecodeBrackets_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
	}{
		{"not an object", "0.19"},
		{"missing rate", map[string]interface{}{"upper_bound": "6000"}},
		{"bad rate", map[string]interface{}{"rate": "nineteen"}},
		{"bad bound", map[string]interface{}{"upper_bound": true, "rate": "0.19"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := structpb.NewList([]interface{}{tt.value})
			require.NoError(t, err)

			_, err = DecodeBrackets(list.GetValues())
			assert.ErrorIs(t, err, ErrMalformedRequest)
		})
	}
}

func TestDecodeComparisonInput_Defaults(t *testing.T) {
	req, err := structpb.NewStruct(map[string]interface{}{
		"initial_capital": "10000",
		"horizon_years":   3,
		"etf": map[string]interface{}{
			"return_rate":         "0.05",
			"management_fee_rate": "0.002",
		},
		"fund": map[string]interface{}{
			"return_rate":         "0.05",
			"management_fee_rate": "0.015",
			"fee_timing":          "COMPOUNDED",
		},
	})
	require.NoError(t, err)

	in, err := DecodeComparisonInput(req)
	require.NoError(t, err)

	assert.Equal(t, 3, in.Horizon)
	assert.Equal(t, []int{0, 0, 0}, in.ETF.SaleSchedule)
	assert.Equal(t, domain.CostRuleFixed, in.ETF.TransactionCost.Kind)
	assert.True(t, in.ETF.TransactionCost.Value.IsZero())
	assert.Equal(t, domain.FeeTimingCompounded, in.Fund.FeeTiming)
	assert.Nil(t, in.Brackets)
}

func TestDecodeComparisonInput_SaleScheduleMustBeIntegers(t *testing.T) {
	req, err := structpb.NewStruct(map[string]interface{}{
		"initial_capital": "10000",
		"horizon_years":   2,
		"etf": map[string]interface{}{
			"return_rate":         "0.05",
			"management_fee_rate": "0.002",
			"sale_schedule":       []interface{}{1, 0.5},
		},
		"fund": map[string]interface{}{
			"return_rate":         "0.05",
			"management_fee_rate": "0.015",
		},
	})
	require.NoError(t, err)

	_, err = DecodeComparisonInput(req)
	require.ErrorIs(t, err, ErrMalformedRequest)
	assert.Contains(t, err.Error(), "etf: ")
	assert.Contains(t, err.Error(), "sale_schedule[1]")
}

func TestDecodeVehicleConfig(t *testing.T) {
	req, err := structpb.NewStruct(map[string]interface{}{
		"name":                "ETF",
		"initial_capital":     "10000",
		"horizon_years":       2,
		"return_rate":         "0.10",
		"management_fee_rate": "0.01",
		"transaction_cost":    map[string]interface{}{"kind": "PERCENTAGE", "value": "0.001"},
		"sale_schedule":       []interface{}{1, 0},
	})
	require.NoError(t, err)

	cfg, err := DecodeVehicleConfig(req)
	require.NoError(t, err)

	assert.Equal(t, "ETF", cfg.Name)
	assert.Equal(t, 2, cfg.Horizon)
	assert.Equal(t, []int{1, 0}, cfg.SaleSchedule)
	assert.Equal(t, domain.PercentageCost(decimal.RequireFromString("0.001")), cfg.TransactionCost)
	assert.NoError(t, cfg.Validate())
}

func TestEncodeComparison(t *testing.T) {
	sim := func(vehicle string, net string) *domain.SimulationResult {
		v := decimal.RequireFromString(net)
		return &domain.SimulationResult{
			Vehicle:         vehicle,
			Records:         []domain.YearRecord{{Year: 0, Value: decimal.NewFromInt(100)}},
			FinalGrossValue: v,
			NetFinalValue:   v,
		}
	}

	result := &domain.ComparisonResult{
		RunID:         uuid.New(),
		ETF:           sim(domain.VehicleETF, "110"),
		Fund:          sim(domain.VehicleFund, "110"),
		Deltas:        []domain.YearDelta{{Year: 0, ETFValue: decimal.NewFromInt(100), FundValue: decimal.NewFromInt(100)}},
		NetDifference: decimal.Zero,
	}

	msg, err := EncodeComparison(result)
	require.NoError(t, err)

	fields := msg.GetFields()
	assert.Equal(t, result.RunID.String(), fields["run_id"].GetStringValue())
	assert.Equal(t, domain.VehicleTie, fields["leader"].GetStringValue())
	assert.Equal(t, "0", fields["net_difference"].GetStringValue())

	etf := fields["etf"].GetStructValue().GetFields()
	assert.Equal(t, "110", etf["net_final_value"].GetStringValue())
	assert.Len(t, etf["records"].GetListValue().GetValues(), 1)
}

func TestDecode_HorizonBeyondRequestLimit(t *testing.T) {
	vehicle := map[string]interface{}{
		"return_rate":         "0.05",
		"management_fee_rate": "0.002",
	}

	compareReq, err := structpb.NewStruct(map[string]interface{}{
		"initial_capital": "10000",
		"horizon_years":   domain.MaxRequestHorizon + 1,
		"etf":             vehicle,
		"fund":            vehicle,
	})
	require.NoError(t, err)

	_, err = DecodeComparisonInput(compareReq)
	assert.ErrorIs(t, err, ErrMalformedRequest)

	simulateReq, err := structpb.NewStruct(map[string]interface{}{
		"initial_capital":     "10000",
		"horizon_years":       float64(1 << 30),
		"return_rate":         "0.05",
		"management_fee_rate": "0.002",
	})
	require.NoError(t, err)

	_, err = DecodeVehicleConfig(simulateReq)
	assert.ErrorIs(t, err, ErrMalformedRequest)
	assert.Contains(t, err.Error(), "horizon_years must be at most")
}
