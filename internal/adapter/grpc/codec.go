package grpc

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/vehiclecompare-backend/internal/domain"
)

// ErrMalformedRequest is wrapped by every request decoding failure
var ErrMalformedRequest = errors.New("malformed request")

// Request field names. Amounts and rates are decimal strings; numbers are accepted too.
const (
	fieldInitialCapital    = "initial_capital"
	fieldHorizonYears      = "horizon_years"
	fieldName              = "name"
	fieldETF               = "etf"
	fieldFund              = "fund"
	fieldReturnRate        = "return_rate"
	fieldManagementFeeRate = "management_fee_rate"
	fieldTransactionCost   = "transaction_cost"
	fieldKind              = "kind"
	fieldValue             = "value"
	fieldSaleSchedule      = "sale_schedule"
	fieldFeeTiming         = "fee_timing"
	fieldTaxSchedule       = "tax_schedule"
	fieldTaxBrackets       = "tax_brackets"
	fieldUpperBound        = "upper_bound"
	fieldRate              = "rate"
	fieldGain              = "gain"
)

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedRequest, fmt.Sprintf(format, args...))
}

// isAbsent reports whether key is missing or explicitly null
func isAbsent(fields map[string]*structpb.Value, key string) bool {
	v, ok := fields[key]
	if !ok || v == nil {
		return true
	}
	_, isNull := v.GetKind().(*structpb.Value_NullValue)
	return isNull
}

// decimalField parses a decimal from a string or number field
func decimalField(fields map[string]*structpb.Value, key string) (decimal.Decimal, error) {
	if isAbsent(fields, key) {
		return decimal.Zero, malformed("%s is required", key)
	}

	switch kind := fields[key].GetKind().(type) {
	case *structpb.Value_StringValue:
		amount, err := decimal.NewFromString(kind.StringValue)
		if err != nil {
			return decimal.Zero, malformed("invalid %s format: %v", key, err)
		}
		return amount, nil
	case *structpb.Value_NumberValue:
		if math.IsNaN(kind.NumberValue) || math.IsInf(kind.NumberValue, 0) {
			return decimal.Zero, malformed("%s must be finite", key)
		}
		return decimal.NewFromFloat(kind.NumberValue), nil
	default:
		return decimal.Zero, malformed("%s must be a decimal string or number", key)
	}
}

// intValue parses an integral number
func intValue(v *structpb.Value, key string) (int, error) {
	kind, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, malformed("%s must be a number", key)
	}
	n := kind.NumberValue
	if math.Trunc(n) != n || n > math.MaxInt32 || n < math.MinInt32 {
		return 0, malformed("%s must be an integer", key)
	}
	return int(n), nil
}

func intField(fields map[string]*structpb.Value, key string) (int, error) {
	if isAbsent(fields, key) {
		return 0, malformed("%s is required", key)
	}
	return intValue(fields[key], key)
}

// horizonField reads horizon_years, rejecting horizons longer than domain.MaxRequestHorizon
func horizonField(fields map[string]*structpb.Value) (int, error) {
	horizon, err := intField(fields, fieldHorizonYears)
	if err != nil {
		return 0, err
	}
	if horizon > domain.MaxRequestHorizon {
		return 0, malformed("%s must be at most %d, got %d", fieldHorizonYears, domain.MaxRequestHorizon, horizon)
	}
	return horizon, nil
}

func stringField(fields map[string]*structpb.Value, key string) (string, error) {
	if isAbsent(fields, key) {
		return "", nil
	}
	kind, ok := fields[key].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", malformed("%s must be a string", key)
	}
	return kind.StringValue, nil
}

func structField(fields map[string]*structpb.Value, key string) (map[string]*structpb.Value, error) {
	if isAbsent(fields, key) {
		return nil, malformed("%s is required", key)
	}
	kind, ok := fields[key].GetKind().(*structpb.Value_StructValue)
	if !ok {
		return nil, malformed("%s must be an object", key)
	}
	return kind.StructValue.GetFields(), nil
}

func listField(fields map[string]*structpb.Value, key string) ([]*structpb.Value, error) {
	kind, ok := fields[key].GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, malformed("%s must be a list", key)
	}
	return kind.ListValue.GetValues(), nil
}

// decodeCostRule reads {"kind": "PERCENTAGE"|"FIXED", "value": "..."}.
// A missing rule means no transaction cost.
func decodeCostRule(fields map[string]*structpb.Value) (domain.TransactionCostRule, error) {
	if isAbsent(fields, fieldTransactionCost) {
		return domain.FixedCost(decimal.Zero), nil
	}

	rule, err := structField(fields, fieldTransactionCost)
	if err != nil {
		return domain.TransactionCostRule{}, err
	}

	kind, err := stringField(rule, fieldKind)
	if err != nil {
		return domain.TransactionCostRule{}, err
	}
	value, err := decimalField(rule, fieldValue)
	if err != nil {
		return domain.TransactionCostRule{}, err
	}

	return domain.TransactionCostRule{Kind: domain.CostRuleKind(kind), Value: value}, nil
}

// decodeSaleSchedule reads a list of sale counts. A missing list means no sales.
func decodeSaleSchedule(fields map[string]*structpb.Value, horizon int) ([]int, error) {
	if isAbsent(fields, fieldSaleSchedule) {
		return domain.NoSales(horizon), nil
	}

	values, err := listField(fields, fieldSaleSchedule)
	if err != nil {
		return nil, err
	}

	schedule := make([]int, len(values))
	for i, v := range values {
		count, err := intValue(v, fmt.Sprintf("%s[%d]", fieldSaleSchedule, i))
		if err != nil {
			return nil, err
		}
		schedule[i] = count
	}
	return schedule, nil
}

// decodeVehicleParams reads the per-vehicle fields of a request
func decodeVehicleParams(fields map[string]*structpb.Value, horizon int) (domain.VehicleParams, error) {
	var p domain.VehicleParams
	var err error

	if p.ReturnRate, err = decimalField(fields, fieldReturnRate); err != nil {
		return p, err
	}
	if p.ManagementFeeRate, err = decimalField(fields, fieldManagementFeeRate); err != nil {
		return p, err
	}
	if p.TransactionCost, err = decodeCostRule(fields); err != nil {
		return p, err
	}
	if p.SaleSchedule, err = decodeSaleSchedule(fields, horizon); err != nil {
		return p, err
	}

	timing, err := stringField(fields, fieldFeeTiming)
	if err != nil {
		return p, err
	}
	p.FeeTiming = domain.FeeTiming(timing)

	return p, nil
}

// DecodeBrackets reads [{"upper_bound": "6000", "rate": "0.19"}, {"rate": "0.27"}].
// A missing or null upper_bound is the unbounded top bracket.
func DecodeBrackets(values []*structpb.Value) ([]domain.TaxBracket, error) {
	brackets := make([]domain.TaxBracket, 0, len(values))

	for i, v := range values {
		kind, ok := v.GetKind().(*structpb.Value_StructValue)
		if !ok {
			return nil, malformed("%s[%d] must be an object", fieldTaxBrackets, i)
		}
		fields := kind.StructValue.GetFields()

		rate, err := decimalField(fields, fieldRate)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", fieldTaxBrackets, i, err)
		}

		if isAbsent(fields, fieldUpperBound) {
			brackets = append(brackets, domain.NewTopBracket(rate))
			continue
		}

		bound, err := decimalField(fields, fieldUpperBound)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", fieldTaxBrackets, i, err)
		}
		brackets = append(brackets, domain.NewBracket(bound, rate))
	}

	return brackets, nil
}

// DecodeComparisonInput reads a Compare request. Brackets are resolved separately.
func DecodeComparisonInput(req *structpb.Struct) (domain.ComparisonInput, error) {
	var in domain.ComparisonInput
	fields := req.GetFields()

	capital, err := decimalField(fields, fieldInitialCapital)
	if err != nil {
		return in, err
	}
	horizon, err := horizonField(fields)
	if err != nil {
		return in, err
	}

	etfFields, err := structField(fields, fieldETF)
	if err != nil {
		return in, err
	}
	etf, err := decodeVehicleParams(etfFields, horizon)
	if err != nil {
		return in, fmt.Errorf("etf: %w", err)
	}

	fundFields, err := structField(fields, fieldFund)
	if err != nil {
		return in, err
	}
	fund, err := decodeVehicleParams(fundFields, horizon)
	if err != nil {
		return in, fmt.Errorf("fund: %w", err)
	}

	return domain.ComparisonInput{
		InitialCapital: capital,
		Horizon:        horizon,
		ETF:            etf,
		Fund:           fund,
	}, nil
}

// DecodeVehicleConfig reads a Simulate request: capital, horizon and vehicle fields at top level
func DecodeVehicleConfig(req *structpb.Struct) (domain.VehicleConfig, error) {
	fields := req.GetFields()

	name, err := stringField(fields, fieldName)
	if err != nil {
		return domain.VehicleConfig{}, err
	}
	capital, err := decimalField(fields, fieldInitialCapital)
	if err != nil {
		return domain.VehicleConfig{}, err
	}
	horizon, err := horizonField(fields)
	if err != nil {
		return domain.VehicleConfig{}, err
	}
	params, err := decodeVehicleParams(fields, horizon)
	if err != nil {
		return domain.VehicleConfig{}, err
	}

	in := domain.ComparisonInput{InitialCapital: capital, Horizon: horizon}
	return in.Config(name, params), nil
}

func encodeBrackets(brackets []domain.TaxBracket) []interface{} {
	out := make([]interface{}, len(brackets))
	for i, b := range brackets {
		entry := map[string]interface{}{
			fieldRate: b.Rate.String(),
		}
		if b.IsUnbounded() {
			entry[fieldUpperBound] = nil
		} else {
			entry[fieldUpperBound] = b.UpperBound.String()
		}
		out[i] = entry
	}
	return out
}

func encodeSimulationMap(r *domain.SimulationResult) map[string]interface{} {
	records := make([]interface{}, len(r.Records))
	for i, rec := range r.Records {
		records[i] = map[string]interface{}{
			"year":             rec.Year,
			"value":            rec.Value.String(),
			"management_fee":   rec.ManagementFee.String(),
			"transaction_cost": rec.TransactionCost.String(),
			"tax":              rec.Tax.String(),
			"sale_events":      rec.SaleEvents,
		}
	}

	return map[string]interface{}{
		"vehicle":                 r.Vehicle,
		"records":                 records,
		"total_management_fees":   r.TotalManagementFees.String(),
		"total_transaction_costs": r.TotalTransactionCosts.String(),
		"total_interim_tax":       r.TotalInterimTax.String(),
		"total_tax":               r.TotalTax().String(),
		"total_sale_events":       r.TotalSaleEvents,
		"final_gross_value":       r.FinalGrossValue.String(),
		"final_gain":              r.FinalGain.String(),
		"final_tax":               r.FinalTax.String(),
		"net_final_value":         r.NetFinalValue.String(),
		"net_gain":                r.NetGain.String(),
	}
}

// EncodeSimulation converts a simulation result into a response message
func EncodeSimulation(r *domain.SimulationResult) (*structpb.Struct, error) {
	return structpb.NewStruct(encodeSimulationMap(r))
}

// EncodeComparison converts a comparison result into a response message
func EncodeComparison(r *domain.ComparisonResult) (*structpb.Struct, error) {
	deltas := make([]interface{}, len(r.Deltas))
	for i, delta := range r.Deltas {
		deltas[i] = map[string]interface{}{
			"year":       delta.Year,
			"etf_value":  delta.ETFValue.String(),
			"fund_value": delta.FundValue.String(),
			"difference": delta.Difference.String(),
		}
	}

	return structpb.NewStruct(map[string]interface{}{
		"run_id":         r.RunID.String(),
		"etf":            encodeSimulationMap(r.ETF),
		"fund":           encodeSimulationMap(r.Fund),
		"deltas":         deltas,
		"net_difference": r.NetDifference.String(),
		"leader":         r.Leader(),
	})
}

// EncodeSchedules converts catalog entries into a response message
func EncodeSchedules(schedules []*domain.TaxSchedule) (*structpb.Struct, error) {
	out := make([]interface{}, len(schedules))
	for i, s := range schedules {
		out[i] = map[string]interface{}{
			fieldName:        s.Name,
			fieldTaxBrackets: encodeBrackets(s.Brackets),
		}
	}
	return structpb.NewStruct(map[string]interface{}{"schedules": out})
}
