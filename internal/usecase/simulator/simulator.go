// Package simulator runs the year-by-year accrual and taxation recurrence of one vehicle.
package simulator

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/vehiclecompare-backend/internal/domain"
	"github.com/simaogato/vehiclecompare-backend/internal/usecase/taxengine"
)

// MoneyScale is the number of decimal places kept for simulated amounts.
// Fees, values, taxes and costs are rounded half-to-even to this scale as they are computed.
const MoneyScale int32 = 10

func round(v decimal.Decimal) decimal.Decimal {
	return v.RoundBank(MoneyScale)
}

// Simulate runs the recurrence for cfg under the given bracket schedule.
// Logic, for each year t = 1..Horizon:
//  1. fee = value × fee rate (on the pre-growth value)
//  2. value = value × (1 + return) - fee
//  3. if sales are scheduled: tax the gain over the cost basis, charge the
//     transaction cost, then reset the basis to the post-sale value
//  4. record the year
//
// Every amount is rounded to MoneyScale places when it is produced.
// After the loop the remaining gain over the basis is taxed as the final liquidation.
// Both inputs are validated before any state is built; every failure wraps
// domain.ErrInvalidConfiguration.
func Simulate(cfg domain.VehicleConfig, brackets []domain.TaxBracket) (*domain.SimulationResult, error) {
	if err := domain.ValidateBrackets(brackets); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	one := decimal.NewFromInt(1)
	growth := one.Add(cfg.ReturnRate)

	value := cfg.InitialCapital
	basis := cfg.InitialCapital

	result := &domain.SimulationResult{
		Vehicle:               cfg.Name,
		TotalManagementFees:   decimal.Zero,
		TotalTransactionCosts: decimal.Zero,
		TotalInterimTax:       decimal.Zero,
	}

	records := make([]domain.YearRecord, 0, cfg.Horizon+1)
	records = append(records, domain.YearRecord{
		Year:            0,
		Value:           value,
		ManagementFee:   decimal.Zero,
		TransactionCost: decimal.Zero,
		Tax:             decimal.Zero,
	})

	for year := 1; year <= cfg.Horizon; year++ {
		var fee decimal.Decimal
		switch cfg.FeeTiming {
		case domain.FeeTimingCompounded:
			grown := round(value.Mul(growth))
			fee = round(grown.Mul(cfg.ManagementFeeRate))
			value = grown.Sub(fee)
		default:
			fee = round(value.Mul(cfg.ManagementFeeRate))
			value = round(value.Mul(growth)).Sub(fee)
		}
		result.TotalManagementFees = result.TotalManagementFees.Add(fee)

		record := domain.YearRecord{
			Year:            year,
			ManagementFee:   fee,
			TransactionCost: decimal.Zero,
			Tax:             decimal.Zero,
		}

		if sales := cfg.SaleSchedule[year-1]; sales > 0 {
			// Losses are not offset: a negative gain owes nothing
			tax := round(taxengine.BottomUp(value.Sub(basis), brackets))
			value = value.Sub(tax)

			cost := round(cfg.TransactionCost.Cost(value, sales))
			value = value.Sub(cost)

			basis = value

			record.Tax = tax
			record.TransactionCost = cost
			record.SaleEvents = sales

			result.TotalInterimTax = result.TotalInterimTax.Add(tax)
			result.TotalTransactionCosts = result.TotalTransactionCosts.Add(cost)
			result.TotalSaleEvents += sales
		}

		record.Value = value
		records = append(records, record)
	}

	result.Records = records
	result.FinalGrossValue = value
	result.FinalGain = value.Sub(basis)
	result.FinalTax = round(taxengine.BottomUp(result.FinalGain, brackets))
	result.NetFinalValue = value.Sub(result.FinalTax)
	result.NetGain = result.NetFinalValue.Sub(cfg.InitialCapital)

	return result, nil
}
