package domain

import "github.com/shopspring/decimal"

// YearRecord is the state of a vehicle at the end of one simulated year.
// Year 0 is the seed record: Value = initial capital, everything else zero.
type YearRecord struct {
	Year            int
	Value           decimal.Decimal // After fee, growth and any sale this year
	ManagementFee   decimal.Decimal
	TransactionCost decimal.Decimal // 0 when no sale
	Tax             decimal.Decimal // Tax on gains realized by this year's sale, 0 when no sale
	SaleEvents      int
}

// SimulationResult is the full trajectory and the final liquidation of one vehicle
type SimulationResult struct {
	Vehicle string
	Records []YearRecord // Years 0..Horizon

	TotalManagementFees   decimal.Decimal
	TotalTransactionCosts decimal.Decimal
	TotalInterimTax       decimal.Decimal
	TotalSaleEvents       int

	FinalGrossValue decimal.Decimal // Value before the liquidation tax
	FinalGain       decimal.Decimal // FinalGrossValue - cost basis at liquidation
	FinalTax        decimal.Decimal
	NetFinalValue   decimal.Decimal // FinalGrossValue - FinalTax
	NetGain         decimal.Decimal // NetFinalValue - initial capital
}

// TotalTax returns the interim tax plus the tax on final liquidation
func (r *SimulationResult) TotalTax() decimal.Decimal {
	return r.TotalInterimTax.Add(r.FinalTax)
}
