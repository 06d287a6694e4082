// Package taxengine computes capital-gains tax under a progressive bracket schedule.
package taxengine

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/vehiclecompare-backend/internal/domain"
)

// TaxOwed returns the tax owed on a realized gain.
// Gains <= 0 owe nothing; losses are not carried forward.
// Returns an error wrapping domain.ErrInvalidConfiguration if the schedule is malformed.
func TaxOwed(gain decimal.Decimal, brackets []domain.TaxBracket) (decimal.Decimal, error) {
	if err := domain.ValidateBrackets(brackets); err != nil {
		return decimal.Zero, err
	}
	return BottomUp(gain, brackets), nil
}

// BottomUp walks the brackets from the lowest, accumulating the tax on the slice of
// gain inside each bracket until the gain is exhausted.
// The schedule must already be valid.
func BottomUp(gain decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	tax := decimal.Zero
	if gain.Sign() <= 0 {
		return tax
	}

	lower := decimal.Zero
	for _, b := range brackets {
		if gain.LessThanOrEqual(lower) {
			break
		}

		upper := gain
		if !b.IsUnbounded() && b.UpperBound.LessThan(gain) {
			upper = *b.UpperBound
		}

		tax = tax.Add(upper.Sub(lower).Mul(b.Rate))
		lower = upper
	}

	return tax
}

// TopDown walks the brackets from the highest, taxing the part of the gain above each
// bracket's lower threshold and capping the gain at that threshold.
// The schedule must already be valid.
func TopDown(gain decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	tax := decimal.Zero
	if gain.Sign() <= 0 {
		return tax
	}

	remaining := gain
	for i := len(brackets) - 1; i >= 0; i-- {
		lower := lowerBound(brackets, i)
		if remaining.GreaterThan(lower) {
			tax = tax.Add(remaining.Sub(lower).Mul(brackets[i].Rate))
			remaining = lower
		}
	}

	return tax
}

// MarginalRate returns the rate applied to the last unit of gain.
// Gains <= 0 fall in the first bracket.
func MarginalRate(gain decimal.Decimal, brackets []domain.TaxBracket) (decimal.Decimal, error) {
	if err := domain.ValidateBrackets(brackets); err != nil {
		return decimal.Zero, err
	}

	for _, b := range brackets {
		if b.IsUnbounded() || gain.LessThanOrEqual(*b.UpperBound) {
			return b.Rate, nil
		}
	}

	// unreachable for a valid schedule
	return brackets[len(brackets)-1].Rate, nil
}

// lowerBound is the threshold where bracket i starts
func lowerBound(brackets []domain.TaxBracket, i int) decimal.Decimal {
	if i == 0 {
		return decimal.Zero
	}
	return *brackets[i-1].UpperBound
}
