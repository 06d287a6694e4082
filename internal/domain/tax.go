package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxBracket is one slice of a progressive capital-gains schedule.
// The bracket covers gains from the previous bracket's UpperBound (0 for the first)
// up to its own UpperBound, taxed at Rate.
type TaxBracket struct {
	UpperBound *decimal.Decimal // NULL means unbounded. Only the last bracket may be unbounded.
	Rate       decimal.Decimal  // Fraction, e.g. 0.19 for 19%
}

// IsUnbounded reports whether the bracket extends to infinity
func (b TaxBracket) IsUnbounded() bool {
	return b.UpperBound == nil
}

// NewBracket creates a bounded bracket
func NewBracket(upperBound, rate decimal.Decimal) TaxBracket {
	return TaxBracket{UpperBound: &upperBound, Rate: rate}
}

// NewTopBracket creates the unbounded top bracket
func NewTopBracket(rate decimal.Decimal) TaxBracket {
	return TaxBracket{Rate: rate}
}

// DefaultBrackets returns a fresh copy of the Spanish savings-income schedule:
// 19% to 6 000, 21% to 50 000, 23% to 200 000, 27% beyond.
// Callers pass it explicitly; nothing in the engine falls back to it.
func DefaultBrackets() []TaxBracket {
	return []TaxBracket{
		NewBracket(decimal.NewFromInt(6000), decimal.RequireFromString("0.19")),
		NewBracket(decimal.NewFromInt(50000), decimal.RequireFromString("0.21")),
		NewBracket(decimal.NewFromInt(200000), decimal.RequireFromString("0.23")),
		NewTopBracket(decimal.RequireFromString("0.27")),
	}
}

// FlatBrackets returns a single unbounded bracket taxing every gain at rate
func FlatBrackets(rate decimal.Decimal) []TaxBracket {
	return []TaxBracket{NewTopBracket(rate)}
}

// ValidateBrackets ensures the schedule partitions [0, ∞) without gaps.
// Rules:
//   - at least one bracket
//   - rates are non-negative and non-decreasing
//   - bounds are positive and strictly increasing
//   - exactly the last bracket is unbounded
func ValidateBrackets(brackets []TaxBracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("%w: tax schedule must have at least one bracket", ErrInvalidConfiguration)
	}

	lower := decimal.Zero
	prevRate := decimal.Zero
	last := len(brackets) - 1

	for i, b := range brackets {
		if b.Rate.IsNegative() {
			return fmt.Errorf("%w: bracket %d rate must be non-negative", ErrInvalidConfiguration, i)
		}
		if i > 0 && b.Rate.LessThan(prevRate) {
			return fmt.Errorf("%w: bracket %d rate must not be lower than the previous bracket", ErrInvalidConfiguration, i)
		}
		prevRate = b.Rate

		if i == last {
			if !b.IsUnbounded() {
				return fmt.Errorf("%w: last bracket must be unbounded", ErrInvalidConfiguration)
			}
			continue
		}

		if b.IsUnbounded() {
			return fmt.Errorf("%w: only the last bracket may be unbounded (bracket %d)", ErrInvalidConfiguration, i)
		}
		if b.UpperBound.LessThanOrEqual(lower) {
			return fmt.Errorf("%w: bracket %d upper bound must be greater than %s", ErrInvalidConfiguration, i, lower.String())
		}
		lower = *b.UpperBound
	}

	return nil
}

// TaxSchedule is a named, reusable bracket schedule
type TaxSchedule struct {
	Name     string
	Brackets []TaxBracket
}

// Validate ensures the schedule has a name and well-formed brackets
func (s *TaxSchedule) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: tax schedule name cannot be empty", ErrInvalidConfiguration)
	}
	return ValidateBrackets(s.Brackets)
}

// CopyBrackets returns a deep copy so callers cannot mutate a shared schedule
func CopyBrackets(brackets []TaxBracket) []TaxBracket {
	out := make([]TaxBracket, len(brackets))
	for i, b := range brackets {
		out[i] = TaxBracket{Rate: b.Rate}
		if b.UpperBound != nil {
			bound := *b.UpperBound
			out[i].UpperBound = &bound
		}
	}
	return out
}
