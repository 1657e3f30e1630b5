package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a currency value in minor units (hundredths).
type Amount int64

const (
	minorUnitExp = 2
	// BasisPointsWhole is 100% expressed in basis points.
	BasisPointsWhole int64 = 10_000
)

// FromFloat converts a boundary value (e.g. a JSON number) to minor units,
// rounding half away from zero.
func FromFloat(v float64) Amount {
	return fromDecimal(decimal.NewFromFloat(v))
}

// Parse accepts decimal strings such as "12.5" or "10".
func Parse(raw string) (Amount, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	return fromDecimal(d), nil
}

func fromDecimal(d decimal.Decimal) Amount {
	return Amount(d.Shift(minorUnitExp).Round(0).IntPart())
}

// NonNegative clamps negative amounts to zero.
func (a Amount) NonNegative() Amount {
	if a < 0 {
		return 0
	}
	return a
}

// MulBasisPoints returns a*bps/10000 truncated toward zero.
func (a Amount) MulBasisPoints(bps int64) Amount {
	return Amount(int64(a) * bps / BasisPointsWhole)
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -minorUnitExp)
}

func (a Amount) Float64() float64 {
	f, _ := a.Decimal().Float64()
	return f
}

func (a Amount) String() string {
	return a.Decimal().StringFixed(minorUnitExp)
}
