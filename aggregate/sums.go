package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/2492dfd/stockLog-final/calc"
)

// SumPresent adds the present values. With none present the sum is absent,
// not zero.
func SumPresent(vals []decimal.NullDecimal) decimal.NullDecimal {
	var sum decimal.NullDecimal
	for _, v := range vals {
		if !v.Valid {
			continue
		}
		if !sum.Valid {
			sum = decimal.NewNullDecimal(decimal.Zero)
		}
		sum.Decimal = sum.Decimal.Add(v.Decimal)
	}
	return sum
}

// SumWithZeroFill treats absent values as zero. Only chart views use it.
func SumWithZeroFill(vals []decimal.NullDecimal) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range vals {
		if v.Valid {
			sum = sum.Add(v.Decimal)
		}
	}
	return sum
}

// AveragePresent is the mean of the present values, rounded to 2 decimals.
// Absent values count in neither the numerator nor the denominator.
func AveragePresent(vals []decimal.NullDecimal) decimal.NullDecimal {
	sum := decimal.Zero
	n := 0
	for _, v := range vals {
		if v.Valid {
			sum = sum.Add(v.Decimal)
			n++
		}
	}
	if n == 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(calc.Round2(sum.Div(decimal.NewFromInt(int64(n)))))
}
