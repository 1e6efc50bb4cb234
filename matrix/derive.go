package matrix

import (
	"math"

	"github.com/shopspring/decimal"

	"skillsmatrix/models"
)

// MaxRating is the top of the assessment scale.
const MaxRating = 6

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// toDecimal reads NaN and the infinities as zero; decimal.NewFromFloat
// panics on them.
func toDecimal(x float64) decimal.Decimal {
	if !finite(x) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(x)
}

// Round2 rounds to two decimals, halves away from zero, on the decimal
// representation of x so that 1.005 becomes 1.01.
func Round2(x float64) float64 {
	return roundTo(toDecimal(x), 2)
}

// Round1 rounds to one decimal with the same rule as Round2.
func Round1(x float64) float64 {
	return roundTo(toDecimal(x), 1)
}

func roundTo(d decimal.Decimal, places int32) float64 {
	f, _ := d.Round(places).Float64()
	return f
}

// Average is the mean of the self and manager ratings. The required level
// never enters it.
func Average(self, manager float64) float64 {
	sum := toDecimal(self).Add(toDecimal(manager))
	return roundTo(sum.Div(decimal.NewFromInt(2)), 2)
}

// AveragePresent is the two-decimal mean of the ratings that exist. With
// none it is 0.
func AveragePresent(ratings ...float64) float64 {
	return Mean(ratings)
}

// Gap is average minus required; negative means below requirement.
func Gap(average, required float64) float64 {
	return roundTo(toDecimal(average).Sub(toDecimal(required)), 2)
}

// BackSolveRequired recovers the displayed required rating when only the
// average and the gap are stored:
//
//	gap > 0: average - gap
//	gap < 0: average + gap
//	gap = 0: average
func BackSolveRequired(average, gap float64) float64 {
	a := toDecimal(average)
	g := toDecimal(gap)

	var r decimal.Decimal
	switch {
	case gap > 0:
		r = a.Sub(g)
	case gap < 0:
		r = a.Add(g)
	default:
		r = a
	}
	f, _ := r.Float64()
	return f
}

// Status is Proficient iff gap >= 0.
func Status(gap float64) models.SkillStatus {
	if gap >= 0 {
		return models.StatusProficient
	}
	return models.StatusDeveloping
}

// Mean returns the two-decimal mean of the finite values, or 0 for none.
func Mean(values []float64) float64 {
	sum := decimal.Zero
	n := 0
	for _, v := range values {
		if !finite(v) {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(v))
		n++
	}
	return roundTo(meanExact(sum, n), 2)
}

// meanExact is Mean without rounding, for intermediate values.
func meanExact(sum decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n)))
}
