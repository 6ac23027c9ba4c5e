package format

import (
	"math"
	"math/big"
	"strconv"
)

// ConfidencePercent converts a confidence in [0, 1] to a whole percent.
// Rounding is half-up on the decimal value as written, so 0.655 gives 66
// and 0.005 gives 1 even though neither is exact in binary.
func ConfidencePercent(confidence float64) int {
	if math.IsNaN(confidence) || confidence <= 0 {
		return 0
	}
	if confidence >= 1 {
		return 100
	}

	r, ok := new(big.Rat).SetString(strconv.FormatFloat(confidence, 'f', -1, 64))
	if !ok {
		return 0
	}
	r.Mul(r, big.NewRat(100, 1))
	r.Add(r, big.NewRat(1, 2))

	// r is positive, so truncation is floor
	return int(new(big.Int).Quo(r.Num(), r.Denom()).Int64())
}

// ConfidenceLabel renders a confidence as "66%".
func ConfidenceLabel(confidence float64) string {
	return strconv.Itoa(ConfidencePercent(confidence)) + "%"
}

// ConfidenceLevel picks the bar colour: "high" above 0.8, "medium" otherwise.
func ConfidenceLevel(confidence float64) string {
	if confidence > 0.8 {
		return "high"
	}
	return "medium"
}
