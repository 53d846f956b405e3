package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Round rounds x to the given number of decimal places, half away from zero.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	f, _ := decimal.NewFromFloat(x).Round(places).Float64()
	return f
}

// Finite reports whether x is neither NaN nor infinite.
func Finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// OrZero replaces NaN and infinities with 0.
func OrZero(x float64) float64 {
	if Finite(x) {
		return x
	}
	return 0
}

// ParseFloatList parses a comma separated list of floats. Empty items are skipped.
func ParseFloatList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("item %d (%q) is not a number", i, p)
		}
		out = append(out, v)
	}
	return out, nil
}
