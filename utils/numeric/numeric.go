// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2024-2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package numeric

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Normalize scales [x] into the [0, 1] range given the overall range it lives in.
func Normalize(x, minValue, maxValue float64) float64 {
	return NormalizeToRange(x, minValue, maxValue, 0, 1)
}

// NormalizeToRange scales [x] from the range [minValue, maxValue] into the new range [newMin, newMax].
func NormalizeToRange(x, minValue, maxValue, newMin, newMax float64) float64 {
	if maxValue == minValue {
		return newMin
	}
	ret := ((x - minValue) / (maxValue - minValue)) * (newMax - newMin)
	return max(newMin, min(ret+newMin, newMax))
}

// Exponent returns the base-10 exponent of [x], e.g. Exponent(1234) == 3, Exponent(0.01) == -2.
func Exponent(x float64) float64 {
	abs := math.Abs(x)
	if abs == 0 {
		return -1
	}
	exp := math.Floor(math.Log10(abs))
	if math.IsInf(exp, -1) {
		return -1
	}
	return exp
}

// RoundToNearestSigFig rounds [x] to [sigFigs] significant figures, e.g. 1234.5 to 3 figures is 1230.
func RoundToNearestSigFig(x float64, sigFigs int) float64 {
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	scale := math.Pow(10, float64(sigFigs)-Exponent(x)-1)
	return math.Round(x*scale) / scale
}

// Abs is the generic absolute value over any signed numeric type.
func Abs[N constraints.Signed | constraints.Float](n N) N {
	if n < 0 {
		return -n
	}
	return n
}

// Clamp pins [x] into the inclusive range [low, high].
func Clamp[N constraints.Ordered](x, low, high N) N {
	return max(low, min(x, high))
}
