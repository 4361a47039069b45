// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package fitting

import (
	"math"

	"github.com/Lexer747/fits-examine/pixel"
	"github.com/Lexer747/fits-examine/utils/errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// All the profile fits minimise the sum of squared residuals with Nelder-Mead, seeded from simple moment
// estimates of the data. Derivative free works well here because the starting simplex is already close, the
// typical input is a star profile a handful of pixels either side of the cursor.

func sumSquaredResiduals(x, y []float64, model func(float64) float64) float64 {
	total := 0.0
	for i, xi := range x {
		r := y[i] - model(xi)
		total += r * r
	}
	return total
}

func minimise(objective func([]float64) float64, initial []float64) ([]float64, error) {
	problem := optimize.Problem{Func: objective}
	result, err := optimize.Minimize(problem, initial, nil, &optimize.NelderMead{})
	if err != nil {
		return nil, errors.Wrap(err, "minimisation failed")
	}
	if math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return nil, errors.Errorf("minimisation diverged")
	}
	return result.X, nil
}

// moments estimates the baseline, peak height, peak position and width of a 1D profile.
func moments(x, y []float64) (base, amp, centre, width float64) {
	base = math.Inf(1)
	peak := math.Inf(-1)
	for i, yi := range y {
		base = min(base, yi)
		if yi > peak {
			peak = yi
			centre = x[i]
		}
	}
	amp = peak - base
	// second moment about the peak, with the baseline removed
	var weight, spread float64
	for i, yi := range y {
		w := max(0, yi-base)
		weight += w
		spread += w * (x[i] - centre) * (x[i] - centre)
	}
	if weight > 0 {
		width = math.Sqrt(spread / weight)
	}
	if width == 0 || math.IsNaN(width) {
		width = max(1, float64(len(x))/4)
	}
	return base, amp, centre, width
}

func checkProfile(x, y []float64, minPoints int) error {
	if len(x) != len(y) {
		return errors.Errorf("mismatched profile, %d x values and %d y values", len(x), len(y))
	}
	if len(x) < minPoints {
		return errors.Errorf("not enough data to fit, have %d points want at least %d", len(x), minPoints)
	}
	return nil
}

// FitGaussian1D fits a Gaussian plus constant to the profile.
func FitGaussian1D(x, y []float64) (Gaussian1D, error) {
	if err := checkProfile(x, y, 4); err != nil {
		return Gaussian1D{}, err
	}
	base, amp, centre, width := moments(x, y)
	params, err := minimise(func(p []float64) float64 {
		g := Gaussian1D{Amplitude: p[0], Mean: p[1], Stddev: p[2], Constant: p[3]}
		return sumSquaredResiduals(x, y, g.Eval)
	}, []float64{amp, centre, width, base})
	if err != nil {
		return Gaussian1D{}, errors.Wrap(err, "Gaussian fit")
	}
	return Gaussian1D{Amplitude: params[0], Mean: params[1], Stddev: math.Abs(params[2]), Constant: params[3]}, nil
}

// FitMoffat1D fits a Moffat profile plus constant to the profile.
func FitMoffat1D(x, y []float64) (Moffat1D, error) {
	if err := checkProfile(x, y, 5); err != nil {
		return Moffat1D{}, err
	}
	base, amp, centre, width := moments(x, y)
	params, err := minimise(func(p []float64) float64 {
		m := Moffat1D{Amplitude: p[0], Center: p[1], Core: p[2], Power: p[3], Constant: p[4]}
		return sumSquaredResiduals(x, y, m.Eval)
	}, []float64{amp, centre, width, 2.5, base})
	if err != nil {
		return Moffat1D{}, errors.Wrap(err, "Moffat fit")
	}
	return Moffat1D{
		Amplitude: params[0], Center: params[1],
		Core: math.Abs(params[2]), Power: params[3], Constant: params[4],
	}, nil
}

// FitMexicanHat1D fits a Ricker wavelet plus constant to the profile.
func FitMexicanHat1D(x, y []float64) (MexicanHat1D, error) {
	if err := checkProfile(x, y, 4); err != nil {
		return MexicanHat1D{}, err
	}
	base, amp, centre, width := moments(x, y)
	params, err := minimise(func(p []float64) float64 {
		m := MexicanHat1D{Amplitude: p[0], Center: p[1], Sigma: p[2], Constant: p[3]}
		return sumSquaredResiduals(x, y, m.Eval)
	}, []float64{amp, centre, width, base})
	if err != nil {
		return MexicanHat1D{}, errors.Wrap(err, "MexicanHat fit")
	}
	return MexicanHat1D{Amplitude: params[0], Center: params[1], Sigma: math.Abs(params[2]), Constant: params[3]}, nil
}

// FitGaussian2D fits an elliptical Gaussian to the grid, the returned centre is in the grid's parent image
// coordinates so callers can report it directly against the displayed image.
func FitGaussian2D(grid *pixel.Grid) (Gaussian2D, error) {
	if grid.Width() < 3 || grid.Height() < 3 {
		return Gaussian2D{}, errors.Errorf("grid %dx%d too small for a 2D fit", grid.Width(), grid.Height())
	}
	peakAt, peak := grid.Max()
	base, _ := grid.MinMax()
	offset := grid.Offset()
	initial := []float64{
		peak - base,
		float64(peakAt.X + offset.X),
		float64(peakAt.Y + offset.Y),
		max(1, float64(grid.Width())/4),
		max(1, float64(grid.Height())/4),
		base,
	}
	params, err := minimise(func(p []float64) float64 {
		g := Gaussian2D{Amplitude: p[0], X: p[1], Y: p[2], StddevX: p[3], StddevY: p[4], Constant: p[5]}
		total := 0.0
		for y := range grid.Height() {
			for x := range grid.Width() {
				r := grid.At(x, y) - g.Eval(float64(x+offset.X), float64(y+offset.Y))
				total += r * r
			}
		}
		return total
	}, initial)
	if err != nil {
		return Gaussian2D{}, errors.Wrap(err, "2D Gaussian fit")
	}
	return Gaussian2D{
		Amplitude: params[0],
		X:         params[1], Y: params[2],
		StddevX: math.Abs(params[3]), StddevY: math.Abs(params[4]),
		Constant: params[5],
	}, nil
}

// FitPolynomial is a linear least squares fit of the given degree, solved by QR factorisation of the
// Vandermonde matrix.
func FitPolynomial(x, y []float64, degree int) (Polynomial, error) {
	if degree < 0 {
		return Polynomial{}, errors.Errorf("negative polynomial degree %d", degree)
	}
	if err := checkProfile(x, y, degree+1); err != nil {
		return Polynomial{}, err
	}
	a := mat.NewDense(len(x), degree+1, nil)
	for i, xi := range x {
		v := 1.0
		for j := range degree + 1 {
			a.Set(i, j, v)
			v *= xi
		}
	}
	b := mat.NewVecDense(len(y), y)
	var qr mat.QR
	qr.Factorize(a)
	var coefficients mat.VecDense
	if err := qr.SolveVecTo(&coefficients, false, b); err != nil {
		return Polynomial{}, errors.Wrapf(err, "degree %d polynomial fit", degree)
	}
	out := make([]float64, degree+1)
	copy(out, coefficients.RawVector().Data)
	return Polynomial{Coefficients: out}, nil
}
