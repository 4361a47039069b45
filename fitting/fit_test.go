// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package fitting_test

import (
	"math"
	"testing"

	"github.com/Lexer747/fits-examine/fitting"
	"github.com/Lexer747/fits-examine/pixel"
	"github.com/Lexer747/fits-examine/utils/th"

	"gotest.tools/v3/assert"
	"pgregory.net/rapid"
)

func sample1D(n int, f func(float64) float64) (x, y []float64) {
	x = make([]float64, n)
	y = make([]float64, n)
	for i := range n {
		x[i] = float64(i)
		y[i] = f(float64(i))
	}
	return x, y
}

func TestFitGaussian1D(t *testing.T) {
	t.Parallel()
	truth := fitting.Gaussian1D{Amplitude: 120, Mean: 14.2, Stddev: 2.7, Constant: 30}
	x, y := sample1D(31, truth.Eval)
	fit, err := fitting.FitGaussian1D(x, y)
	assert.NilError(t, err)
	th.AssertFloatEqual(t, truth.Amplitude, fit.Amplitude, 3)
	th.AssertFloatEqual(t, truth.Mean, fit.Mean, 3)
	th.AssertFloatEqual(t, truth.Stddev, fit.Stddev, 3)
	th.AssertFloatEqual(t, truth.Constant, fit.Constant, 2)
	th.AssertFloatEqual(t, 2.7*2*math.Sqrt(2*math.Ln2), fit.FWHM(), 3)
}

func TestFitMoffat1D(t *testing.T) {
	t.Parallel()
	truth := fitting.Moffat1D{Amplitude: 80, Center: 10.5, Core: 3.1, Power: 2.5, Constant: 12}
	x, y := sample1D(25, truth.Eval)
	fit, err := fitting.FitMoffat1D(x, y)
	assert.NilError(t, err)
	th.AssertFloatEqual(t, truth.Center, fit.Center, 3)
	th.AssertFloatEqual(t, truth.FWHM(), fit.FWHM(), 2)
}

func TestFitMexicanHat1D(t *testing.T) {
	t.Parallel()
	truth := fitting.MexicanHat1D{Amplitude: 50, Center: 16, Sigma: 4, Constant: 5}
	x, y := sample1D(33, truth.Eval)
	fit, err := fitting.FitMexicanHat1D(x, y)
	assert.NilError(t, err)
	th.AssertFloatEqual(t, truth.Center, fit.Center, 3)
	th.AssertFloatEqual(t, truth.Sigma, fit.Sigma, 2)
}

func TestFitGaussian2D(t *testing.T) {
	t.Parallel()
	truth := fitting.Gaussian2D{Amplitude: 200, X: 9.3, Y: 11.7, StddevX: 2.1, StddevY: 2.9, Constant: 40}
	grid := pixel.NewGrid(21, 21)
	for y := range 21 {
		for x := range 21 {
			grid.Set(x, y, truth.Eval(float64(x), float64(y)))
		}
	}
	fit, err := fitting.FitGaussian2D(grid)
	assert.NilError(t, err)
	th.AssertFloatEqual(t, truth.X, fit.X, 3)
	th.AssertFloatEqual(t, truth.Y, fit.Y, 3)
	th.AssertFloatEqual(t, truth.StddevX, fit.StddevX, 2)
	th.AssertFloatEqual(t, truth.StddevY, fit.StddevY, 2)
}

func TestFitGaussian2DOnCutout(t *testing.T) {
	t.Parallel()
	// Centres report in parent image coordinates even when fitting a clipped window.
	truth := fitting.Gaussian2D{Amplitude: 300, X: 52.4, Y: 47.8, StddevX: 2.5, StddevY: 2.5, Constant: 10}
	full := pixel.NewGrid(100, 100)
	for y := range 100 {
		for x := range 100 {
			full.Set(x, y, truth.Eval(float64(x), float64(y)))
		}
	}
	cut, err := full.Cutout(52, 48, 10)
	assert.NilError(t, err)
	fit, err := fitting.FitGaussian2D(cut)
	assert.NilError(t, err)
	th.AssertFloatEqual(t, truth.X, fit.X, 3)
	th.AssertFloatEqual(t, truth.Y, fit.Y, 3)
}

func TestFitPolynomial(t *testing.T) {
	t.Parallel()
	truth := fitting.Polynomial{Coefficients: []float64{3, -2, 0.5}}
	x, y := sample1D(20, truth.Eval)
	fit, err := fitting.FitPolynomial(x, y, 2)
	assert.NilError(t, err)
	assert.Equal(t, 2, fit.Degree())
	for i, c := range truth.Coefficients {
		th.AssertFloatEqual(t, c, fit.Coefficients[i], 4)
	}
}

func TestFitErrors(t *testing.T) {
	t.Parallel()
	_, err := fitting.FitGaussian1D([]float64{1, 2}, []float64{1, 2})
	assert.Check(t, err != nil)
	_, err = fitting.FitGaussian1D([]float64{1, 2, 3}, []float64{1, 2})
	assert.Check(t, err != nil)
	_, err = fitting.FitPolynomial([]float64{1, 2, 3}, []float64{1, 2, 3}, -1)
	assert.Check(t, err != nil)
	_, err = fitting.FitGaussian2D(pixel.NewGrid(2, 2))
	assert.Check(t, err != nil)
}

func TestFWHM_Property(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		var (
			sigma = rapid.Float64Range(0.1, 100).Draw(t, "sigma")
			core  = rapid.Float64Range(0.1, 100).Draw(t, "core")
			power = rapid.Float64Range(1, 10).Draw(t, "power")
		)
		g := fitting.Gaussian1D{Amplitude: 1, Stddev: sigma}
		if g.FWHM() <= 0 {
			t.Fatalf("Gaussian FWHM() not positive: %f", g.FWHM())
		}
		// The profile really is at half maximum one half-width from centre.
		half := g.Eval(g.Mean + g.FWHM()/2)
		if math.Abs(half-g.Amplitude/2) > 1e-9 {
			t.Fatalf("Gaussian FWHM() inconsistent with Eval(): %f", half)
		}
		m := fitting.Moffat1D{Amplitude: 1, Core: core, Power: power}
		halfM := m.Eval(m.Center + m.FWHM()/2)
		if math.Abs(halfM-m.Amplitude/2) > 1e-9 {
			t.Fatalf("Moffat FWHM() inconsistent with Eval(): %f", halfM)
		}
	})
}
