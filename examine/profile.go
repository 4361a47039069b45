// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package examine

import (
	"context"
	"math"

	"github.com/Lexer747/fits-examine/fitting"
	"github.com/Lexer747/fits-examine/pixel"
	"github.com/Lexer747/fits-examine/utils/errors"
)

// ProfileFit is the result of the j and k keys, a 1D model fitted through the cursor.
type ProfileFit struct {
	Model FitModel
	// Axis is "line" or "column", the direction the profile runs.
	Axis string
	// Center is where the fitted peak sits along the axis, 1-based, NaN for the polynomial model.
	Center float64
	// FWHM of the fitted profile, NaN for models without a width.
	FWHM float64

	xs, ys []float64
	eval   func(float64) float64
}

// shrinkHalfWidth keeps a cursor window a minority of the axis it cuts from, a radius of a quarter of the
// length or more halves.
func shrinkHalfWidth(halfWidth, length int) int {
	if halfWidth >= length/4 {
		return halfWidth / 2
	}
	return halfWidth
}

// profileWindow slices the pixels the fit sees, [HalfWidth] either side of the cursor along the axis. The
// returned xs are 0-based pixel indices along that axis.
func profileWindow(values []float64, centre, halfWidth int) (xs, ys []float64) {
	lo := max(0, centre-halfWidth)
	hi := min(len(values), centre+halfWidth+1)
	xs = make([]float64, 0, hi-lo)
	ys = make([]float64, 0, hi-lo)
	for i := lo; i < hi; i++ {
		xs = append(xs, float64(i))
		ys = append(ys, values[i])
	}
	return xs, ys
}

func fitProfile(p FitParams, axis string, xs, ys []float64) (ProfileFit, error) {
	out := ProfileFit{Model: p.Model, Axis: axis, xs: xs, ys: ys, Center: math.NaN(), FWHM: math.NaN()}
	switch p.Model {
	case ModelGaussian:
		fit, err := fitting.FitGaussian1D(xs, ys)
		if err != nil {
			return out, err
		}
		out.Center = fit.Mean + 1
		out.FWHM = fit.FWHM()
		out.eval = fit.Eval
	case ModelMoffat:
		fit, err := fitting.FitMoffat1D(xs, ys)
		if err != nil {
			return out, err
		}
		out.Center = fit.Center + 1
		out.FWHM = fit.FWHM()
		out.eval = fit.Eval
	case ModelMexicanHat:
		fit, err := fitting.FitMexicanHat1D(xs, ys)
		if err != nil {
			return out, err
		}
		out.Center = fit.Center + 1
		out.eval = fit.Eval
	case ModelPolynomial:
		fit, err := fitting.FitPolynomial(xs, ys, p.Degree)
		if err != nil {
			return out, err
		}
		out.eval = fit.Eval
	default:
		return out, errors.Errorf("unknown fit model %q", p.Model)
	}
	return out, nil
}

// LineFit fits the configured model to the pixels either side of the cursor along its row.
func (e *Examine) LineFit(grid *pixel.Grid, x, y float64) (ProfileFit, error) {
	p := e.Params.LineFit
	x, y = e.fitCursor(p, grid, x, y)
	at := index(grid, x, y)
	xs, ys := profileWindow(grid.Row(at.Y), at.X, shrinkHalfWidth(p.HalfWidth, grid.Width()))
	fit, err := fitProfile(p, "line", xs, ys)
	return fit, errors.Wrapf(err, "line fit at y=%d", at.Y+1)
}

// ColumnFit fits the configured model to the pixels either side of the cursor along its column.
func (e *Examine) ColumnFit(grid *pixel.Grid, x, y float64) (ProfileFit, error) {
	p := e.Params.ColumnFit
	x, y = e.fitCursor(p, grid, x, y)
	at := index(grid, x, y)
	xs, ys := profileWindow(grid.Column(at.X), at.Y, shrinkHalfWidth(p.HalfWidth, grid.Height()))
	fit, err := fitProfile(p, "column", xs, ys)
	return fit, errors.Wrapf(err, "column fit at x=%d", at.X+1)
}

// fitCursor recentres the cursor on a 2D Gaussian peak before the window is cut, so a slightly off star
// click still fits through the maximum. The polynomial model fits background not sources and keeps the
// raw cursor.
func (e *Examine) fitCursor(p FitParams, grid *pixel.Grid, x, y float64) (float64, float64) {
	if !p.Center || p.Model == ModelPolynomial {
		return x, y
	}
	cx, cy := e.centroid(grid, x, y)
	return cx + 1, cy + 1
}

func reportProfileFit(e *Examine, fit ProfileFit) error {
	switch {
	case math.IsNaN(fit.Center):
		e.printf("%s %s fit over %d pixels", fit.Axis, fit.Model, len(fit.xs))
	case math.IsNaN(fit.FWHM):
		e.printf("%s %s fit: center=%.2f", fit.Axis, fit.Model, fit.Center)
	default:
		e.printf("%s %s fit: center=%.2f fwhm=%.2f", fit.Axis, fit.Model, fit.Center, fit.FWHM)
	}
	path, err := e.plotProfileFit(fit)
	if err != nil {
		return err
	}
	e.printf("plot: %s", path)
	return nil
}

func runLineFit(_ context.Context, e *Examine, grid *pixel.Grid, x, y float64) error {
	fit, err := e.LineFit(grid, x, y)
	if err != nil {
		return err
	}
	return reportProfileFit(e, fit)
}

func runColumnFit(_ context.Context, e *Examine, grid *pixel.Grid, x, y float64) error {
	fit, err := e.ColumnFit(grid, x, y)
	if err != nil {
		return err
	}
	return reportProfileFit(e, fit)
}
