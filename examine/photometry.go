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

	"github.com/montanaflynn/stats"
)

// centroid refines the cursor position with a 2D Gaussian fit in a small window, falling back to the raw
// cursor when the fit cannot run. Returned coordinates are 0-based pixel space.
func (e *Examine) centroid(grid *pixel.Grid, x, y float64) (cx, cy float64) {
	at := index(grid, x, y)
	cut, err := grid.Cutout(at.X, at.Y, centroidHalfWidth(e.Params.Centroid, grid))
	if err != nil {
		return float64(at.X), float64(at.Y)
	}
	fit, err := fitting.FitGaussian2D(cut)
	if err != nil {
		return float64(at.X), float64(at.Y)
	}
	b := cut.Bounds()
	if fit.X < float64(b.X0) || fit.X >= float64(b.X1) || fit.Y < float64(b.Y0) || fit.Y >= float64(b.Y1) {
		// the fit walked out of the window, it found noise not a source
		return float64(at.X), float64(at.Y)
	}
	return fit.X, fit.Y
}

// Centroid is the result of the b key.
type Centroid struct {
	X, Y         float64 // 1-based image coordinates, comparable with the cursor readout
	FWHMX, FWHMY float64
}

// CentroidAt fits a 2D Gaussian in the window around the cursor. A window the fit cannot converge in
// reports zeros and a warning rather than an error, clicking empty sky is not a failure of the session.
func (e *Examine) CentroidAt(grid *pixel.Grid, x, y float64) (Centroid, error) {
	at := index(grid, x, y)
	cut, err := grid.Cutout(at.X, at.Y, centroidHalfWidth(e.Params.Centroid, grid))
	if err != nil {
		return Centroid{}, err
	}
	fit, err := fitting.FitGaussian2D(cut)
	if err != nil {
		e.printf("gaussian centring failed, returning zeros: %v", err)
		return Centroid{}, nil
	}
	g := fitting.Gaussian1D{Stddev: fit.StddevX}
	gy := fitting.Gaussian1D{Stddev: fit.StddevY}
	return Centroid{X: fit.X + 1, Y: fit.Y + 1, FWHMX: g.FWHM(), FWHMY: gy.FWHM()}, nil
}

// centroidHalfWidth is the centring window radius, shrunk on small images like the profile windows.
func centroidHalfWidth(p CentroidParams, grid *pixel.Grid) int {
	return shrinkHalfWidth(p.HalfWidth, min(grid.Width(), grid.Height()))
}

func runCentroid(_ context.Context, e *Examine, grid *pixel.Grid, x, y float64) error {
	c, err := e.CentroidAt(grid, x, y)
	if err != nil {
		return err
	}
	e.printf("xc=%.2f yc=%.2f fwhm_x=%.2f fwhm_y=%.2f", c.X, c.Y, c.FWHMX, c.FWHMY)
	return nil
}

// apertureSum adds every pixel whose centre lies within radius of (cx, cy), returning the sum and the
// pixel count.
func apertureSum(grid *pixel.Grid, cx, cy, radius float64) (sum float64, area int) {
	x0 := max(0, int(cx-radius)-1)
	x1 := min(grid.Width(), int(cx+radius)+2)
	y0 := max(0, int(cy-radius)-1)
	y1 := min(grid.Height(), int(cy+radius)+2)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= radius*radius {
				sum += grid.At(x, y)
				area++
			}
		}
	}
	return sum, area
}

// annulusValues collects the pixels between the inner and outer radii.
func annulusValues(grid *pixel.Grid, cx, cy, inner, outer float64) []float64 {
	var values []float64
	x0 := max(0, int(cx-outer)-1)
	x1 := min(grid.Width(), int(cx+outer)+2)
	y0 := max(0, int(cy-outer)-1)
	y1 := min(grid.Height(), int(cy+outer)+2)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			d2 := dx*dx + dy*dy
			if d2 >= inner*inner && d2 <= outer*outer {
				values = append(values, grid.At(x, y))
			}
		}
	}
	return values
}

// skyEstimate is the per-pixel background from an annulus, the median so single stars in the annulus do
// not bias it.
func skyEstimate(grid *pixel.Grid, cx, cy, inner, outer float64) (float64, error) {
	values := annulusValues(grid, cx, cy, inner, outer)
	if len(values) == 0 {
		return 0, errors.Errorf("sky annulus [%g, %g] has no pixels on the image", inner, outer)
	}
	sky, err := stats.Median(values)
	return sky, errors.Wrap(err, "cannot estimate sky")
}

// Photometry is the result of the a key.
type Photometry struct {
	// X, Y is the centre actually measured, 1-based image coordinates.
	X, Y float64
	// Flux is the sky subtracted aperture sum, Magnitude is ZMag - 2.5*log10(Flux).
	Flux      float64
	Magnitude float64
	// Sky is the per-pixel background estimate, Area the pixels inside the aperture.
	Sky  float64
	Area int
}

// AperPhot measures circular aperture photometry at the cursor.
func (e *Examine) AperPhot(grid *pixel.Grid, x, y float64) (Photometry, error) {
	p := e.Params.AperPhot
	cx, cy := float64(index(grid, x, y).X), float64(index(grid, x, y).Y)
	if p.Center {
		cx, cy = e.centroid(grid, x, y)
	}
	sum, area := apertureSum(grid, cx, cy, p.Radius)
	if area == 0 {
		return Photometry{}, errors.Errorf("aperture of radius %g contains no pixels", p.Radius)
	}
	sky := 0.0
	if p.SubtractSky {
		var err error
		sky, err = skyEstimate(grid, cx, cy, p.SkyRadius, p.SkyRadius+p.Width)
		if err != nil {
			return Photometry{}, err
		}
	}
	flux := sum - sky*float64(area)
	magnitude := math.NaN()
	if flux > 0 {
		magnitude = p.ZMag - 2.5*math.Log10(flux)
	}
	return Photometry{X: cx + 1, Y: cy + 1, Flux: flux, Magnitude: magnitude, Sky: sky, Area: area}, nil
}

func runAperPhot(_ context.Context, e *Examine, grid *pixel.Grid, x, y float64) error {
	p, err := e.AperPhot(grid, x, y)
	if err != nil {
		return err
	}
	e.printf("xc=%.2f yc=%.2f flux=%g mag=%.3f sky/pix=%g aperture=%dpix",
		p.X, p.Y, p.Flux, p.Magnitude, p.Sky, p.Area)
	return nil
}

// GrowthPoint is one aperture of a curve of growth.
type GrowthPoint struct {
	Radius int
	Flux   float64
}

// CurveOfGrowth measures the enclosed flux at every aperture radius up to the configured maximum, the
// sky comes from one fixed annulus well outside the largest aperture.
func (e *Examine) CurveOfGrowth(grid *pixel.Grid, x, y float64) ([]GrowthPoint, error) {
	p := e.Params.CurveOfGrowth
	cx, cy := float64(index(grid, x, y).X), float64(index(grid, x, y).Y)
	if p.Center {
		cx, cy = e.centroid(grid, x, y)
	}
	if p.MaxRadius < 1 {
		return nil, errors.Errorf("max radius %d too small", p.MaxRadius)
	}
	sky, err := skyEstimate(grid, cx, cy, p.Buffer, p.Buffer+p.Width)
	if err != nil {
		return nil, err
	}
	curve := make([]GrowthPoint, 0, p.MaxRadius)
	for r := 1; r <= p.MaxRadius; r++ {
		sum, area := apertureSum(grid, cx, cy, float64(r))
		curve = append(curve, GrowthPoint{Radius: r, Flux: sum - sky*float64(area)})
	}
	return curve, nil
}

func runCurveOfGrowth(_ context.Context, e *Examine, grid *pixel.Grid, x, y float64) error {
	curve, err := e.CurveOfGrowth(grid, x, y)
	if err != nil {
		return err
	}
	for _, point := range curve {
		e.printf("r=%-3d flux=%g", point.Radius, point.Flux)
	}
	path, err := e.plotCurveOfGrowth(curve)
	if err != nil {
		return err
	}
	e.printf("plot: %s", path)
	return nil
}

// ProfilePoint is one pixel of a radial profile, distance from centre against value.
type ProfilePoint struct {
	R, Value float64
}

// RadialProfile collects every pixel within the configured radius as distance against brightness.
func (e *Examine) RadialProfile(grid *pixel.Grid, x, y float64) ([]ProfilePoint, error) {
	p := e.Params.RadialProfile
	cx, cy := float64(index(grid, x, y).X), float64(index(grid, x, y).Y)
	if p.Center {
		cx, cy = e.centroid(grid, x, y)
	}
	sky := 0.0
	if p.SubtractSky {
		var err error
		sky, err = skyEstimate(grid, cx, cy, p.SkyRadius, p.SkyRadius+p.Width)
		if err != nil {
			return nil, err
		}
	}
	maxR := float64(p.MaxRadius)
	x0 := max(0, int(cx-maxR)-1)
	x1 := min(grid.Width(), int(cx+maxR)+2)
	y0 := max(0, int(cy-maxR)-1)
	y1 := min(grid.Height(), int(cy+maxR)+2)
	var profile []ProfilePoint
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			dx := float64(px) - cx
			dy := float64(py) - cy
			r := math.Sqrt(dx*dx + dy*dy)
			if r <= maxR {
				profile = append(profile, ProfilePoint{R: r, Value: grid.At(px, py) - sky})
			}
		}
	}
	if len(profile) == 0 {
		return nil, errors.Errorf("no pixels within radius %d of (%g, %g)", p.MaxRadius, x, y)
	}
	return profile, nil
}

func runRadialProfile(_ context.Context, e *Examine, grid *pixel.Grid, x, y float64) error {
	profile, err := e.RadialProfile(grid, x, y)
	if err != nil {
		return err
	}
	path, err := e.plotRadialProfile(profile)
	if err != nil {
		return err
	}
	e.printf("%d pixels, plot: %s", len(profile), path)
	return nil
}
