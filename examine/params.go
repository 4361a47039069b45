// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package examine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Lexer747/fits-examine/utils/errors"
)

// Params collects the tunable knobs of every analysis routine. A session mutates these freely between
// keystrokes, [Params.Unlearn] puts everything back to the defaults, and the whole set round trips through
// JSON so a preferred setup can live in a file.
type Params struct {
	AperPhot      AperPhotParams      `json:"aper-phot"`
	LineFit       FitParams           `json:"line-fit"`
	ColumnFit     FitParams           `json:"column-fit"`
	RegionStat    RegionStatParams    `json:"region-stat"`
	LinePlot      PlotWindowParams    `json:"line-plot"`
	ColumnPlot    PlotWindowParams    `json:"column-plot"`
	Histogram     HistogramParams     `json:"histogram"`
	Contour       ContourParams       `json:"contour"`
	HeatMap       HeatMapParams       `json:"heat-map"`
	Cutout        CutoutParams        `json:"cutout"`
	CurveOfGrowth CurveOfGrowthParams `json:"curve-of-growth"`
	RadialProfile RadialProfileParams `json:"radial-profile"`
	Centroid      CentroidParams      `json:"centroid"`
}

type AperPhotParams struct {
	// Radius of the circular source aperture in pixels.
	Radius float64 `json:"radius"`
	// SkyRadius is the inner edge of the sky annulus, Width its thickness.
	SkyRadius float64 `json:"sky-radius"`
	Width     float64 `json:"width"`
	// ZMag is the photometric zero point for the magnitude report.
	ZMag float64 `json:"zmag"`
	// Center recentres on a 2D Gaussian fit before measuring instead of trusting the cursor.
	Center bool `json:"center"`
	// SubtractSky turns the annulus estimate on, without it the raw aperture sum reports.
	SubtractSky bool `json:"subtract-sky"`
}

// FitModel names a 1D profile shape for the line and column fits.
type FitModel string

const (
	ModelGaussian   FitModel = "gaussian"
	ModelMoffat     FitModel = "moffat"
	ModelMexicanHat FitModel = "mexican-hat"
	ModelPolynomial FitModel = "polynomial"
)

type FitParams struct {
	Model FitModel `json:"model"`
	// HalfWidth is how many pixels either side of the cursor feed the fit and the plot.
	HalfWidth int `json:"half-width"`
	// Degree only matters for the polynomial model.
	Degree int `json:"degree"`
	Center bool `json:"center"`
}

type RegionStatParams struct {
	// Stat is any statistic understood by [Statistic].
	Stat string `json:"stat"`
	// RegionSize is the side of the square window around the cursor.
	RegionSize int `json:"region-size"`
}

type PlotWindowParams struct {
	// FullLine plots the entire row or column, otherwise HalfWidth pixels either side of the cursor.
	FullLine  bool `json:"full-line"`
	HalfWidth int  `json:"half-width"`
}

type HistogramParams struct {
	NBins     int `json:"nbins"`
	HalfWidth int `json:"half-width"`
	// Z1 and Z2 clip the intensities fed to the bins, nil means unclipped on that side.
	Z1 *float64 `json:"z1"`
	Z2 *float64 `json:"z2"`
}

type ContourParams struct {
	NContours int `json:"ncontours"`
	HalfWidth int `json:"half-width"`
}

type HeatMapParams struct {
	HalfWidth int `json:"half-width"`
}

type CutoutParams struct {
	// Size is the half-width of the saved square in pixels.
	Size int `json:"size"`
}

type CurveOfGrowthParams struct {
	// MaxRadius is the largest aperture measured, the curve runs from radius 1 to here.
	MaxRadius int `json:"max-radius"`
	// Buffer is the gap between the source and the sky annulus, Width the annulus thickness.
	Buffer float64 `json:"buffer"`
	Width  float64 `json:"width"`
	Center bool    `json:"center"`
}

type RadialProfileParams struct {
	MaxRadius   int     `json:"max-radius"`
	SkyRadius   float64 `json:"sky-radius"`
	Width       float64 `json:"width"`
	Center      bool    `json:"center"`
	SubtractSky bool    `json:"subtract-sky"`
}

type CentroidParams struct {
	// HalfWidth of the window handed to the 2D Gaussian centring fit.
	HalfWidth int `json:"half-width"`
}

// DefaultParams are the starting values of a fresh session.
func DefaultParams() *Params {
	return &Params{
		AperPhot: AperPhotParams{
			Radius: 5, SkyRadius: 15, Width: 5, ZMag: 25, Center: true, SubtractSky: true,
		},
		LineFit:       FitParams{Model: ModelGaussian, HalfWidth: 15, Degree: 4, Center: true},
		ColumnFit:     FitParams{Model: ModelGaussian, HalfWidth: 20, Degree: 4, Center: true},
		RegionStat:    RegionStatParams{Stat: "median", RegionSize: 5},
		LinePlot:      PlotWindowParams{FullLine: true, HalfWidth: 20},
		ColumnPlot:    PlotWindowParams{FullLine: true, HalfWidth: 20},
		Histogram:     HistogramParams{NBins: 100, HalfWidth: 10},
		Contour:       ContourParams{NContours: 8, HalfWidth: 7},
		HeatMap:       HeatMapParams{HalfWidth: 5},
		Cutout:        CutoutParams{Size: 20},
		CurveOfGrowth: CurveOfGrowthParams{MaxRadius: 8, Buffer: 25, Width: 5, Center: true},
		RadialProfile: RadialProfileParams{MaxRadius: 8, SkyRadius: 10, Width: 5, Center: true, SubtractSky: true},
		Centroid:      CentroidParams{HalfWidth: 10},
	}
}

// Unlearn forgets every adjustment, all routines are back at their defaults afterwards.
func (p *Params) Unlearn() {
	*p = *DefaultParams()
}

// ParseParamsFromJSON takes bytes (from a file) and returns the parameter set they describe layered over
// the defaults, so a file only needs the values it changes.
func ParseParamsFromJSON(data []byte) (*Params, error) {
	p := DefaultParams()
	if err := json.Unmarshal(data, p); err != nil {
		return nil, errors.Wrap(err, "failed to parse analysis parameters")
	}
	return p, nil
}

// LoadParamsFile reads a parameter file, a missing file silently yields the defaults since that is the
// common case.
func LoadParamsFile(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultParams(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load analysis parameters from %q", path)
	}
	p, err := ParseParamsFromJSON(data)
	return p, errors.Wrapf(err, "in %q", path)
}

// SaveParamsFile writes the full parameter set out so the next session starts where this one left off.
func (p *Params) SaveParamsFile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to serialise analysis parameters")
	}
	return errors.Wrapf(os.WriteFile(path, append(data, '\n'), 0o644), "failed to save analysis parameters to %q", path)
}

// Describe renders the current values for the interactive help.
func (p *Params) Describe() string {
	var b strings.Builder
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "unprintable parameters"
	}
	b.Write(data)
	fmt.Fprintln(&b)
	return b.String()
}
