// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package examine

import (
	"context"
	"math"

	"github.com/Lexer747/fits-examine/fitsfile"
	"github.com/Lexer747/fits-examine/pixel"
	"github.com/Lexer747/fits-examine/utils/errors"

	"github.com/montanaflynn/stats"
)

// statistics every [RegionStatParams.Stat] can name.
var statistics = map[string]func(stats.Float64Data) (float64, error){
	"mean":     stats.Mean,
	"median":   stats.Median,
	"stddev":   stats.StandardDeviation,
	"var":      stats.Variance,
	"min":      stats.Min,
	"max":      stats.Max,
	"sum":      stats.Sum,
	"skew":     skewness,
	"kurtosis": kurtosis,
}

// Statistic computes the named statistic over the values.
func Statistic(name string, values []float64) (float64, error) {
	f, ok := statistics[name]
	if !ok {
		return 0, errors.Errorf("unknown statistic %q, have: mean median stddev var min max sum skew kurtosis", name)
	}
	v, err := f(values)
	return v, errors.Wrapf(err, "cannot compute %s", name)
}

// The stats library stops at variance, so the third and fourth standardised moments are computed here.

func centralMoment(data stats.Float64Data, n int) (mean, moment float64, err error) {
	mean, err = stats.Mean(data)
	if err != nil {
		return 0, 0, err
	}
	for _, v := range data {
		moment += math.Pow(v-mean, float64(n))
	}
	return mean, moment / float64(len(data)), nil
}

func skewness(data stats.Float64Data) (float64, error) {
	mean, m2, err := centralMoment(data, 2)
	if err != nil {
		return 0, err
	}
	if m2 == 0 {
		return 0, errors.Errorf("skew of constant data is undefined")
	}
	var m3 float64
	for _, v := range data {
		m3 += math.Pow(v-mean, 3)
	}
	m3 /= float64(len(data))
	return m3 / math.Pow(m2, 1.5), nil
}

// kurtosis is the excess form, a normal distribution reports 0.
func kurtosis(data stats.Float64Data) (float64, error) {
	mean, m2, err := centralMoment(data, 2)
	if err != nil {
		return 0, err
	}
	if m2 == 0 {
		return 0, errors.Errorf("kurtosis of constant data is undefined")
	}
	var m4 float64
	for _, v := range data {
		m4 += math.Pow(v-mean, 4)
	}
	m4 /= float64(len(data))
	return m4/(m2*m2) - 3, nil
}

// RegionStat is the result of the m key.
type RegionStat struct {
	Stat   string
	Value  float64
	Region pixel.Rect
	Count  int
}

// RegionStat computes the configured statistic over the square window centred on the cursor.
func (e *Examine) RegionStat(grid *pixel.Grid, x, y float64) (RegionStat, error) {
	at := index(grid, x, y)
	half := max(1, e.Params.RegionStat.RegionSize/2)
	region, err := grid.Cutout(at.X, at.Y, half)
	if err != nil {
		return RegionStat{}, err
	}
	value, err := Statistic(e.Params.RegionStat.Stat, region.Values())
	if err != nil {
		return RegionStat{}, err
	}
	return RegionStat{
		Stat:   e.Params.RegionStat.Stat,
		Value:  value,
		Region: region.Bounds(),
		Count:  len(region.Values()),
	}, nil
}

func runRegionStat(_ context.Context, e *Examine, grid *pixel.Grid, x, y float64) error {
	r, err := e.RegionStat(grid, x, y)
	if err != nil {
		return err
	}
	e.printf("%s of [%d:%d, %d:%d] (%d pixels) = %g",
		r.Stat, r.Region.X0, r.Region.X1, r.Region.Y0, r.Region.Y1, r.Count, r.Value)
	return nil
}

func runReadout(_ context.Context, e *Examine, grid *pixel.Grid, x, y float64) error {
	at := index(grid, x, y)
	e.printf("%-10.2f %-10.2f %g", x, y, grid.At(at.X, at.Y))
	return nil
}

// Cutout saves the square around the cursor as a new single HDU FITS file, returning its name.
func (e *Examine) Cutout(grid *pixel.Grid, x, y float64, source fitsfile.Designation) (string, error) {
	at := index(grid, x, y)
	cut, err := grid.Cutout(at.X, at.Y, e.Params.Cutout.Size)
	if err != nil {
		return "", errors.Wrap(err, "cannot cut out region")
	}
	return fitsfile.WriteCutoutFile(cut, at, source)
}

func runCutout(_ context.Context, e *Examine, grid *pixel.Grid, x, y float64) error {
	name, err := e.Cutout(grid, x, y, e.source.Get())
	if err != nil {
		return err
	}
	e.printf("wrote %s", name)
	return nil
}
