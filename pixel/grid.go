// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

// pixel holds the in-memory raster representation shared between the file readers, the viewers and the
// analysis routines. A [Grid] is always float64 regardless of the on-disk BITPIX, conversion happens once at
// load time so the numeric code never branches on sample type.
package pixel

import (
	"math"

	"github.com/Lexer747/fits-examine/utils/errors"

	"golang.org/x/exp/constraints"
)

// Grid is a single 2D image plane stored row-major, the first sample is the bottom-left pixel of the image
// as a viewer would display it. Coordinates into a Grid are always 0-based, the 1-based convention used on
// the wire by viewers is translated at the boundary, not here.
type Grid struct {
	data   []float64
	w, h   int
	offset Point
}

// Point is an integer pixel location, 0-based.
type Point struct {
	X, Y int
}

// Rect is a half-open pixel region [X0, X1) x [Y0, Y1).
type Rect struct {
	X0, Y0, X1, Y1 int
}

func (r Rect) Width() int  { return r.X1 - r.X0 }
func (r Rect) Height() int { return r.Y1 - r.Y0 }

// NewGrid allocates a zeroed w by h grid.
func NewGrid(w, h int) *Grid {
	return &Grid{data: make([]float64, w*h), w: w, h: h}
}

// FromSlice adopts a row-major sample slice of any numeric type as a grid, converting to float64. The length
// of [data] must be exactly w*h.
func FromSlice[N constraints.Integer | constraints.Float](data []N, w, h int) (*Grid, error) {
	if len(data) != w*h {
		return nil, errors.Errorf("pixel data length %d does not match dimensions %dx%d", len(data), w, h)
	}
	converted := make([]float64, len(data))
	for i, d := range data {
		converted[i] = float64(d)
	}
	return &Grid{data: converted, w: w, h: h}, nil
}

// AdoptFloat64s takes ownership of [data] without copying. The length of [data] must be exactly w*h.
func AdoptFloat64s(data []float64, w, h int) (*Grid, error) {
	if len(data) != w*h {
		return nil, errors.Errorf("pixel data length %d does not match dimensions %dx%d", len(data), w, h)
	}
	return &Grid{data: data, w: w, h: h}, nil
}

func (g *Grid) Width() int  { return g.w }
func (g *Grid) Height() int { return g.h }

// Offset is the location of this grid's (0, 0) pixel in the parent image it was cut from, the zero value for
// grids which are whole images.
func (g *Grid) Offset() Point { return g.offset }

// Bounds is the region this grid covers in parent image coordinates.
func (g *Grid) Bounds() Rect {
	return Rect{X0: g.offset.X, Y0: g.offset.Y, X1: g.offset.X + g.w, Y1: g.offset.Y + g.h}
}

// Contains reports whether the 0-based point indexes into this grid.
func (g *Grid) Contains(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h
}

func (g *Grid) At(x, y int) float64 {
	return g.data[y*g.w+x]
}

func (g *Grid) Set(x, y int, v float64) {
	g.data[y*g.w+x] = v
}

// Row returns the y'th row, the returned slice aliases the grid.
func (g *Grid) Row(y int) []float64 {
	return g.data[y*g.w : (y+1)*g.w]
}

// Column returns a copy of the x'th column.
func (g *Grid) Column(x int) []float64 {
	col := make([]float64, g.h)
	for y := range g.h {
		col[y] = g.data[y*g.w+x]
	}
	return col
}

// Values returns the backing row-major slice, it aliases the grid.
func (g *Grid) Values() []float64 {
	return g.data
}

// Cutout extracts the square window of half-width [radius] centred on (x, y), clipped to the grid edges. A
// cutout near a corner is therefore smaller than (2*radius)^2. The returned grid records where it came from
// via [Grid.Offset]. Returns an error when the window misses the grid entirely.
func (g *Grid) Cutout(x, y, radius int) (*Grid, error) {
	r := Rect{
		X0: max(0, x-radius),
		Y0: max(0, y-radius),
		X1: min(g.w, x+radius),
		Y1: min(g.h, y+radius),
	}
	return g.Sub(r)
}

// Sub copies out the given region, clipped to the grid edges.
func (g *Grid) Sub(r Rect) (*Grid, error) {
	r.X0 = max(0, r.X0)
	r.Y0 = max(0, r.Y0)
	r.X1 = min(g.w, r.X1)
	r.Y1 = min(g.h, r.Y1)
	if r.Width() <= 0 || r.Height() <= 0 {
		return nil, errors.Errorf("region %+v does not intersect %dx%d image", r, g.w, g.h)
	}
	sub := NewGrid(r.Width(), r.Height())
	sub.offset = Point{X: r.X0 + g.offset.X, Y: r.Y0 + g.offset.Y}
	for y := range r.Height() {
		copy(sub.Row(y), g.Row(r.Y0+y)[r.X0:r.X1])
	}
	return sub, nil
}

// MinMax scans for the extreme samples, NaNs are skipped.
func (g *Grid) MinMax() (minValue, maxValue float64) {
	minValue = math.Inf(1)
	maxValue = math.Inf(-1)
	for _, v := range g.data {
		if math.IsNaN(v) {
			continue
		}
		minValue = min(minValue, v)
		maxValue = max(maxValue, v)
	}
	return minValue, maxValue
}

// Max returns the location and value of the brightest pixel.
func (g *Grid) Max() (Point, float64) {
	best := math.Inf(-1)
	var at Point
	for y := range g.h {
		row := g.Row(y)
		for x, v := range row {
			if v > best {
				best = v
				at = Point{X: x, Y: y}
			}
		}
	}
	return at, best
}

// Sum adds every sample, NaNs are skipped.
func (g *Grid) Sum() float64 {
	total := 0.0
	for _, v := range g.data {
		if math.IsNaN(v) {
			continue
		}
		total += v
	}
	return total
}

// The plotter.GridXYZ interface, so a Grid can feed contour and heat map plots directly. X and Y report
// parent image coordinates so plots of cutouts keep their original axes.

func (g *Grid) Dims() (c, r int)   { return g.w, g.h }
func (g *Grid) Z(c, r int) float64 { return g.At(c, r) }
func (g *Grid) X(c int) float64    { return float64(c + g.offset.X) }
func (g *Grid) Y(r int) float64    { return float64(r + g.offset.Y) }
