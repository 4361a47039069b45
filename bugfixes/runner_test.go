// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

// bugfixes holds one test per fixed bug, each named after the behaviour which used to be wrong. They are
// deliberately end to end flavoured, exercising the same call path the original report came through.
package bugfixes_test

import (
	"math"
	"testing"

	"github.com/Lexer747/fits-examine/examine"
	"github.com/Lexer747/fits-examine/fitsfile"
	"github.com/Lexer747/fits-examine/pixel"
	"github.com/Lexer747/fits-examine/viewer/ds9"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

// The displayed plane of a cube was reported one too high because the viewer counts planes from 1 and the
// data arrays count from 0, photometry then ran on the wrong slice.
func TestCubePlaneOffByOne(t *testing.T) {
	t.Parallel()
	d, err := ds9.ParseFileReply("/data/cube.fits[plane=3]")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(2, d.Plane))

	d, err = ds9.ParseFileReply("/data/cube.fits[plane=2:5]")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(1, d.Plane))
}

// Extension designations lost their EXTVER on the way back out, so reloading the frame a second time
// silently picked the first matching EXTNAME instead.
func TestExtensionVersionSurvivesRoundTrip(t *testing.T) {
	t.Parallel()
	d, err := fitsfile.ParseDesignation("survey.fits[SCI,2]")
	assert.NilError(t, err)
	reparsed, err := fitsfile.ParseDesignation(d.String())
	assert.NilError(t, err)
	assert.Check(t, is.Equal(d, reparsed))
}

// Aperture photometry on a spot darker than the surrounding sky used to feed a negative flux into the
// magnitude conversion, the log of which is not a real number, the magnitude must come back NaN.
func TestNegativeFluxMagnitudeIsNaN(t *testing.T) {
	t.Parallel()
	grid := pixel.NewGrid(64, 64)
	for y := range 64 {
		for x := range 64 {
			grid.Set(x, y, 100)
		}
	}
	// a hole darker than the sky
	grid.Set(32, 32, 0)

	e := examine.New()
	e.Params.AperPhot.Center = false
	phot, err := e.AperPhot(grid, 33, 33)
	assert.NilError(t, err)
	assert.Check(t, phot.Flux < 0, "flux %v", phot.Flux)
	assert.Check(t, math.IsNaN(phot.Magnitude), "magnitude %v", phot.Magnitude)
}

// A cutout clipped by the image edge kept its pixels but forgot the clip, so fits and centroids near the
// border reported coordinates shifted by the clipped amount.
func TestClippedCutoutKeepsParentCoordinates(t *testing.T) {
	t.Parallel()
	grid := pixel.NewGrid(32, 32)
	cut, err := grid.Cutout(2, 2, 10)
	assert.NilError(t, err)
	off := cut.Offset()
	assert.Check(t, is.Equal(0, off.X))
	assert.Check(t, is.Equal(0, off.Y))
	// the window is clipped on the low side only
	assert.Check(t, is.Equal(12, cut.Width()))
	assert.Check(t, is.Equal(12, cut.Height()))
}
