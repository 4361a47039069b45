// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package examine_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/Lexer747/fits-examine/examine"
	"github.com/Lexer747/fits-examine/fitting"
	"github.com/Lexer747/fits-examine/pixel"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

// starField builds an image with a single Gaussian star on a flat background.
func starField(w, h int, star fitting.Gaussian2D) *pixel.Grid {
	g := pixel.NewGrid(w, h)
	for y := range h {
		for x := range w {
			g.Set(x, y, star.Eval(float64(x), float64(y)))
		}
	}
	return g
}

var testStar = fitting.Gaussian2D{Amplitude: 500, X: 63, Y: 57, StddevX: 2, StddevY: 2, Constant: 100}

func newTestExamine(t *testing.T) (*examine.Examine, *strings.Builder) {
	t.Helper()
	var out strings.Builder
	return examine.New(examine.WithOutput(&out), examine.WithPlotDir(t.TempDir())), &out
}

func TestRegisterRejectsReservedAndDuplicates(t *testing.T) {
	t.Parallel()
	e, _ := newTestExamine(t)
	noop := func(context.Context, *examine.Examine, *pixel.Grid, float64, float64) error { return nil }

	err := e.Register(examine.Binding{Key: 'q', Description: "boom", Run: noop})
	assert.ErrorContains(t, err, "reserved")
	err = e.Register(examine.Binding{Key: '2', Description: "boom", Run: noop})
	assert.ErrorContains(t, err, "reserved")
	err = e.Register(examine.Binding{Key: 'a', Description: "boom", Run: noop})
	assert.ErrorContains(t, err, "already bound")
	err = e.Register(examine.Binding{Key: 'z', Description: "missing routine"})
	assert.ErrorContains(t, err, "no routine")

	assert.NilError(t, e.Register(examine.Binding{Key: 'z', Description: "custom", Run: noop}))
	// and rebinding a built in works after an unbind
	e.Unbind('a')
	assert.NilError(t, e.Register(examine.Binding{Key: 'a', Description: "custom", Run: noop}))
}

func TestDispatchUnknownKey(t *testing.T) {
	t.Parallel()
	e, _ := newTestExamine(t)
	err := e.Dispatch(context.Background(), '@', pixel.NewGrid(4, 4), 1, 1)
	assert.Check(t, is.ErrorIs(err, examine.ErrUnknownKey))
}

func TestDispatchRunsCustomBinding(t *testing.T) {
	t.Parallel()
	e, _ := newTestExamine(t)
	ran := false
	assert.NilError(t, e.Register(examine.Binding{
		Key:         'z',
		Description: "custom",
		Run: func(_ context.Context, _ *examine.Examine, _ *pixel.Grid, x, y float64) error {
			ran = true
			assert.Check(t, is.Equal(10.0, x))
			return nil
		},
	}))
	assert.NilError(t, e.Dispatch(context.Background(), 'z', pixel.NewGrid(16, 16), 10, 12))
	assert.Check(t, ran)
}

func TestReadout(t *testing.T) {
	t.Parallel()
	e, out := newTestExamine(t)
	g := pixel.NewGrid(16, 16)
	g.Set(4, 7, 42.5)
	// image coordinates are 1-based
	assert.NilError(t, e.Dispatch(context.Background(), 'x', g, 5, 8))
	assert.Check(t, is.Contains(out.String(), "42.5"))
}

func TestBindingsSorted(t *testing.T) {
	t.Parallel()
	e, _ := newTestExamine(t)
	bindings := e.Bindings()
	assert.Check(t, len(bindings) > 10)
	for i := 1; i < len(bindings); i++ {
		assert.Check(t, bindings[i-1].Key < bindings[i].Key, "bindings out of order at %d", i)
	}
}

func TestLineAndColumnPlotsRender(t *testing.T) {
	t.Parallel()
	e, out := newTestExamine(t)
	g := starField(128, 128, testStar)
	assert.NilError(t, e.Dispatch(context.Background(), 'l', g, 64, 58))
	assert.NilError(t, e.Dispatch(context.Background(), 'c', g, 64, 58))
	assert.Check(t, is.Contains(out.String(), "examine-window-1.png"))
	info, err := os.Stat(e.LastPlot())
	assert.NilError(t, err)
	assert.Check(t, info.Size() > 0)
}

func TestNewPlotWindowRotatesFiles(t *testing.T) {
	t.Parallel()
	e, _ := newTestExamine(t)
	g := starField(64, 64, fitting.Gaussian2D{Amplitude: 10, X: 32, Y: 32, StddevX: 3, StddevY: 3})
	assert.NilError(t, e.Dispatch(context.Background(), 'l', g, 32, 32))
	first := e.LastPlot()
	assert.Check(t, is.Equal(2, e.NewPlotWindow()))
	assert.NilError(t, e.Dispatch(context.Background(), 'l', g, 32, 32))
	second := e.LastPlot()
	assert.Check(t, first != second)
	// both files still exist, the rotation stops the second plot clobbering the first
	_, err := os.Stat(first)
	assert.NilError(t, err)
	_, err = os.Stat(second)
	assert.NilError(t, err)
}

func TestKeepPlot(t *testing.T) {
	t.Parallel()
	e, out := newTestExamine(t)
	g := starField(64, 64, fitting.Gaussian2D{Amplitude: 10, X: 32, Y: 32, StddevX: 3, StddevY: 3})

	// keeping before any plot is an error
	err := e.Dispatch(context.Background(), 's', g, 32, 32)
	assert.ErrorContains(t, err, "no plot")

	assert.NilError(t, e.Dispatch(context.Background(), 'l', g, 32, 32))
	assert.NilError(t, e.Dispatch(context.Background(), 's', g, 32, 32))
	assert.Check(t, is.Contains(out.String(), "kept "))
}

func TestHistogramContourHeatMap(t *testing.T) {
	t.Parallel()
	e, out := newTestExamine(t)
	g := starField(128, 128, testStar)
	for _, key := range []rune{'h', 'e', 'w'} {
		assert.NilError(t, e.Dispatch(context.Background(), key, g, 64, 58), "key %q", key)
	}
	assert.Check(t, is.Contains(out.String(), "plot: "))
}

func TestHistogramClipsToZRange(t *testing.T) {
	t.Parallel()
	e, out := newTestExamine(t)
	g := pixel.NewGrid(32, 32)
	for y := range 32 {
		for x := range 32 {
			g.Set(x, y, float64(10+x%7))
		}
	}
	// three hot pixels inside the window
	g.Set(15, 15, 1000)
	g.Set(16, 15, 1000)
	g.Set(17, 15, 1000)

	// the default half-width 10 window around (16, 16) clips to 20x20 pixels
	assert.NilError(t, e.Dispatch(context.Background(), 'h', g, 16, 16))
	assert.Check(t, is.Contains(out.String(), "400 pixels"))

	z1, z2 := 5.0, 100.0
	e.Params.Histogram.Z1, e.Params.Histogram.Z2 = &z1, &z2
	out.Reset()
	assert.NilError(t, e.Dispatch(context.Background(), 'h', g, 16, 16))
	assert.Check(t, is.Contains(out.String(), "397 pixels"), "z2 drops the three hot pixels")

	impossible := 2000.0
	e.Params.Histogram.Z1, e.Params.Histogram.Z2 = &impossible, nil
	err := e.Dispatch(context.Background(), 'h', g, 16, 16)
	assert.ErrorContains(t, err, "no pixels between")
}

func TestContourFlatRegion(t *testing.T) {
	t.Parallel()
	e, _ := newTestExamine(t)
	err := e.Dispatch(context.Background(), 'e', pixel.NewGrid(64, 64), 32, 32)
	assert.ErrorContains(t, err, "flat")
}
