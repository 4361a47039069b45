// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package examine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Lexer747/fits-examine/pixel"
	"github.com/Lexer747/fits-examine/utils/errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotSink renders plots to PNG files. Every plot overwrites the current window's file, mirroring how a
// plotting window repaints, until [PlotSink.NewWindow] rotates to a fresh file and the old one stops being
// touched. [PlotSink.Keep] copies the current file to a timestamped name that no later plot can clobber.
type PlotSink struct {
	dir string

	mu      sync.Mutex
	base    string
	window  int
	current string
}

func NewPlotSink(dir string) *PlotSink {
	return &PlotSink{dir: dir, base: "examine", window: 1}
}

// SetBase renames the file family every subsequent plot and keep uses.
func (s *PlotSink) SetBase(base string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = base
}

func (s *PlotSink) Base() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base
}

// Save renders the plot into the current window's file and reports the path written.
func (s *PlotSink) Save(plt *plot.Plot) (string, error) {
	s.mu.Lock()
	path := filepath.Join(s.dir, fmt.Sprintf("%s-window-%d.png", s.base, s.window))
	s.mu.Unlock()
	if err := plt.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return "", errors.Wrapf(err, "failed to render plot to %q", path)
	}
	s.mu.Lock()
	s.current = path
	s.mu.Unlock()
	return path, nil
}

// NewWindow rotates plotting onto the next file, returning the new window number.
func (s *PlotSink) NewWindow() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window++
	return s.window
}

// Current is the last file written, empty before the first plot.
func (s *PlotSink) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Keep copies the current plot file to a timestamped name safe from being overwritten.
func (s *PlotSink) Keep() (string, error) {
	current := s.Current()
	if current == "" {
		return "", errors.Errorf("no plot rendered yet")
	}
	s.mu.Lock()
	kept := filepath.Join(s.dir, s.base+"-"+time.Now().Format("20060102T150405")+".png")
	s.mu.Unlock()
	in, err := os.Open(current)
	if err != nil {
		return "", errors.Wrap(err, "cannot keep plot")
	}
	defer in.Close()
	out, err := os.Create(kept)
	if err != nil {
		return "", errors.Wrap(err, "cannot keep plot")
	}
	_, copyErr := io.Copy(out, in)
	if err := errors.Join(copyErr, out.Close()); err != nil {
		return "", errors.Wrap(err, "cannot keep plot")
	}
	return kept, nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	plt := plot.New()
	plt.Title.Text = title
	plt.X.Label.Text = xLabel
	plt.Y.Label.Text = yLabel
	return plt
}

// plotSlice renders one row or column of pixels as a connected line.
func (e *Examine) plotSlice(values []float64, start int, title, xLabel string) (string, error) {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(start + i + 1)
		pts[i].Y = v
	}
	plt := newPlot(title, xLabel, "counts")
	if err := plotutil.AddLines(plt, pts); err != nil {
		return "", errors.Wrap(err, "failed to build plot")
	}
	return e.plots.Save(plt)
}

func sliceWindow(values []float64, p PlotWindowParams, centre int) (window []float64, start int) {
	if p.FullLine {
		return values, 0
	}
	lo := max(0, centre-p.HalfWidth)
	hi := min(len(values), centre+p.HalfWidth+1)
	return values[lo:hi], lo
}

func runLinePlot(_ context.Context, e *Examine, grid *pixel.Grid, x, y float64) error {
	at := index(grid, x, y)
	window, start := sliceWindow(grid.Row(at.Y), e.Params.LinePlot, at.X)
	path, err := e.plotSlice(window, start, fmt.Sprintf("line %d", at.Y+1), "x")
	if err != nil {
		return err
	}
	e.printf("plot: %s", path)
	return nil
}

func runColumnPlot(_ context.Context, e *Examine, grid *pixel.Grid, x, y float64) error {
	at := index(grid, x, y)
	window, start := sliceWindow(grid.Column(at.X), e.Params.ColumnPlot, at.Y)
	path, err := e.plotSlice(window, start, fmt.Sprintf("column %d", at.X+1), "y")
	if err != nil {
		return err
	}
	e.printf("plot: %s", path)
	return nil
}

// plotProfileFit overlays the fitted model on the measured profile.
func (e *Examine) plotProfileFit(fit ProfileFit) (string, error) {
	data := make(plotter.XYs, len(fit.xs))
	for i := range fit.xs {
		data[i].X = fit.xs[i] + 1
		data[i].Y = fit.ys[i]
	}
	plt := newPlot(fmt.Sprintf("%s %s fit", fit.Axis, fit.Model), fit.Axis+" pixel", "counts")
	if err := plotutil.AddScatters(plt, data); err != nil {
		return "", errors.Wrap(err, "failed to build plot")
	}
	if fit.eval != nil && len(fit.xs) > 1 {
		// sample the model finer than the data so the curve looks like a curve
		const samplesPerPixel = 8
		lo, hi := fit.xs[0], fit.xs[len(fit.xs)-1]
		n := int(hi-lo)*samplesPerPixel + 1
		model := make(plotter.XYs, 0, n)
		for i := range n {
			mx := lo + float64(i)/samplesPerPixel
			model = append(model, plotter.XY{X: mx + 1, Y: fit.eval(mx)})
		}
		if err := plotutil.AddLines(plt, model); err != nil {
			return "", errors.Wrap(err, "failed to build plot")
		}
	}
	return e.plots.Save(plt)
}

func (e *Examine) plotCurveOfGrowth(curve []GrowthPoint) (string, error) {
	pts := make(plotter.XYs, len(curve))
	for i, point := range curve {
		pts[i].X = float64(point.Radius)
		pts[i].Y = point.Flux
	}
	plt := newPlot("curve of growth", "aperture radius (pix)", "enclosed flux")
	if err := plotutil.AddLinePoints(plt, pts); err != nil {
		return "", errors.Wrap(err, "failed to build plot")
	}
	return e.plots.Save(plt)
}

func (e *Examine) plotRadialProfile(profile []ProfilePoint) (string, error) {
	pts := make(plotter.XYs, len(profile))
	for i, point := range profile {
		pts[i].X = point.R
		pts[i].Y = point.Value
	}
	plt := newPlot("radial profile", "distance from centre (pix)", "counts")
	if err := plotutil.AddScatters(plt, pts); err != nil {
		return "", errors.Wrap(err, "failed to build plot")
	}
	return e.plots.Save(plt)
}

func runHistogram(_ context.Context, e *Examine, grid *pixel.Grid, x, y float64) error {
	p := e.Params.Histogram
	at := index(grid, x, y)
	cut, err := grid.Cutout(at.X, at.Y, p.HalfWidth)
	if err != nil {
		return err
	}
	values := clipValues(cut.Values(), p.Z1, p.Z2)
	if len(values) == 0 {
		return errors.Errorf("no pixels between z1 and z2 around (%g, %g)", x, y)
	}
	hist, err := plotter.NewHist(plotter.Values(values), p.NBins)
	if err != nil {
		return errors.Wrap(err, "failed to build histogram")
	}
	plt := newPlot("pixel histogram", "counts", "n")
	plt.Add(hist)
	path, err := e.plots.Save(plt)
	if err != nil {
		return err
	}
	e.printf("%d pixels in %d bins, plot: %s", len(values), p.NBins, path)
	return nil
}

// clipValues drops intensities outside the optional [z1, z2] display range, nil bounds pass everything.
func clipValues(values []float64, z1, z2 *float64) []float64 {
	if z1 == nil && z2 == nil {
		return values
	}
	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if z1 != nil && v < *z1 {
			continue
		}
		if z2 != nil && v > *z2 {
			continue
		}
		kept = append(kept, v)
	}
	return kept
}

func runContour(_ context.Context, e *Examine, grid *pixel.Grid, x, y float64) error {
	at := index(grid, x, y)
	cut, err := grid.Cutout(at.X, at.Y, e.Params.Contour.HalfWidth)
	if err != nil {
		return err
	}
	lo, hi := cut.MinMax()
	if lo == hi {
		return errors.Errorf("region around (%g, %g) is flat, nothing to contour", x, y)
	}
	n := max(1, e.Params.Contour.NContours)
	levels := make([]float64, n)
	for i := range n {
		levels[i] = lo + (hi-lo)*float64(i+1)/float64(n+1)
	}
	contour := plotter.NewContour(cut, levels, palette.Heat(n, 1))
	plt := newPlot("contours", "x", "y")
	plt.Add(contour)
	path, err := e.plots.Save(plt)
	if err != nil {
		return err
	}
	e.printf("%d levels between %g and %g, plot: %s", n, lo, hi, path)
	return nil
}

// runHeatMap draws the region as a colour coded intensity map, the flat replacement for a perspective
// surface rendering of the same pixels.
func runHeatMap(_ context.Context, e *Examine, grid *pixel.Grid, x, y float64) error {
	at := index(grid, x, y)
	cut, err := grid.Cutout(at.X, at.Y, e.Params.HeatMap.HalfWidth)
	if err != nil {
		return err
	}
	heat := plotter.NewHeatMap(cut, palette.Heat(64, 1))
	plt := newPlot("intensity map", "x", "y")
	plt.Add(heat)
	path, err := e.plots.Save(plt)
	if err != nil {
		return err
	}
	e.printf("plot: %s", path)
	return nil
}

func runKeepPlot(_ context.Context, e *Examine, _ *pixel.Grid, _, _ float64) error {
	kept, err := e.plots.Keep()
	if err != nil {
		return err
	}
	e.printf("kept %s", kept)
	return nil
}
