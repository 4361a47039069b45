// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

// examine is the analysis engine: a table of keystroke bindings, each running one numeric routine against
// the pixels under the cursor. The engine is viewer agnostic, it sees a [pixel.Grid] and a coordinate and
// neither knows nor cares which display program produced them, which is also what makes every routine
// directly callable from scripts and tests.
package examine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/Lexer747/fits-examine/fitsfile"
	"github.com/Lexer747/fits-examine/pixel"
	"github.com/Lexer747/fits-examine/utils/atomic"
	"github.com/Lexer747/fits-examine/utils/errors"
	"github.com/Lexer747/fits-examine/utils/numeric"
)

// Examine runs analysis routines. Construct with [New], the zero value is not usable.
type Examine struct {
	Params *Params

	out      io.Writer
	plots    *PlotSink
	bindings map[rune]Binding
	// source is set by the interactive loop's goroutine and read by whichever thread runs the analysis
	source atomic.Of[fitsfile.Designation]
}

// SetSource records which file the pixels handed to [Examine.Dispatch] came from, so artefacts like
// cutouts can name their parent image. An empty designation is fine for in-memory arrays.
func (e *Examine) SetSource(d fitsfile.Designation) {
	e.source.Set(d)
}

type Option func(*Examine)

// WithOutput redirects the human readable result lines, default stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Examine) { e.out = w }
}

// WithParams starts from an existing parameter set instead of the defaults.
func WithParams(p *Params) Option {
	return func(e *Examine) { e.Params = p }
}

// WithPlotDir places the rendered plot files, default the working directory.
func WithPlotDir(dir string) Option {
	return func(e *Examine) { e.plots = NewPlotSink(dir) }
}

func New(opts ...Option) *Examine {
	e := &Examine{
		Params:   DefaultParams(),
		out:      os.Stdout,
		plots:    NewPlotSink("."),
		bindings: map[rune]Binding{},
		source:   atomic.New[fitsfile.Designation](),
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, b := range builtinBindings() {
		e.bindings[b.Key] = b
	}
	return e
}

// Binding ties a keystroke to an analysis routine.
type Binding struct {
	Key         rune
	Description string
	// Run receives the displayed pixels and the 1-based image coordinates of the cursor.
	Run func(ctx context.Context, e *Examine, grid *pixel.Grid, x, y float64) error
}

// reserved keys can never be rebound: q ends the session and 2 moves plotting to a fresh window, both
// belong to the loop itself rather than to any routine.
var reserved = map[rune]string{
	'q': "quit",
	'2': "new plot window",
}

// ErrUnknownKey reports a keystroke with no binding, the interactive loop warns and keeps going.
var ErrUnknownKey = errors.New("no analysis bound to that key")

// Register adds a custom binding. Reserved keys and keys already in the table are rejected, use
// [Examine.Unbind] first to replace a built in.
func (e *Examine) Register(b Binding) error {
	if why, ok := reserved[b.Key]; ok {
		return errors.Errorf("key %q is reserved for %s", b.Key, why)
	}
	if existing, ok := e.bindings[b.Key]; ok {
		return errors.Errorf("key %q already bound to %q", b.Key, existing.Description)
	}
	if b.Run == nil {
		return errors.Errorf("binding for %q has no routine", b.Key)
	}
	e.bindings[b.Key] = b
	return nil
}

// Unbind removes a key from the table.
func (e *Examine) Unbind(key rune) {
	delete(e.bindings, key)
}

// Bindings lists the current table in key order, for help output.
func (e *Examine) Bindings() []Binding {
	out := make([]Binding, 0, len(e.bindings))
	for _, b := range e.bindings {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b Binding) int { return int(a.Key) - int(b.Key) })
	return out
}

// Dispatch runs the routine bound to [key] against the cursor position. Unknown keys return
// [ErrUnknownKey] so the caller can warn without stopping the session.
func (e *Examine) Dispatch(ctx context.Context, key rune, grid *pixel.Grid, x, y float64) error {
	b, ok := e.bindings[key]
	if !ok {
		return ErrUnknownKey
	}
	slog.Debug("dispatching analysis", "key", string(key), "routine", b.Description, "x", x, "y", y)
	return b.Run(ctx, e, grid, x, y)
}

// NewPlotWindow rotates plotting onto a fresh output file, the reserved 2 key of the session loop.
func (e *Examine) NewPlotWindow() int {
	return e.plots.NewWindow()
}

// LastPlot is the most recently rendered plot file, empty before any plot.
// SetPlotName renames the file family plots render into, default "examine".
func (e *Examine) SetPlotName(base string) {
	e.plots.SetBase(base)
}

func (e *Examine) PlotName() string {
	return e.plots.Base()
}

func (e *Examine) LastPlot() string {
	return e.plots.Current()
}

func (e *Examine) printf(format string, args ...any) {
	fmt.Fprintf(e.out, format+"\n", args...)
}

// index converts a 1-based image coordinate from the viewer into a 0-based clamped pixel index.
func index(grid *pixel.Grid, x, y float64) pixel.Point {
	return pixel.Point{
		X: numeric.Clamp(int(x+0.5)-1, 0, grid.Width()-1),
		Y: numeric.Clamp(int(y+0.5)-1, 0, grid.Height()-1),
	}
}

func builtinBindings() []Binding {
	return []Binding{
		{Key: 'a', Description: "aperture photometry", Run: runAperPhot},
		{Key: 'b', Description: "2D Gaussian centring", Run: runCentroid},
		{Key: 'c', Description: "column plot", Run: runColumnPlot},
		{Key: 'e', Description: "contour plot around cursor", Run: runContour},
		{Key: 'g', Description: "curve of growth", Run: runCurveOfGrowth},
		{Key: 'h', Description: "histogram around cursor", Run: runHistogram},
		{Key: 'j', Description: "1D profile fit along the line", Run: runLineFit},
		{Key: 'k', Description: "1D profile fit along the column", Run: runColumnFit},
		{Key: 'l', Description: "line plot", Run: runLinePlot},
		{Key: 'm', Description: "statistic of the region around cursor", Run: runRegionStat},
		{Key: 'r', Description: "radial profile", Run: runRadialProfile},
		{Key: 's', Description: "keep the current plot file", Run: runKeepPlot},
		{Key: 't', Description: "save a FITS cutout around cursor", Run: runCutout},
		{Key: 'w', Description: "heat map around cursor", Run: runHeatMap},
		{Key: 'x', Description: "pixel readout", Run: runReadout},
		{Key: 'y', Description: "pixel readout", Run: runReadout},
	}
}
