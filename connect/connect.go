// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

// connect is the top level façade: one value tying a display backend to the analysis engine, with the
// interactive examine loop on top. Scripted use calls the same methods the loop does, there is no separate
// API for automation.
package connect

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/Lexer747/fits-examine/examine"
	"github.com/Lexer747/fits-examine/fitsfile"
	"github.com/Lexer747/fits-examine/pixel"
	"github.com/Lexer747/fits-examine/terminal"
	"github.com/Lexer747/fits-examine/utils/errors"
	"github.com/Lexer747/fits-examine/viewer"
)

type Connect struct {
	viewer viewer.Viewer
	engine *examine.Examine
	out    io.Writer
	// term feeds keystrokes when the backend has no cursor queue of its own, see [Connect.Examine]
	term *terminal.Terminal
}

type Options struct {
	// Viewer is the display backend, required.
	Viewer viewer.Viewer
	// Engine runs the analysis, a default engine is built when nil.
	Engine *examine.Examine
	// Output receives the interactive result lines, default stdout.
	Output io.Writer
	// Terminal supplies local keystrokes for backends without a cursor queue, optional otherwise.
	Terminal *terminal.Terminal
}

func New(opts Options) (*Connect, error) {
	if opts.Viewer == nil {
		return nil, errors.Errorf("a viewer is required")
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	engine := opts.Engine
	if engine == nil {
		engine = examine.New(examine.WithOutput(out))
	}
	return &Connect{viewer: opts.Viewer, engine: engine, out: out, term: opts.Terminal}, nil
}

// Engine exposes the analysis engine for parameter changes and custom key registration.
func (c *Connect) Engine() *examine.Examine { return c.engine }

// Viewer exposes the raw backend for operations the façade does not wrap.
func (c *Connect) Viewer() viewer.Viewer { return c.viewer }

// Load displays a file, the designation syntax of [fitsfile.ParseDesignation].
func (c *Connect) Load(ctx context.Context, name string) error {
	d, err := fitsfile.ParseDesignation(name)
	if err != nil {
		return err
	}
	return c.viewer.Load(ctx, d)
}

// View pushes an in-memory array into the display.
func (c *Connect) View(ctx context.Context, grid *pixel.Grid) error {
	return c.viewer.ViewGrid(ctx, grid)
}

// GetData returns the pixels of the current frame.
func (c *Connect) GetData(ctx context.Context) (*pixel.Grid, error) {
	info, err := c.viewer.FrameData(ctx)
	if err != nil {
		return nil, err
	}
	return info.Grid, nil
}

// GetHeader returns the full FITS header text of the current frame.
func (c *Connect) GetHeader(ctx context.Context) (string, error) {
	info, err := c.viewer.FrameData(ctx)
	if err != nil {
		return "", err
	}
	if info.UserArray {
		return "", errors.Errorf("the current frame displays an array, arrays have no header")
	}
	return fitsfile.HeaderText(info.Designation)
}

// Unlearn resets every analysis parameter to its default.
func (c *Connect) Unlearn() {
	c.engine.Params.Unlearn()
}

// Pass-through display control, see [viewer.Viewer].

func (c *Connect) Frame(ctx context.Context) (int, error)       { return c.viewer.Frame(ctx) }
func (c *Connect) CubePlane(ctx context.Context) (int, error)   { return c.viewer.CubePlane(ctx) }
func (c *Connect) SetFrame(ctx context.Context, n int) error    { return c.viewer.SetFrame(ctx, n) }
func (c *Connect) NewFrame(ctx context.Context) error           { return c.viewer.NewFrame(ctx) }
func (c *Connect) Pan(ctx context.Context, x, y float64) error  { return c.viewer.Pan(ctx, x, y) }
func (c *Connect) Zoom(ctx context.Context, level string) error { return c.viewer.Zoom(ctx, level) }
func (c *Connect) ZoomToFit(ctx context.Context) error          { return c.viewer.Zoom(ctx, "to fit") }
func (c *Connect) Scale(ctx context.Context, alg string) error  { return c.viewer.Scale(ctx, alg) }
func (c *Connect) ColorMap(ctx context.Context, n string) error { return c.viewer.ColorMap(ctx, n) }
func (c *Connect) Rotate(ctx context.Context, deg float64) error {
	return c.viewer.Rotate(ctx, deg)
}
func (c *Connect) Blink(ctx context.Context, enable bool) error { return c.viewer.Blink(ctx, enable) }
func (c *Connect) Crosshair(ctx context.Context, x, y float64) error {
	return c.viewer.Crosshair(ctx, x, y)
}
func (c *Connect) CoordinateGrid(ctx context.Context, enable bool) error {
	return c.viewer.CoordinateGrid(ctx, enable)
}
func (c *Connect) Snapshot(ctx context.Context, path string) (string, error) {
	return c.viewer.Snapshot(ctx, path)
}
func (c *Connect) CursorPosition(ctx context.Context) (x, y float64, err error) {
	return c.viewer.CursorPosition(ctx)
}
func (c *Connect) NaNColor(ctx context.Context, colour string) error {
	return c.viewer.NaNColor(ctx, colour)
}
func (c *Connect) Colorbar(ctx context.Context, enable bool) error {
	return c.viewer.Colorbar(ctx, enable)
}
func (c *Connect) Contour(ctx context.Context, enable bool) error {
	return c.viewer.Contour(ctx, enable)
}
func (c *Connect) PixelTable(ctx context.Context, enable bool) error {
	return c.viewer.PixelTable(ctx, enable)
}
func (c *Connect) Match(ctx context.Context, coords string) error {
	return c.viewer.Match(ctx, coords)
}
func (c *Connect) AlignWCS(ctx context.Context, enable bool) error {
	return c.viewer.AlignWCS(ctx, enable)
}
func (c *Connect) Hide(ctx context.Context) error { return c.viewer.Hide(ctx) }
func (c *Connect) Show(ctx context.Context) error { return c.viewer.Show(ctx) }

// Regions reports the marks drawn over the image in the viewer's region syntax.
func (c *Connect) Regions(ctx context.Context) (string, error) {
	return c.viewer.Regions(ctx)
}

// AddRegions draws region marks, see [viewer.FormatRegions] for building the string from points.
func (c *Connect) AddRegions(ctx context.Context, spec string) error {
	if !strings.HasSuffix(spec, "\n") {
		spec += "\n"
	}
	return c.viewer.AddRegions(ctx, spec)
}

// MarkPoints draws a labelled circle at each point.
func (c *Connect) MarkPoints(ctx context.Context, marks []viewer.RegionMark, radius int) error {
	return c.AddRegions(ctx, viewer.FormatRegions(marks, radius))
}

// SaveRegions writes the marks currently drawn over the image to a new file, never clobbering.
func (c *Connect) SaveRegions(ctx context.Context, path string) error {
	spec, err := c.viewer.Regions(ctx)
	if err != nil {
		return err
	}
	return viewer.WriteRegionFile(path, spec)
}

// SaveHeader writes the current frame's FITS header text to a new file, never clobbering.
func (c *Connect) SaveHeader(ctx context.Context, path string) error {
	header, err := c.GetHeader(ctx)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(header); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Close disconnects from the viewer.
func (c *Connect) Close(ctx context.Context) error {
	return c.viewer.Close(ctx)
}
