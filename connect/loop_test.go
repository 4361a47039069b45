// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package connect_test

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Lexer747/fits-examine/connect"
	"github.com/Lexer747/fits-examine/examine"
	"github.com/Lexer747/fits-examine/fitsfile"
	"github.com/Lexer747/fits-examine/fitting"
	"github.com/Lexer747/fits-examine/pixel"
	"github.com/Lexer747/fits-examine/terminal"
	"github.com/Lexer747/fits-examine/utils/errors"
	"github.com/Lexer747/fits-examine/utils/th"
	"github.com/Lexer747/fits-examine/viewer"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

// fakeViewer scripts a display session: ReadCursor pops the queued events, everything else records calls
// against a synthetic star image.
type fakeViewer struct {
	events []viewer.Event
	next   int

	grid      *pixel.Grid
	frameData int
	loads     []string
	regions   []string
	cursorX   float64
	cursorY   float64
	plane     int
	noQueue   bool
	empty     bool
}

var _ viewer.Viewer = (*fakeViewer)(nil)

func newFakeViewer(events ...viewer.Event) *fakeViewer {
	star := fitting.Gaussian2D{Amplitude: 500, X: 63, Y: 57, StddevX: 2, StddevY: 2, Constant: 100}
	g := pixel.NewGrid(128, 128)
	for y := range 128 {
		for x := range 128 {
			g.Set(x, y, star.Eval(float64(x), float64(y)))
		}
	}
	return &fakeViewer{events: events, grid: g}
}

func (f *fakeViewer) Load(_ context.Context, d fitsfile.Designation) error {
	f.loads = append(f.loads, d.String())
	return nil
}
func (f *fakeViewer) ViewGrid(_ context.Context, g *pixel.Grid) error { f.grid = g; return nil }
func (f *fakeViewer) Frame(context.Context) (int, error)              { return 1, nil }
func (f *fakeViewer) SetFrame(context.Context, int) error             { return nil }
func (f *fakeViewer) NewFrame(context.Context) error                  { return nil }
func (f *fakeViewer) CubePlane(context.Context) (int, error)          { return f.plane, nil }

func (f *fakeViewer) FrameData(context.Context) (*viewer.FrameInfo, error) {
	if f.empty {
		return nil, errors.Errorf("frame 1 displays no file")
	}
	f.frameData++
	return &viewer.FrameInfo{
		Info: fitsfile.Info{Designation: fitsfile.Designation{Path: "star.fits", Ext: -1}},
		Grid: f.grid,
	}, nil
}

func (f *fakeViewer) ReadCursor(ctx context.Context) (viewer.Event, error) {
	if f.noQueue {
		return viewer.Event{}, viewer.ErrNoCursorQueue
	}
	if f.next >= len(f.events) {
		<-ctx.Done()
		return viewer.Event{}, context.Cause(ctx)
	}
	event := f.events[f.next]
	f.next++
	return event, nil
}

func (f *fakeViewer) CursorPosition(context.Context) (float64, float64, error) {
	return f.cursorX, f.cursorY, nil
}

func (f *fakeViewer) Pan(context.Context, float64, float64) error       { return nil }
func (f *fakeViewer) Zoom(context.Context, string) error                { return nil }
func (f *fakeViewer) Scale(context.Context, string) error               { return nil }
func (f *fakeViewer) ColorMap(context.Context, string) error            { return nil }
func (f *fakeViewer) Rotate(context.Context, float64) error             { return nil }
func (f *fakeViewer) Blink(context.Context, bool) error                 { return nil }
func (f *fakeViewer) Crosshair(context.Context, float64, float64) error { return nil }
func (f *fakeViewer) CoordinateGrid(context.Context, bool) error        { return nil }
func (f *fakeViewer) Snapshot(_ context.Context, p string) (string, error) {
	return p, nil
}
func (f *fakeViewer) NaNColor(context.Context, string) error { return nil }
func (f *fakeViewer) Colorbar(context.Context, bool) error   { return nil }
func (f *fakeViewer) Contour(context.Context, bool) error    { return nil }
func (f *fakeViewer) PixelTable(context.Context, bool) error { return nil }

func (f *fakeViewer) Regions(context.Context) (string, error) {
	return strings.Join(f.regions, ""), nil
}

func (f *fakeViewer) AddRegions(_ context.Context, spec string) error {
	f.regions = append(f.regions, spec)
	return nil
}
func (f *fakeViewer) Match(context.Context, string) error  { return nil }
func (f *fakeViewer) AlignWCS(context.Context, bool) error { return nil }
func (f *fakeViewer) Hide(context.Context) error           { return nil }
func (f *fakeViewer) Show(context.Context) error           { return nil }

func (f *fakeViewer) Close(context.Context) error { return nil }

func newTestConnect(t *testing.T, fake *fakeViewer, term *terminal.Terminal) (*connect.Connect, *strings.Builder) {
	t.Helper()
	var out strings.Builder
	engine := examine.New(examine.WithOutput(&out), examine.WithPlotDir(t.TempDir()))
	c, err := connect.New(connect.Options{Viewer: fake, Engine: engine, Output: &out, Terminal: term})
	assert.NilError(t, err)
	return c, &out
}

func TestExamineLoop(t *testing.T) {
	t.Parallel()
	th.TestWithTimeout(t, 30*time.Second, func() {
		fake := newFakeViewer(
			viewer.Event{Key: 'x', X: 64, Y: 58},
			viewer.Event{Key: '@', X: 64, Y: 58},
			viewer.Event{Key: 'm', X: 64, Y: 58},
			viewer.Event{Key: 'q'},
		)
		c, out := newTestConnect(t, fake, nil)
		assert.NilError(t, c.Examine(context.Background()))

		text := out.String()
		assert.Check(t, is.Contains(text, "not bound"), "unknown keys warn")
		assert.Check(t, is.Contains(text, "median of"), "m ran the region statistic")
		assert.Check(t, is.Contains(text, "session ended"))
		// described once up front then re-described before every dispatch so frame and cube changes
		// between keys are always picked up, only q skips it
		assert.Check(t, is.Equal(4, fake.frameData))
	})
}

func TestExamineEmptyDisplay(t *testing.T) {
	t.Parallel()
	fake := newFakeViewer(viewer.Event{Key: 'q'})
	fake.empty = true
	c, _ := newTestConnect(t, fake, nil)
	err := c.Examine(context.Background())
	assert.ErrorContains(t, err, "empty display")
}

func TestExamineNewPlotWindowKey(t *testing.T) {
	t.Parallel()
	th.TestWithTimeout(t, 30*time.Second, func() {
		fake := newFakeViewer(
			viewer.Event{Key: 'l', X: 64, Y: 58},
			viewer.Event{Key: '2'},
			viewer.Event{Key: 'l', X: 64, Y: 58},
			viewer.Event{Key: 'q'},
		)
		c, out := newTestConnect(t, fake, nil)
		assert.NilError(t, c.Examine(context.Background()))
		assert.Check(t, is.Contains(out.String(), "plotting to window 2"))
		assert.Check(t, is.Contains(out.String(), "examine-window-2.png"))
	})
}

func TestExamineTerminalFallback(t *testing.T) {
	t.Parallel()
	th.TestWithTimeout(t, 30*time.Second, func() {
		fake := newFakeViewer()
		fake.noQueue = true
		fake.cursorX, fake.cursorY = 64, 58

		// the stdin pipe stays open for the whole test, the loop ends via the q press
		stdinReader, stdinWriter := io.Pipe()
		var termOut strings.Builder
		term, err := terminal.NewTestTerminal(stdinReader, &termOut, func() terminal.Size {
			return terminal.Size{Height: 24, Width: 80}
		})
		assert.NilError(t, err)

		c, out := newTestConnect(t, fake, term)
		go func() {
			_, _ = stdinWriter.Write([]byte("x"))
			_, _ = stdinWriter.Write([]byte("q"))
		}()
		assert.NilError(t, c.Examine(context.Background()))
		assert.Check(t, is.Contains(out.String(), "session ended"))
	})
}

func TestExamineTerminalFallbackNeedsTerminal(t *testing.T) {
	t.Parallel()
	fake := newFakeViewer()
	fake.noQueue = true
	c, _ := newTestConnect(t, fake, nil)
	err := c.Examine(context.Background())
	assert.ErrorContains(t, err, "needs a terminal")
}

func TestFacadeDelegation(t *testing.T) {
	t.Parallel()
	fake := newFakeViewer()
	c, _ := newTestConnect(t, fake, nil)
	ctx := context.Background()

	assert.NilError(t, c.Load(ctx, "image.fits[SCI,1]"))
	assert.Check(t, is.DeepEqual([]string{"image.fits[SCI,1]"}, fake.loads))

	grid, err := c.GetData(ctx)
	assert.NilError(t, err)
	assert.Check(t, is.Equal(128, grid.Width()))

	frame, err := c.Frame(ctx)
	assert.NilError(t, err)
	assert.Check(t, is.Equal(1, frame))

	fake.plane = 2
	plane, err := c.CubePlane(ctx)
	assert.NilError(t, err)
	assert.Check(t, is.Equal(2, plane))

	c.Engine().Params.AperPhot.Radius = 11
	c.Unlearn()
	assert.Check(t, is.Equal(5.0, c.Engine().Params.AperPhot.Radius))
}

func TestFacadeRegions(t *testing.T) {
	t.Parallel()
	fake := newFakeViewer()
	c, _ := newTestConnect(t, fake, nil)
	ctx := context.Background()

	// region strings always go over the wire newline terminated
	assert.NilError(t, c.AddRegions(ctx, "image; circle 10 10 5"))
	assert.Check(t, is.Equal("image; circle 10 10 5\n", fake.regions[0]))

	assert.NilError(t, c.MarkPoints(ctx, []viewer.RegionMark{{X: 64, Y: 58, Label: "star"}}, 4))
	assert.Check(t, is.Contains(fake.regions[1], "circle 64 58 4"))
	assert.Check(t, is.Contains(fake.regions[1], "text={star}"))

	saved := filepath.Join(t.TempDir(), "marks.reg")
	assert.NilError(t, c.SaveRegions(ctx, saved))
	// a second save must refuse to clobber the first
	assert.Check(t, c.SaveRegions(ctx, saved) != nil)
}
