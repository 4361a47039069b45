// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

// ginga talks to the ginga HTML5 viewer through its remote control socket, a line oriented TCP protocol.
// ginga has no server side keystroke queue the way DS9 does, so [Ginga.ReadCursor] reports
// [viewer.ErrNoCursorQueue] and the interactive loop reads keys from its own terminal instead, pairing
// each one with [Ginga.CursorPosition].
package ginga

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Lexer747/fits-examine/fitsfile"
	"github.com/Lexer747/fits-examine/pixel"
	"github.com/Lexer747/fits-examine/utils/errors"
	"github.com/Lexer747/fits-examine/viewer"
)

const DefaultAddr = "localhost:9000"

type Ginga struct {
	conn  *conn
	cache *viewer.Cache

	mu sync.Mutex
	// ginga displays one channel at a time for our purposes, everything lives in frame 1
	current fitsfile.Designation
	loaded  bool

	// scratch dir for array pushes, the socket protocol has no raw pixel upload
	scratch string
}

var _ viewer.Viewer = (*Ginga)(nil)

// Dial connects to a running ginga's remote control socket.
func Dial(ctx context.Context, addr string) (*Ginga, error) {
	if addr == "" {
		addr = DefaultAddr
	}
	var d net.Dialer
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "no ginga remote control at %q", addr)
	}
	return &Ginga{conn: newNetConn(c), cache: viewer.NewCache()}, nil
}

func (g *Ginga) Load(ctx context.Context, des fitsfile.Designation) error {
	_, err := g.conn.roundTrip(ctx, "load", des.String())
	if err != nil {
		return errors.Wrapf(err, "failed to display %q", des.String())
	}
	g.mu.Lock()
	g.current = des
	g.loaded = true
	g.mu.Unlock()
	g.cache.Invalidate(1)
	return nil
}

// ViewGrid writes the array to a scratch FITS file and loads that, the remote control protocol has no raw
// pixel channel.
func (g *Ginga) ViewGrid(ctx context.Context, grid *pixel.Grid) error {
	g.mu.Lock()
	if g.scratch == "" {
		dir, err := os.MkdirTemp("", "examine-ginga-")
		if err != nil {
			g.mu.Unlock()
			return errors.Wrap(err, "cannot create scratch directory")
		}
		g.scratch = dir
	}
	path := filepath.Join(g.scratch, "array-"+strconv.FormatInt(time.Now().UnixNano(), 36)+".fits")
	g.mu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "cannot write scratch array")
	}
	writeErr := fitsfile.WriteGrid(f, grid, fitsfile.Designation{Path: "memory", Ext: -1})
	if err := errors.Join(writeErr, f.Close()); err != nil {
		return errors.Wrap(err, "cannot write scratch array")
	}
	if err := g.Load(ctx, fitsfile.Designation{Path: path, Ext: -1}); err != nil {
		return err
	}
	g.cache.Store(1, &viewer.FrameInfo{
		Info:      fitsfile.Info{Axes: []int{grid.Width(), grid.Height()}},
		Grid:      grid,
		UserArray: true,
	})
	return nil
}

// Frame is always 1, ginga's channels do not map onto DS9 style frame cycling.
func (g *Ginga) Frame(ctx context.Context) (int, error) { return 1, nil }

func (g *Ginga) SetFrame(ctx context.Context, frame int) error {
	if frame != 1 {
		return viewer.ErrUnsupported
	}
	return nil
}

func (g *Ginga) NewFrame(ctx context.Context) error { return viewer.ErrUnsupported }

func (g *Ginga) CubePlane(ctx context.Context) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current.Plane, nil
}

func (g *Ginga) FrameData(ctx context.Context) (*viewer.FrameInfo, error) {
	if cached := g.cache.Lookup(1); cached != nil {
		return cached, nil
	}
	g.mu.Lock()
	des, loaded := g.current, g.loaded
	g.mu.Unlock()
	if !loaded {
		return nil, errors.Errorf("nothing displayed yet")
	}
	img, err := fitsfile.Load(des)
	if err != nil {
		return nil, err
	}
	info := &viewer.FrameInfo{Info: img.Info, Grid: img.Grid}
	g.cache.Store(1, info)
	return info, nil
}

func (g *Ginga) ReadCursor(ctx context.Context) (viewer.Event, error) {
	return viewer.Event{}, viewer.ErrNoCursorQueue
}

// CursorPosition asks ginga where the cursor last sat over the channel viewer.
func (g *Ginga) CursorPosition(ctx context.Context) (x, y float64, err error) {
	payload, err := g.conn.roundTrip(ctx, "get", "cursor")
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to read cursor")
	}
	fields := strings.Fields(payload)
	if len(fields) != 2 {
		return 0, 0, errors.Errorf("unexpected cursor reply %q", payload)
	}
	x, xErr := strconv.ParseFloat(fields[0], 64)
	y, yErr := strconv.ParseFloat(fields[1], 64)
	if xErr != nil || yErr != nil {
		return 0, 0, errors.Errorf("unexpected cursor reply %q", payload)
	}
	return x, y, nil
}

func (g *Ginga) Pan(ctx context.Context, x, y float64) error {
	_, err := g.conn.roundTrip(ctx, "pan", formatCoord(x), formatCoord(y))
	return errors.Wrapf(err, "failed to pan to (%g, %g)", x, y)
}

func (g *Ginga) Zoom(ctx context.Context, level string) error {
	if level == "to fit" {
		_, err := g.conn.roundTrip(ctx, "zoom", "fit")
		return errors.Wrap(err, "failed to zoom")
	}
	_, err := g.conn.roundTrip(ctx, "zoom", level)
	return errors.Wrapf(err, "failed to zoom to %q", level)
}

func (g *Ginga) Scale(ctx context.Context, algorithm string) error {
	_, err := g.conn.roundTrip(ctx, "scale", algorithm)
	return errors.Wrapf(err, "failed to set scale %q", algorithm)
}

func (g *Ginga) ColorMap(ctx context.Context, name string) error {
	_, err := g.conn.roundTrip(ctx, "cmap", name)
	return errors.Wrapf(err, "failed to set colour map %q", name)
}

func (g *Ginga) Rotate(ctx context.Context, degrees float64) error {
	_, err := g.conn.roundTrip(ctx, "rotate", formatCoord(degrees))
	return errors.Wrapf(err, "failed to rotate to %g", degrees)
}

func (g *Ginga) Blink(context.Context, bool) error { return viewer.ErrUnsupported }

func (g *Ginga) Crosshair(context.Context, float64, float64) error { return viewer.ErrUnsupported }

func (g *Ginga) CoordinateGrid(context.Context, bool) error { return viewer.ErrUnsupported }

// The remote control channel draws pixels only, no markers, window furniture or frame matching.

func (g *Ginga) NaNColor(context.Context, string) error   { return viewer.ErrUnsupported }
func (g *Ginga) Colorbar(context.Context, bool) error     { return viewer.ErrUnsupported }
func (g *Ginga) Contour(context.Context, bool) error      { return viewer.ErrUnsupported }
func (g *Ginga) PixelTable(context.Context, bool) error   { return viewer.ErrUnsupported }
func (g *Ginga) Regions(context.Context) (string, error)  { return "", viewer.ErrUnsupported }
func (g *Ginga) AddRegions(context.Context, string) error { return viewer.ErrUnsupported }
func (g *Ginga) Match(context.Context, string) error      { return viewer.ErrUnsupported }
func (g *Ginga) AlignWCS(context.Context, bool) error     { return viewer.ErrUnsupported }
func (g *Ginga) Hide(context.Context) error               { return viewer.ErrUnsupported }
func (g *Ginga) Show(context.Context) error               { return viewer.ErrUnsupported }

func (g *Ginga) Snapshot(ctx context.Context, path string) (string, error) {
	_, err := g.conn.roundTrip(ctx, "snap", path)
	return path, errors.Wrapf(err, "failed to save display to %q", path)
}

func (g *Ginga) Close(ctx context.Context) error {
	g.mu.Lock()
	if g.scratch != "" {
		_ = os.RemoveAll(g.scratch)
	}
	g.mu.Unlock()
	return errors.Wrap(g.conn.close(), "while closing ginga connection")
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
