// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

// viewer defines the contract every display backend satisfies. The rest of the program only ever talks to
// this interface, which display program is actually drawing pixels is a construction time decision.
package viewer

import (
	"context"

	"github.com/Lexer747/fits-examine/fitsfile"
	"github.com/Lexer747/fits-examine/pixel"
	"github.com/Lexer747/fits-examine/utils/errors"
)

// ErrUnsupported is returned by operations a given backend has no equivalent for, callers treat it as a
// warning rather than a failure.
var ErrUnsupported = errors.New("operation not supported by this viewer")

// ErrNoCursorQueue is returned by [Viewer.ReadCursor] on backends which cannot block on a server side
// cursor event, the caller then drives keys from its own terminal instead.
var ErrNoCursorQueue = errors.New("viewer has no blocking cursor read")

// Event is one keystroke of the interactive loop, the key pressed plus where the cursor sat in 1-based
// image coordinates at that moment.
type Event struct {
	Key  rune
	X, Y float64
}

// Viewer is a running display program under remote control.
type Viewer interface {
	// Load displays the designated FITS image in the current frame.
	Load(ctx context.Context, d fitsfile.Designation) error
	// ViewGrid pushes an in-memory array into the current frame.
	ViewGrid(ctx context.Context, grid *pixel.Grid) error

	// Frame reports the currently selected frame number, frames are numbered from 1.
	Frame(ctx context.Context) (int, error)
	// SetFrame selects an existing frame, or with [NextFrame] and [NewFrame] cycles and creates.
	SetFrame(ctx context.Context, frame int) error
	NewFrame(ctx context.Context) error

	// FrameData describes what the current frame displays, served from the frame cache, see [Cache].
	FrameData(ctx context.Context) (*FrameInfo, error)
	// CubePlane reports which plane of a cube the frame currently shows, 0 for 2D images.
	CubePlane(ctx context.Context) (int, error)

	// ReadCursor blocks until the user presses a key over the display, returning that event. Backends
	// without a server side event queue return [ErrNoCursorQueue] and the caller falls back to reading
	// its own terminal, pairing each key with [CursorPosition].
	ReadCursor(ctx context.Context) (Event, error)
	// CursorPosition reports where the cursor currently sits over the image.
	CursorPosition(ctx context.Context) (x, y float64, err error)

	// Display parameters.
	Pan(ctx context.Context, x, y float64) error
	Zoom(ctx context.Context, level string) error
	Scale(ctx context.Context, algorithm string) error
	ColorMap(ctx context.Context, name string) error
	Rotate(ctx context.Context, degrees float64) error
	Blink(ctx context.Context, enable bool) error
	Crosshair(ctx context.Context, x, y float64) error
	CoordinateGrid(ctx context.Context, enable bool) error
	NaNColor(ctx context.Context, colour string) error
	Colorbar(ctx context.Context, enable bool) error
	Contour(ctx context.Context, enable bool) error
	PixelTable(ctx context.Context, enable bool) error

	// Regions reports the marks currently drawn over the image, in the backend's own region syntax.
	Regions(ctx context.Context) (string, error)
	// AddRegions draws the given region marks, the string must already be newline terminated.
	AddRegions(ctx context.Context, spec string) error

	// Match aligns every frame to the current one by the given coordinate system, "wcs" or "image".
	Match(ctx context.Context, coords string) error
	// AlignWCS toggles aligning the displayed image to the world coordinate axes.
	AlignWCS(ctx context.Context, enable bool) error

	// Hide and Show drop the display window behind other windows and raise it back.
	Hide(ctx context.Context) error
	Show(ctx context.Context) error

	// Snapshot saves the viewer's current display to an image file, returning the file written.
	Snapshot(ctx context.Context, path string) (string, error)

	// Close disconnects, terminating the display program only if this process started it.
	Close(ctx context.Context) error
}
