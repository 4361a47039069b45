// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package ds9

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Lexer747/fits-examine/fitsfile"
	"github.com/Lexer747/fits-examine/pixel"
	"github.com/Lexer747/fits-examine/utils/errors"
	"github.com/Lexer747/fits-examine/viewer"
)

// Load displays the designated image in the current frame. DS9 understands the same bracket suffix syntax
// as [fitsfile.ParseDesignation] so the designation passes through on the wire unchanged.
func (d *DS9) Load(ctx context.Context, des fitsfile.Designation) error {
	if err := d.client.Set(ctx, nil, "file", "fits", des.String()); err != nil {
		return errors.Wrapf(err, "failed to display %q", des.String())
	}
	frame, err := d.Frame(ctx)
	if err != nil {
		return err
	}
	d.cache.Invalidate(frame)
	return nil
}

// ViewGrid pushes an in-memory array into the current frame using DS9's raw array form. The samples go
// over the wire as big-endian float64 with a shape descriptor in the command.
func (d *DS9) ViewGrid(ctx context.Context, grid *pixel.Grid) error {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, grid.Values()); err != nil {
		return errors.Wrap(err, "failed to serialise array")
	}
	shape := fmt.Sprintf("array [xdim=%d,ydim=%d,bitpix=-64,arch=bigendian]", grid.Width(), grid.Height())
	if err := d.client.Set(ctx, buf.Bytes(), shape); err != nil {
		return errors.Wrap(err, "failed to display array")
	}
	frame, err := d.Frame(ctx)
	if err != nil {
		return err
	}
	d.cache.Store(frame, &viewer.FrameInfo{
		Info:      fitsfile.Info{Axes: []int{grid.Width(), grid.Height()}},
		Grid:      grid,
		UserArray: true,
	})
	return nil
}

func (d *DS9) Frame(ctx context.Context) (int, error) {
	out, err := d.client.Get(ctx, "frame")
	if err != nil {
		return 0, errors.Wrap(err, "failed to read current frame")
	}
	frame, err := strconv.Atoi(out)
	if err != nil {
		return 0, errors.Wrapf(err, "unexpected frame reply %q", out)
	}
	return frame, nil
}

func (d *DS9) SetFrame(ctx context.Context, frame int) error {
	return errors.Wrapf(d.client.Set(ctx, nil, "frame", strconv.Itoa(frame)), "failed to select frame %d", frame)
}

func (d *DS9) NewFrame(ctx context.Context) error {
	return errors.Wrap(d.client.Set(ctx, nil, "frame", "new"), "failed to create frame")
}

// CubePlane reports the 0-based plane a cube frame currently displays.
func (d *DS9) CubePlane(ctx context.Context) (int, error) {
	out, err := d.client.Get(ctx, "cube")
	if err != nil {
		return 0, errors.Wrap(err, "failed to read cube plane")
	}
	plane, err := strconv.Atoi(out)
	if err != nil {
		return 0, errors.Wrapf(err, "unexpected cube reply %q", out)
	}
	// DS9 numbers planes from 1.
	return plane - 1, nil
}

// FrameData describes the current frame, loading and caching the pixel data on first sight. The cache key
// includes nothing volatile, a frame's entry is only replaced when DS9 reports different content.
func (d *DS9) FrameData(ctx context.Context) (*viewer.FrameInfo, error) {
	frame, err := d.Frame(ctx)
	if err != nil {
		return nil, err
	}
	reply, err := d.client.Get(ctx, "file")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read frame contents")
	}
	des, err := ParseFileReply(reply)
	if err != nil {
		return nil, err
	}
	if des.Path == "" {
		// an array push or an empty frame, the cache is all we have
		if cached := d.cache.Lookup(frame); cached != nil {
			return cached, nil
		}
		return nil, errors.Errorf("frame %d displays no file", frame)
	}
	if cached := d.cache.Lookup(frame); cached != nil && !cached.UserArray && cached.Info.Designation == des {
		return cached, nil
	}

	slog.Debug("loading frame contents", "frame", frame, "designation", des.String())
	img, err := fitsfile.Load(des)
	if err != nil {
		return nil, errors.Wrapf(err, "frame %d", frame)
	}
	info := &viewer.FrameInfo{Info: img.Info, Grid: img.Grid}
	d.cache.Store(frame, info)
	return info, nil
}
