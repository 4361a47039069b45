// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package ds9

import (
	"context"
	"strconv"
	"strings"

	"github.com/Lexer747/fits-examine/fitsfile"
	"github.com/Lexer747/fits-examine/utils/errors"
	"github.com/Lexer747/fits-examine/viewer"
)

// ParseFileReply turns DS9's `file` reply into a designation. The reply is the path as loaded, possibly
// with a bracket suffix, and for a displayed cube DS9 appends the slice in the form `[plane=z]` or
// `[plane=z:w]` where z counts from 1:
//
//	/data/image.fits
//	/data/image.fits[SCI,2]
//	/data/cube.fits[plane=3]
//	{/data/spaced out name.fits}
func ParseFileReply(reply string) (fitsfile.Designation, error) {
	s := strings.TrimSpace(reply)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	plane := 0
	if open := strings.LastIndex(s, "[plane="); open != -1 && strings.HasSuffix(s, "]") {
		spec := s[open+len("[plane=") : len(s)-1]
		s = s[:open]
		// only the first axis of a multi axis slice matters, the display is a 2D plane of the cube
		spec, _, _ = strings.Cut(spec, ":")
		z, err := strconv.Atoi(strings.TrimSpace(spec))
		if err != nil {
			return fitsfile.Designation{}, errors.Wrapf(err, "unexpected cube slice in file reply %q", reply)
		}
		plane = z - 1
	}
	des, err := fitsfile.ParseDesignation(strings.TrimSpace(s))
	if err != nil {
		return des, errors.Wrapf(err, "unexpected file reply %q", reply)
	}
	des.Plane = plane
	return des, nil
}

// ReadCursor blocks inside DS9 until a key is pressed over the display, the reply is the key name plus the
// image coordinates under the cursor:
//
//	a 257.5 239
//
// Mouse buttons report as multi character names and are rejected so the caller re-issues the read.
func (d *DS9) ReadCursor(ctx context.Context) (viewer.Event, error) {
	reply, err := d.client.Get(ctx, "imexam", "any", "coordinate", "image")
	if err != nil {
		return viewer.Event{}, errors.Wrap(err, "failed to read cursor")
	}
	return ParseCursorReply(reply)
}

// ParseCursorReply parses the `imexam` reply format documented on [DS9.ReadCursor].
func ParseCursorReply(reply string) (viewer.Event, error) {
	fields := strings.Fields(reply)
	if len(fields) != 3 {
		return viewer.Event{}, errors.Errorf("unexpected cursor reply %q", reply)
	}
	key := []rune(fields[0])
	if len(key) != 1 {
		return viewer.Event{}, errors.Errorf("not a keystroke %q", fields[0])
	}
	x, xErr := strconv.ParseFloat(fields[1], 64)
	y, yErr := strconv.ParseFloat(fields[2], 64)
	if xErr != nil || yErr != nil {
		return viewer.Event{}, errors.Errorf("unexpected cursor coordinates in %q", reply)
	}
	return viewer.Event{Key: key[0], X: x, Y: y}, nil
}

// CursorPosition reads the crosshair location, the closest thing DS9 has to a non-blocking cursor query.
func (d *DS9) CursorPosition(ctx context.Context) (x, y float64, err error) {
	reply, err := d.client.Get(ctx, "crosshair", "image")
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to read crosshair")
	}
	fields := strings.Fields(reply)
	if len(fields) != 2 {
		return 0, 0, errors.Errorf("unexpected crosshair reply %q", reply)
	}
	x, xErr := strconv.ParseFloat(fields[0], 64)
	y, yErr := strconv.ParseFloat(fields[1], 64)
	if xErr != nil || yErr != nil {
		return 0, 0, errors.Errorf("unexpected crosshair reply %q", reply)
	}
	return x, y, nil
}
