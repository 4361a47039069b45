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

	"github.com/Lexer747/fits-examine/utils/errors"
)

// The display parameter surface, each method is one xpaset command. Scale algorithms and colour map names
// are checked against the tables DS9 ships with before anything goes on the wire, a typo there otherwise
// only surfaces as an opaque XPA$ERROR. Everything else DS9 validates itself.

func (d *DS9) Pan(ctx context.Context, x, y float64) error {
	err := d.client.Set(ctx, nil, "pan", "to", formatCoord(x), formatCoord(y), "image")
	return errors.Wrapf(err, "failed to pan to (%g, %g)", x, y)
}

// Zoom accepts a numeric factor or the special value "to fit".
func (d *DS9) Zoom(ctx context.Context, level string) error {
	if level == "to fit" {
		return errors.Wrap(d.client.Set(ctx, nil, "zoom", "to", "fit"), "failed to zoom")
	}
	return errors.Wrapf(d.client.Set(ctx, nil, "zoom", level), "failed to zoom to %q", level)
}

// scaleModes are the algorithms and limit modes DS9's scale command accepts, only the first word of the
// command is checked so parameterised forms like "log 1000" or "limits 0 100" pass through.
var scaleModes = []string{
	"asinh", "datasec", "histequ", "limits", "linear", "log", "minmax", "mode", "pow",
	"sinh", "sqrt", "squared", "user", "zmax", "zscale",
}

// cmaps are the colour maps DS9 ships with, compared case insensitively.
var cmaps = []string{
	"a", "aips0", "b", "bb", "blue", "color", "cool", "green", "grey", "he", "heat",
	"hsv", "i8", "rainbow", "red", "sls", "staircase", "standard",
}

func (d *DS9) Scale(ctx context.Context, algorithm string) error {
	mode, _, _ := strings.Cut(strings.TrimSpace(algorithm), " ")
	if !contains(scaleModes, mode) {
		return errors.Errorf("unknown scale %q, expected one of %s", algorithm, strings.Join(scaleModes, ", "))
	}
	return errors.Wrapf(d.client.Set(ctx, nil, "scale", algorithm), "failed to set scale %q", algorithm)
}

func (d *DS9) ColorMap(ctx context.Context, name string) error {
	if !contains(cmaps, name) {
		return errors.Errorf("unknown colour map %q, expected one of %s", name, strings.Join(cmaps, ", "))
	}
	return errors.Wrapf(d.client.Set(ctx, nil, "cmap", name), "failed to set colour map %q", name)
}

func contains(table []string, value string) bool {
	for _, t := range table {
		if strings.EqualFold(t, value) {
			return true
		}
	}
	return false
}

func (d *DS9) Rotate(ctx context.Context, degrees float64) error {
	return errors.Wrapf(d.client.Set(ctx, nil, "rotate", "to", formatCoord(degrees)), "failed to rotate to %g", degrees)
}

func (d *DS9) Blink(ctx context.Context, enable bool) error {
	return errors.Wrap(d.client.Set(ctx, nil, "blink", onOff(enable)), "failed to toggle blink")
}

func (d *DS9) Crosshair(ctx context.Context, x, y float64) error {
	err := d.client.Set(ctx, nil, "crosshair", formatCoord(x), formatCoord(y), "image")
	return errors.Wrapf(err, "failed to move crosshair to (%g, %g)", x, y)
}

func (d *DS9) CoordinateGrid(ctx context.Context, enable bool) error {
	return errors.Wrap(d.client.Set(ctx, nil, "grid", onOff(enable)), "failed to toggle coordinate grid")
}

// NaNColor picks the colour not-a-number pixels are drawn with.
func (d *DS9) NaNColor(ctx context.Context, colour string) error {
	return errors.Wrapf(d.client.Set(ctx, nil, "nan", colour), "failed to set nan colour %q", colour)
}

func (d *DS9) Colorbar(ctx context.Context, enable bool) error {
	return errors.Wrap(d.client.Set(ctx, nil, "colorbar", onOff(enable)), "failed to toggle colorbar")
}

func (d *DS9) Contour(ctx context.Context, enable bool) error {
	return errors.Wrap(d.client.Set(ctx, nil, "contour", onOff(enable)), "failed to toggle contours")
}

func (d *DS9) PixelTable(ctx context.Context, enable bool) error {
	return errors.Wrap(d.client.Set(ctx, nil, "pixeltable", onOff(enable)), "failed to toggle the pixel table")
}

func (d *DS9) Regions(ctx context.Context) (string, error) {
	out, err := d.client.Get(ctx, "regions")
	return out, errors.Wrap(err, "failed to read regions")
}

// AddRegions sends the marks as the command payload, one region per line.
func (d *DS9) AddRegions(ctx context.Context, spec string) error {
	return errors.Wrap(d.client.Set(ctx, []byte(spec), "regions"), "failed to draw regions")
}

func (d *DS9) Match(ctx context.Context, coords string) error {
	if coords != "wcs" && coords != "image" {
		return errors.Errorf("cannot match frames by %q, expected wcs or image", coords)
	}
	return errors.Wrapf(d.client.Set(ctx, nil, "frame", "match", coords), "failed to match frames by %s", coords)
}

func (d *DS9) AlignWCS(ctx context.Context, enable bool) error {
	return errors.Wrap(d.client.Set(ctx, nil, "align", onOff(enable)), "failed to toggle wcs alignment")
}

func (d *DS9) Hide(ctx context.Context) error {
	return errors.Wrap(d.client.Set(ctx, nil, "lower"), "failed to hide the display")
}

func (d *DS9) Show(ctx context.Context) error {
	return errors.Wrap(d.client.Set(ctx, nil, "raise"), "failed to raise the display")
}

// Snapshot saves what DS9 currently displays, the format follows the file extension.
func (d *DS9) Snapshot(ctx context.Context, path string) (string, error) {
	err := d.client.Set(ctx, nil, "saveimage", path)
	return path, errors.Wrapf(err, "failed to save display to %q", path)
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func onOff(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
