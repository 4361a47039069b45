// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package fitsfile

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Lexer747/fits-examine/pixel"
	"github.com/Lexer747/fits-examine/utils/errors"

	"github.com/astrogo/fitsio"
)

// WriteGrid streams the grid out as a single HDU float64 FITS image. The cards record where the data was
// cut from so a cutout remains traceable to its parent image.
func WriteGrid(w io.Writer, grid *pixel.Grid, source Designation) error {
	fits, err := fitsio.Create(w)
	if err != nil {
		return errors.Wrap(err, "failed to start FITS stream")
	}
	defer fits.Close()

	im := fitsio.NewImage(-64, []int{grid.Width(), grid.Height()})
	defer im.Close()
	cards := []fitsio.Card{
		{Name: "ORIGFILE", Value: source.String(), Comment: "image this data was cut from"},
		{Name: "CUTOUTX", Value: grid.Offset().X, Comment: "x of the first sample in ORIGFILE"},
		{Name: "CUTOUTY", Value: grid.Offset().Y, Comment: "y of the first sample in ORIGFILE"},
	}
	if err := im.Header().Append(cards...); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	if err := im.Write(grid.Values()); err != nil {
		return errors.Wrap(err, "failed to write image data")
	}
	return errors.Wrap(fits.Write(im), "failed to flush FITS stream")
}

// WriteCutoutFile writes the grid to a fresh timestamped file next to the working directory, returning the
// file name, e.g. "cutout_102_154_20260830T120301.fits" for a cutout centred on (102, 154).
func WriteCutoutFile(grid *pixel.Grid, centre pixel.Point, source Designation) (string, error) {
	name := fmt.Sprintf("cutout_%d_%d_%s.fits", centre.X, centre.Y, time.Now().Format("20060102T150405"))
	f, err := os.Create(name)
	if err != nil {
		return "", errors.Wrapf(err, "cannot create cutout file %q", name)
	}
	defer f.Close()
	if err := WriteGrid(f, grid, source); err != nil {
		return "", err
	}
	return name, nil
}
