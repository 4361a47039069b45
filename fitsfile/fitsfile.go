// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

// fitsfile reads and writes FITS images via [fitsio], handing back [pixel.Grid] planes plus the small
// header summary the rest of the program cares about. It deliberately knows nothing about viewers, it is
// the shared loading path for both the display side and the offline analysis side.
package fitsfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/Lexer747/fits-examine/pixel"
	"github.com/Lexer747/fits-examine/utils/errors"

	"github.com/astrogo/fitsio"
)

// Image is one loaded 2D plane plus where it came from.
type Image struct {
	Grid *pixel.Grid
	Info Info
}

// Info summarises the header of a loaded HDU.
type Info struct {
	Designation Designation
	ExtName     string
	ExtVer      int
	Bitpix      int
	Axes        []int
	// IsCube is true when the HDU has three axes, [Image.Grid] is then the single plane named by
	// [Designation.Plane].
	IsCube bool
	// MEF is true when the file carries more than one image HDU.
	MEF bool
}

// Load opens the designated file and returns the single 2D plane it names. For cubes the plane index of the
// designation selects which slice, out of range planes are an error.
func Load(d Designation) (*Image, error) {
	f, err := os.Open(d.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open FITS file %q", d.Path)
	}
	defer f.Close()
	fits, err := fitsio.Open(f)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse FITS file %q", d.Path)
	}
	defer fits.Close()

	hdu, err := selectHDU(fits, d)
	if err != nil {
		return nil, err
	}
	img, ok := hdu.(fitsio.Image)
	if !ok {
		return nil, errors.Errorf("HDU %q in %q is not an image", hdu.Name(), d.Path)
	}

	hdr := img.Header()
	axes := hdr.Axes()
	info := Info{
		Designation: d,
		ExtName:     hdu.Name(),
		ExtVer:      hdu.Version(),
		Bitpix:      hdr.Bitpix(),
		Axes:        axes,
		IsCube:      len(axes) == 3,
		MEF:         countImageHDUs(fits) > 1,
	}

	grid, err := readPlane(img, axes, d.Plane)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", d.String())
	}
	return &Image{Grid: grid, Info: info}, nil
}

// selectHDU resolves the designation against the file, header EXTNAME and EXTVER are authoritative. With no
// extension named the primary HDU wins if it has data, otherwise the first image extension does.
func selectHDU(fits *fitsio.File, d Designation) (fitsio.HDU, error) {
	hdus := fits.HDUs()
	if d.ExtName != "" {
		for _, hdu := range hdus {
			if !strings.EqualFold(hdu.Name(), d.ExtName) {
				continue
			}
			if d.ExtVer != 0 && hdu.Version() != d.ExtVer {
				continue
			}
			return hdu, nil
		}
		return nil, errors.Errorf("no extension [%s,%d] in %q", d.ExtName, d.ExtVer, d.Path)
	}
	if d.Ext >= 0 {
		if d.Ext >= len(hdus) {
			return nil, errors.Errorf("no extension [%d] in %q, file has %d HDUs", d.Ext, d.Path, len(hdus))
		}
		return hdus[d.Ext], nil
	}
	for _, hdu := range hdus {
		if img, ok := hdu.(fitsio.Image); ok && len(img.Header().Axes()) >= 2 {
			return hdu, nil
		}
	}
	return nil, errors.Errorf("no image HDU in %q", d.Path)
}

func countImageHDUs(fits *fitsio.File) int {
	n := 0
	for _, hdu := range fits.HDUs() {
		if img, ok := hdu.(fitsio.Image); ok && len(img.Header().Axes()) >= 2 {
			n++
		}
	}
	return n
}

// readPlane pulls the raw samples out of the HDU and converts them to a float64 grid, slicing one plane out
// of a cube when needed. FITS sample order is x fastest which matches the grid's row-major layout.
func readPlane(img fitsio.Image, axes []int, plane int) (*pixel.Grid, error) {
	if len(axes) < 2 || len(axes) > 3 {
		return nil, errors.Errorf("unsupported NAXIS %d, only 2D images and 3D cubes load", len(axes))
	}
	w, h := axes[0], axes[1]
	planes := 1
	if len(axes) == 3 {
		planes = axes[2]
	}
	if plane < 0 || plane >= planes {
		return nil, errors.Errorf("plane %d out of range, cube has %d planes", plane, planes)
	}

	data, err := readSamples(img, w*h*planes)
	if err != nil {
		return nil, err
	}
	return pixel.AdoptFloat64s(data[plane*w*h:(plane+1)*w*h], w, h)
}

func readSamples(img fitsio.Image, n int) ([]float64, error) {
	out := make([]float64, 0, n)
	switch bitpix := img.Header().Bitpix(); bitpix {
	case 8:
		var raw []uint8
		if err := img.Read(&raw); err != nil {
			return nil, errors.Wrap(err, "failed to read uint8 samples")
		}
		for _, v := range raw {
			out = append(out, float64(v))
		}
	case 16:
		var raw []int16
		if err := img.Read(&raw); err != nil {
			return nil, errors.Wrap(err, "failed to read int16 samples")
		}
		for _, v := range raw {
			out = append(out, float64(v))
		}
	case 32:
		var raw []int32
		if err := img.Read(&raw); err != nil {
			return nil, errors.Wrap(err, "failed to read int32 samples")
		}
		for _, v := range raw {
			out = append(out, float64(v))
		}
	case 64:
		var raw []int64
		if err := img.Read(&raw); err != nil {
			return nil, errors.Wrap(err, "failed to read int64 samples")
		}
		for _, v := range raw {
			out = append(out, float64(v))
		}
	case -32:
		var raw []float32
		if err := img.Read(&raw); err != nil {
			return nil, errors.Wrap(err, "failed to read float32 samples")
		}
		for _, v := range raw {
			out = append(out, float64(v))
		}
	case -64:
		if err := img.Read(&out); err != nil {
			return nil, errors.Wrap(err, "failed to read float64 samples")
		}
	default:
		return nil, errors.Errorf("unsupported BITPIX %d", bitpix)
	}
	if len(out) < n {
		return nil, errors.Errorf("short image data, wanted %d samples got %d", n, len(out))
	}
	return out, nil
}

// HeaderText renders every card of the designated HDU the way it would print in a pager, one card per line.
func HeaderText(d Designation) (string, error) {
	f, err := os.Open(d.Path)
	if err != nil {
		return "", errors.Wrapf(err, "cannot open FITS file %q", d.Path)
	}
	defer f.Close()
	fits, err := fitsio.Open(f)
	if err != nil {
		return "", errors.Wrapf(err, "cannot parse FITS file %q", d.Path)
	}
	defer fits.Close()
	hdu, err := selectHDU(fits, d)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	hdr := hdu.Header()
	for i := range len(hdr.Keys()) {
		card := hdr.Card(i)
		if card.Comment == "" {
			fmt.Fprintf(&b, "%-8s= %v\n", card.Name, card.Value)
		} else {
			fmt.Fprintf(&b, "%-8s= %v / %s\n", card.Name, card.Value, card.Comment)
		}
	}
	return b.String(), nil
}
