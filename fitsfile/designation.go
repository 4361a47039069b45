// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package fitsfile

import (
	"strconv"
	"strings"

	"github.com/Lexer747/fits-examine/utils/errors"
)

// Designation is a reference to one image plane inside a FITS file, the string syntax understood by
// [ParseDesignation] is the usual bracket suffix convention:
//
//	image.fits            the default HDU (primary, or the first image extension)
//	image.fits[2]         HDU by index
//	image.fits[SCI]       HDU by EXTNAME
//	image.fits[SCI,2]     HDU by EXTNAME and EXTVER
//
// Plane is never part of the bracket syntax, it comes from the viewer when a cube is displayed and is
// carried here so one value can name everything the analysis needs to reload a frame.
type Designation struct {
	Path    string
	Ext     int    // HDU index, -1 when unset
	ExtName string // empty when unset
	ExtVer  int    // 0 when unset
	Plane   int    // cube plane, 0-based, 0 for 2D images
}

// ParseDesignation splits the bracket suffix off a file reference. An empty suffix or no suffix at all
// yields the default designation for the path.
func ParseDesignation(s string) (Designation, error) {
	d := Designation{Path: s, Ext: -1}
	open := strings.LastIndex(s, "[")
	if open == -1 {
		return d, nil
	}
	if !strings.HasSuffix(s, "]") {
		return d, errors.Errorf("unterminated extension suffix in %q", s)
	}
	d.Path = s[:open]
	inner := s[open+1 : len(s)-1]
	if inner == "" {
		return d, nil
	}
	parts := strings.Split(inner, ",")
	switch len(parts) {
	case 1:
		if ext, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
			d.Ext = ext
		} else {
			d.ExtName = strings.TrimSpace(parts[0])
		}
	case 2:
		d.ExtName = strings.TrimSpace(parts[0])
		ver, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return d, errors.Wrapf(err, "bad EXTVER in %q", s)
		}
		d.ExtVer = ver
	default:
		return d, errors.Errorf("too many parts in extension suffix %q", s)
	}
	return d, nil
}

func (d Designation) String() string {
	var b strings.Builder
	b.WriteString(d.Path)
	switch {
	case d.ExtName != "" && d.ExtVer != 0:
		b.WriteString("[" + d.ExtName + "," + strconv.Itoa(d.ExtVer) + "]")
	case d.ExtName != "":
		b.WriteString("[" + d.ExtName + "]")
	case d.Ext > 0:
		b.WriteString("[" + strconv.Itoa(d.Ext) + "]")
	}
	return b.String()
}
