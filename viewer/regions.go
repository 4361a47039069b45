// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package viewer

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Lexer747/fits-examine/utils/errors"
)

// RegionMark is one point to draw over the image, with an optional label.
type RegionMark struct {
	X, Y  float64
	Label string
}

// FormatRegions renders the marks as a region string every backend's AddRegions accepts, one circle of the
// given radius per mark plus a text mark above it when the mark is labelled. The result is newline
// terminated.
func FormatRegions(marks []RegionMark, radius int) string {
	var b strings.Builder
	for _, m := range marks {
		fmt.Fprintf(&b, "image; circle %s %s %d\n", formatRegionCoord(m.X), formatRegionCoord(m.Y), radius)
		if m.Label != "" {
			fmt.Fprintf(&b, "image; text %s %s # text={%s}\n",
				formatRegionCoord(m.X), formatRegionCoord(m.Y+float64(radius)+2), m.Label)
		}
	}
	return b.String()
}

// ParseMarkFile reads a plain text list of marks, one "x,y" or "x,y,label" per line. Blank lines and lines
// starting with # are skipped, anything else malformed is an error naming the line.
func ParseMarkFile(path string) ([]RegionMark, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var marks []RegionMark
	for i, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ",", 3)
		if len(parts) < 2 {
			return nil, errors.Errorf("%s:%d: expected x,y[,label], found %q", path, i+1, line)
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errX != nil || errY != nil {
			return nil, errors.Errorf("%s:%d: expected numeric x,y, found %q", path, i+1, line)
		}
		mark := RegionMark{X: x, Y: y}
		if len(parts) == 3 {
			mark.Label = strings.TrimSpace(parts[2])
		}
		marks = append(marks, mark)
	}
	return marks, nil
}

// ConvertMarkFile turns a plain x,y[,label] text file into a region file, refusing to overwrite.
func ConvertMarkFile(in, out string, radius int) error {
	marks, err := ParseMarkFile(in)
	if err != nil {
		return err
	}
	return WriteRegionFile(out, FormatRegions(marks, radius))
}

func formatRegionCoord(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// WriteRegionFile saves a region string to a new file, existing files are never clobbered.
func WriteRegionFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
