// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package fitsfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Lexer747/fits-examine/fitsfile"
	"github.com/Lexer747/fits-examine/pixel"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestWriteThenLoad(t *testing.T) {
	t.Parallel()
	grid := pixel.NewGrid(8, 5)
	for y := range 5 {
		for x := range 8 {
			grid.Set(x, y, float64(y*8+x)/2)
		}
	}
	path := filepath.Join(t.TempDir(), "roundtrip.fits")
	f, err := os.Create(path)
	assert.NilError(t, err)
	source := fitsfile.Designation{Path: "parent.fits", Ext: -1}
	assert.NilError(t, fitsfile.WriteGrid(f, grid, source))
	assert.NilError(t, f.Close())

	loaded, err := fitsfile.Load(fitsfile.Designation{Path: path, Ext: -1})
	assert.NilError(t, err)
	assert.Check(t, is.Equal(8, loaded.Grid.Width()))
	assert.Check(t, is.Equal(5, loaded.Grid.Height()))
	assert.Check(t, is.Equal(-64, loaded.Info.Bitpix))
	assert.Check(t, !loaded.Info.IsCube)
	assert.Check(t, !loaded.Info.MEF)
	assert.Check(t, is.DeepEqual(grid.Values(), loaded.Grid.Values()))
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	_, err := fitsfile.Load(fitsfile.Designation{Path: filepath.Join(t.TempDir(), "absent.fits"), Ext: -1})
	assert.Check(t, err != nil)
}

func TestHeaderTextRecordsCutoutOrigin(t *testing.T) {
	t.Parallel()
	grid := pixel.NewGrid(4, 4)
	path := filepath.Join(t.TempDir(), "cutout.fits")
	f, err := os.Create(path)
	assert.NilError(t, err)
	assert.NilError(t, fitsfile.WriteGrid(f, grid, fitsfile.Designation{Path: "survey.fits", Ext: -1, ExtName: "SCI", ExtVer: 2}))
	assert.NilError(t, f.Close())

	text, err := fitsfile.HeaderText(fitsfile.Designation{Path: path, Ext: -1})
	assert.NilError(t, err)
	assert.Check(t, is.Contains(text, "ORIGFILE"))
	assert.Check(t, is.Contains(text, "survey.fits[SCI,2]"))
}
