// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package fitsfile_test

import (
	"fmt"
	"testing"

	"github.com/Lexer747/fits-examine/fitsfile"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestParseDesignation(t *testing.T) {
	t.Parallel()
	type Case struct {
		Input    string
		Expected fitsfile.Designation
		Err      bool
	}
	cases := []Case{
		{Input: "image.fits", Expected: fitsfile.Designation{Path: "image.fits", Ext: -1}},
		{Input: "image.fits[2]", Expected: fitsfile.Designation{Path: "image.fits", Ext: 2}},
		{Input: "image.fits[SCI]", Expected: fitsfile.Designation{Path: "image.fits", Ext: -1, ExtName: "SCI"}},
		{Input: "image.fits[SCI,2]", Expected: fitsfile.Designation{Path: "image.fits", Ext: -1, ExtName: "SCI", ExtVer: 2}},
		{Input: "image.fits[]", Expected: fitsfile.Designation{Path: "image.fits", Ext: -1}},
		{Input: "dir[1]/image.fits[SCI,1]", Expected: fitsfile.Designation{Path: "dir[1]/image.fits", Ext: -1, ExtName: "SCI", ExtVer: 1}},
		{Input: "image.fits[SCI,1", Err: true},
		{Input: "image.fits[SCI,x]", Err: true},
		{Input: "image.fits[A,B,C]", Err: true},
	}
	for i, test := range cases {
		t.Run(fmt.Sprintf("%d:%s", i, test.Input), func(t *testing.T) {
			t.Parallel()
			actual, err := fitsfile.ParseDesignation(test.Input)
			if test.Err {
				assert.Check(t, err != nil)
				return
			}
			assert.NilError(t, err)
			assert.Check(t, is.Equal(test.Expected, actual))
		})
	}
}

func TestDesignationString(t *testing.T) {
	t.Parallel()
	inputs := []string{"a.fits", "a.fits[3]", "a.fits[SCI]", "a.fits[SCI,4]"}
	for _, input := range inputs {
		d, err := fitsfile.ParseDesignation(input)
		assert.NilError(t, err)
		assert.Check(t, is.Equal(input, d.String()))
	}
}
