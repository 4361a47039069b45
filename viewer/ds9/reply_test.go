// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package ds9_test

import (
	"fmt"
	"testing"

	"github.com/Lexer747/fits-examine/fitsfile"
	"github.com/Lexer747/fits-examine/viewer"
	"github.com/Lexer747/fits-examine/viewer/ds9"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestParseFileReply(t *testing.T) {
	t.Parallel()
	type Case struct {
		Reply    string
		Expected fitsfile.Designation
		Err      bool
	}
	cases := []Case{
		{
			Reply:    "/data/image.fits",
			Expected: fitsfile.Designation{Path: "/data/image.fits", Ext: -1},
		},
		{
			Reply:    "/data/image.fits[SCI,2]",
			Expected: fitsfile.Designation{Path: "/data/image.fits", Ext: -1, ExtName: "SCI", ExtVer: 2},
		},
		{
			Reply:    "/data/cube.fits[plane=3]",
			Expected: fitsfile.Designation{Path: "/data/cube.fits", Ext: -1, Plane: 2},
		},
		{
			Reply:    "/data/cube.fits[plane=3:4]",
			Expected: fitsfile.Designation{Path: "/data/cube.fits", Ext: -1, Plane: 2},
		},
		{
			Reply:    "{/data/spaced name.fits}",
			Expected: fitsfile.Designation{Path: "/data/spaced name.fits", Ext: -1},
		},
		{
			Reply:    "  /data/image.fits\n",
			Expected: fitsfile.Designation{Path: "/data/image.fits", Ext: -1},
		},
		{Reply: "/data/cube.fits[plane=x]", Err: true},
	}
	for i, test := range cases {
		t.Run(fmt.Sprintf("%d:%s", i, test.Reply), func(t *testing.T) {
			t.Parallel()
			actual, err := ds9.ParseFileReply(test.Reply)
			if test.Err {
				assert.Check(t, err != nil)
				return
			}
			assert.NilError(t, err)
			assert.Check(t, is.Equal(test.Expected, actual))
		})
	}
}

func TestParseCursorReply(t *testing.T) {
	t.Parallel()
	event, err := ds9.ParseCursorReply("a 257.5 239\n")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(viewer.Event{Key: 'a', X: 257.5, Y: 239}, event))

	// mouse buttons report as bracketed names, not keystrokes
	_, err = ds9.ParseCursorReply("<1> 100 100")
	assert.Check(t, err != nil)
	_, err = ds9.ParseCursorReply("a 257.5")
	assert.Check(t, err != nil)
	_, err = ds9.ParseCursorReply("a x y")
	assert.Check(t, err != nil)
}
