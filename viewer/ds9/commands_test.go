// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package ds9_test

import (
	"context"
	"testing"

	"github.com/Lexer747/fits-examine/viewer/ds9"

	"gotest.tools/v3/assert"
)

// The value tables are checked before anything goes near xpa, so the rejection paths are testable without
// a live viewer.

func TestScaleRejectsUnknownModes(t *testing.T) {
	t.Parallel()
	d := &ds9.DS9{}
	ctx := context.Background()
	assert.ErrorContains(t, d.Scale(ctx, "bogus"), "unknown scale")
	assert.ErrorContains(t, d.Scale(ctx, ""), "unknown scale")
}

func TestColorMapRejectsUnknownNames(t *testing.T) {
	t.Parallel()
	d := &ds9.DS9{}
	assert.ErrorContains(t, d.ColorMap(context.Background(), "lava lamp"), "unknown colour map")
}

func TestMatchRejectsUnknownSystems(t *testing.T) {
	t.Parallel()
	d := &ds9.DS9{}
	assert.ErrorContains(t, d.Match(context.Background(), "physical"), "expected wcs or image")
}
