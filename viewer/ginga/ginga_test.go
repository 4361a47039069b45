// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package ginga_test

import (
	"context"
	"testing"

	"github.com/Lexer747/fits-examine/utils/env"
	"github.com/Lexer747/fits-examine/viewer/ginga"

	"gotest.tools/v3/assert"
)

// Needs a real ginga with its remote control plugin listening on the default port.
func TestLiveGinga(t *testing.T) {
	if !env.SHOULD_TEST_GINGA() {
		t.Skip("SHOULD_TEST_GINGA unset, skipping test which needs a running ginga")
	}
	ctx := context.Background()
	g, err := ginga.Dial(ctx, "")
	assert.NilError(t, err)
	defer func() { assert.NilError(t, g.Close(ctx)) }()

	assert.NilError(t, g.Zoom(ctx, "2"))
	x, y, err := g.CursorPosition(ctx)
	assert.NilError(t, err)
	assert.Check(t, x >= 0 && y >= 0, "cursor at (%v, %v)", x, y)
}
