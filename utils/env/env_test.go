// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package env_test

import (
	"testing"

	"github.com/Lexer747/fits-examine/utils/env"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestAddTo_PATH(t *testing.T) {
	t.Parallel()
	t.Run("appends to an existing PATH", func(t *testing.T) {
		t.Parallel()
		got := env.AddTo_PATH([]string{"HOME=/home/x", "PATH=/usr/bin"}, "/opt/ds9/bin")
		assert.Check(t, is.DeepEqual(got, []string{"HOME=/home/x", "PATH=/usr/bin:/opt/ds9/bin"}))
	})
	t.Run("creates PATH when missing", func(t *testing.T) {
		t.Parallel()
		got := env.AddTo_PATH([]string{"HOME=/home/x"}, "/opt/ds9/bin")
		assert.Check(t, is.DeepEqual(got, []string{"HOME=/home/x", "PATH=/opt/ds9/bin"}))
	})
	t.Run("ignores malformed entries", func(t *testing.T) {
		t.Parallel()
		got := env.AddTo_PATH([]string{"JUNK", "PATH=/usr/bin"}, "/opt/ds9/bin")
		assert.Check(t, is.DeepEqual(got, []string{"JUNK", "PATH=/usr/bin:/opt/ds9/bin"}))
	})
}
