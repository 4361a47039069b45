// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2024-2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

// th stands for "test helper"
package th

import (
	"reflect"
	"time"

	"github.com/Lexer747/fits-examine/utils/numeric"
	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"pgregory.net/rapid"
)

// TestWithTimeout allows a test function to **always** run with a timeout similar to the `go test` built in
// `-timeout` flag.
func TestWithTimeout(t T, timeout time.Duration, test func()) {
	c := time.After(timeout)
	done := make(chan struct{})
	go func() {
		test()
		done <- struct{}{}
	}()
	select {
	case <-c:
		t.Fatalf("Test timed out after %s", timeout.String())
	case <-done:
	}
}

// AssertFloatEqual checks that the two floats are equal within the given significant figures.
func AssertFloatEqual(t T, expected float64, actual float64, sigFigs int, msgAndArgs ...any) {
	t.Helper()
	a := numeric.RoundToNearestSigFig(actual, sigFigs)
	e := numeric.RoundToNearestSigFig(expected, sigFigs)
	assert.Check(t, is.Equal(e, a), msgAndArgs...)
}

var AllowAllUnexported = cmp.Exporter(func(reflect.Type) bool { return true })

// T is the most generic test interface for use with all test frameworks and third party helpers.
// [*testing.T] is safer and easier to use if in doubt, you will know when you need this helper because
// certain cross dependency tests have stopped compiling.
type T interface {
	rapid.TB
}
