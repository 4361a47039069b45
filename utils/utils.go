// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2024-2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package utils

// Err discards the first return value of the common `(int, error)` shaped functions, e.g. [io.Writer.Write],
// leaving just the error for the caller to handle.
func Err(_ int, err error) error {
	return err
}
