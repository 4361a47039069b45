// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

//nolint:staticcheck
package env

import (
	"os"
	"strings"
)

// SHOULD_TEST_DS9 guards tests which launch a real DS9 process and talk to it over XPA, these are skipped by
// default since CI machines generally have no display or DS9 install.
func SHOULD_TEST_DS9() bool {
	str := os.Getenv("SHOULD_TEST_DS9")
	return str == "1"
}

// SHOULD_TEST_GINGA guards tests which expect a ginga HTML5 backend listening on localhost.
func SHOULD_TEST_GINGA() bool {
	str := os.Getenv("SHOULD_TEST_GINGA")
	return str == "1"
}

// XPA_METHOD reads the xpa transport selection, the two values this program understands are "inet" and
// "local" (unix sockets), an empty string means unset.
func XPA_METHOD() string {
	return os.Getenv("XPA_METHOD")
}

// XPA_TMPDIR is the directory in which xpa places its unix sockets when XPA_METHOD=local.
func XPA_TMPDIR() string {
	return os.Getenv("XPA_TMPDIR")
}

// AddTo_PATH will in memory only, adding the given [toAdd] file path to the [initialEnv] of key value pairs
// (see [Cmd.Env]), finding the PATH key and adding to that key or creating it if no PATH key was found.
//
// Note that this doesn't set the current processes environment you can achieve that with [os.Setenv] more
// easily instead.
//
// [Cmd.Env]: https://pkg.go.dev/os/exec#Cmd.Env
func AddTo_PATH(initialEnv []string, toAdd string) []string {
	for i, keyValue := range initialEnv {
		split := strings.Split(keyValue, "=")
		if len(split) <= 1 {
			continue
		}
		key := split[0]
		value := split[1]
		if key != "PATH" {
			continue
		}
		initialEnv[i] = "PATH=" + value + ":" + toAdd
		return initialEnv
	}
	initialEnv = append(initialEnv, "PATH="+toAdd)
	return initialEnv
}
