// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

//nolint:testpackage
package tabcompletion

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/Lexer747/fits-examine/cmd/tab_completion/tabflags"
	"github.com/Lexer747/fits-examine/utils/application"
	"github.com/Lexer747/fits-examine/utils/sliceutils"
	"gotest.tools/v3/assert"
)

var baseFlags = make_fitsexamine_Flags()
var subCommands = []Command{
	make_examine_Flags(),
	make_version_Flags(),
}

func TestGetChoices(t *testing.T) {
	t.Parallel()
	t.Run("tab", func(t *testing.T) {
		t.Parallel()
		actual, err := runGetChoices("fits-examine")
		assert.NilError(t, err)

		expectedFlags := []string{}
		baseFlags.Fs.VisitAll(func(f *flag.Flag) {
			if strings.HasPrefix(f.Name, "debug") {
				return
			}
			expectedFlags = append(expectedFlags, "-"+f.Name)
		})

		assertEqual(t, actual, slices.Concat([]string{"examine", "version"}, expectedFlags))
	})
	t.Run("start examine", func(t *testing.T) {
		t.Parallel()
		actual, err := runGetChoices("fits-examine", "e")
		assert.NilError(t, err)
		assertEqual(t, actual, []string{"examine"})
	})
	t.Run("start examine 2", func(t *testing.T) {
		t.Parallel()
		actual, err := runGetChoices("fits-examine", "exam")
		assert.NilError(t, err)
		assertEqual(t, actual, []string{"examine"})
	})
	t.Run("start version", func(t *testing.T) {
		t.Parallel()
		actual, err := runGetChoices("fits-examine", "v")
		assert.NilError(t, err)
		assertEqual(t, actual, []string{"version"})
	})
	t.Run("start -", func(t *testing.T) {
		t.Parallel()
		actual, err := runGetChoices("fits-examine", "-")
		assert.NilError(t, err)

		expectedFlags := []string{}
		baseFlags.Fs.VisitAll(func(f *flag.Flag) {
			if strings.HasPrefix(f.Name, "debug") {
				return
			}
			expectedFlags = append(expectedFlags, "-"+f.Name)
		})
		assertEqual(t, actual, expectedFlags)
	})
	t.Run("start examine ", func(t *testing.T) {
		t.Parallel()
		actual, err := runGetChoices("fits-examine", "examine", "")
		assert.NilError(t, err)

		expectedFlags := []string{}
		subCommands[0].Fs.VisitAll(func(f *flag.Flag) {
			if strings.HasPrefix(f.Name, "debug") {
				return
			}
			expectedFlags = append(expectedFlags, "-"+f.Name)
		})
		expectedFlags = slices.Concat(expectedFlags, filesByExt(".go"))
		assertEqual(t, actual, expectedFlags)
	})
	t.Run("start examine -k", func(t *testing.T) {
		t.Parallel()
		actual, err := runGetChoices("fits-examine", "examine", "-k")
		assert.NilError(t, err)

		expectedFlags := []string{}
		subCommands[0].Fs.VisitAll(func(f *flag.Flag) {
			if !strings.HasPrefix(f.Name, "k") {
				return
			}
			expectedFlags = append(expectedFlags, "-"+f.Name)
		})
		assert.DeepEqual(t, actual, expectedFlags)
	})
	t.Run("start <random>", func(t *testing.T) {
		t.Parallel()
		starting := []string{}
		randomChoices := []string{}
		baseFlags.Fs.VisitAll(func(f *flag.Flag) {
			if strings.HasPrefix(f.Name, "debug") {
				return
			}
			starting = append(starting, "-"+f.Name)
			if _, ok := f.Value.(boolFlag); ok {
				randomChoices = append(randomChoices, "-"+f.Name)
			}
		})
		start := sliceutils.TakeRandom(randomChoices)
		expectedFlags := sliceutils.Remove(starting, start)

		actual, err := runGetChoices("fits-examine", start, "")
		assert.NilError(t, err)
		assertEqual(t, actual, expectedFlags)
	})
	t.Run("start -params", func(t *testing.T) {
		t.Parallel()
		expectedFlags := []string{}
		baseFlags.Fs.VisitAll(func(f *flag.Flag) {
			if strings.HasPrefix(f.Name, "debug") || f.Name == "params" {
				return
			}
			expectedFlags = append(expectedFlags, "-"+f.Name)
		})
		expectedFlags = slices.Concat(expectedFlags, filesByExt(".go"))

		actual, err := runGetChoices("fits-examine", "-params", "")
		assert.NilError(t, err)

		assertEqual(t, actual, expectedFlags)
	})
	t.Run("start -viewer", func(t *testing.T) {
		t.Parallel()
		actual, err := runGetChoices("fits-examine", "-viewer", "")
		assert.NilError(t, err)
		assertEqual(t, actual, []string{"ds9", "ginga"})
	})
	t.Run("start -viewer g", func(t *testing.T) {
		t.Parallel()
		actual, err := runGetChoices("fits-examine", "-viewer", "g")
		assert.NilError(t, err)
		assertEqual(t, actual, []string{"ginga"})
	})
}

func runGetChoices(args ...string) ([]string, error) {
	return getChoices(max(1, len(args)-1), args, baseFlags, subCommands)
}

type boolFlag interface {
	flag.Value
	IsBoolFlag() bool
}

//nolint:staticcheck
func make_fitsexamine_Flags() Command {
	f := flag.NewFlagSet("", flag.ContinueOnError)
	tf := tabflags.NewAutoCompleteFlagSet(f, false, "")
	_ = application.NewSharedFlags(tf)

	_ = tf.Bool("attach", false, "skipped for test")
	_ = tf.Bool("inet", false, "skipped for test")
	_ = tf.String("params", "", "skipped for test",
		tabflags.AutoComplete{WantsFile: true, FileExt: ".go"})
	_ = tf.String("plot-dir", "", "skipped for test", tabflags.AutoComplete{WantsFile: true})
	_ = tf.String("target", "", "skipped for test", tabflags.AutoComplete{})
	_ = tf.String("viewer", "ds9", "skipped for test",
		tabflags.AutoComplete{Choices: []string{"ds9", "ginga"}})
	_ = tf.Bool("zoom-fit", false, "skipped for test")
	return Command{Cmd: "fits-examine", Fs: tf}
}

//nolint:staticcheck
func make_examine_Flags() Command {
	f := flag.NewFlagSet("", flag.ContinueOnError)
	tf := tabflags.NewAutoCompleteFlagSet(f, true, ".go")
	_ = tf.String("keys", "m", "skipped for test", tabflags.AutoComplete{})
	_ = tf.String("params", "", "skipped for test",
		tabflags.AutoComplete{WantsFile: true, FileExt: ".go"})
	_ = tf.Float64("x", 0, "skipped for test")
	_ = tf.Float64("y", 0, "skipped for test")
	return Command{Cmd: "examine", Fs: tf}
}

//nolint:staticcheck
func make_version_Flags() Command {
	return Command{Cmd: "version", Fs: nil}
}

func filesByExt(ext string) []string {
	entries, err := os.ReadDir("./")
	if err != nil {
		log.Fatal(err)
	}
	files := sliceutils.Map(entries, func(d os.DirEntry) string { return d.Name() })
	return sliceutils.Filter(files, func(f string) bool { return ext == "" || filepath.Ext(f) == ext })
}

func assertEqual(t *testing.T, actual, expected []string) {
	t.Helper()
	slices.Sort(actual)
	slices.Sort(expected)
	assert.DeepEqual(t, actual, expected)
}
