// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package application

import (
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/Lexer747/fits-examine/cmd/tab_completion/tabflags"
	"github.com/Lexer747/fits-examine/utils/check"
)

type BuildInfo struct {
	commit    string
	goVersion string
	branch    string
	timestamp string
	tag       string
}

//nolint:staticcheck
func MakeBuildInfo(COMMIT, GO_VERSION, BRANCH, TIMESTAMP, TAG string) *BuildInfo {
	if COMMIT == "" && GO_VERSION == "" && BRANCH == "" && TIMESTAMP == "" && TAG == "" {
		return nil
	}
	return &BuildInfo{
		commit:    COMMIT,
		goVersion: GO_VERSION,
		branch:    BRANCH,
		timestamp: TIMESTAMP,
		tag:       TAG,
	}
}

func (b *BuildInfo) Commit() string         { return b.commit }
func (b *BuildInfo) GoVersion() string      { return b.goVersion }
func (b *BuildInfo) Branch() string         { return b.branch }
func (b *BuildInfo) BuildTimestamp() string { return b.timestamp }
func (b *BuildInfo) Tag() string            { return b.tag }

// SharedFlags are the flags every subcommand carries, profiling, logging and strictness. Embed the result
// of [NewSharedFlags] into a subcommand Config and call the Init methods once flags are parsed.
type SharedFlags struct {
	cpuprofile  *string
	debugStrict *bool
	logFile     *string
	memprofile  *string
}

func NewSharedFlags(f *tabflags.FlagSet) *SharedFlags {
	return &SharedFlags{
		cpuprofile:  f.FlagSet.String("cpuprofile", "", "write cpu profile to `file`"),
		debugStrict: f.Bool("debug-strict", false, "enables more strict operation in which warnings turn into crashes."),
		logFile:     f.FlagSet.String("l", "", "write logs to `file`. (default no logs written)"),
		memprofile:  f.FlagSet.String("memprofile", "", "write memory profile to `file`"),
	}
}

func (s *SharedFlags) InitLogging(info *BuildInfo) (toDefer func()) {
	return InitLogging(*s.logFile, info)
}

func (s *SharedFlags) InitCPUProfiling() (toDefer func()) {
	return InitCPUProfiling(*s.cpuprofile)
}

func (s *SharedFlags) InitMemProfile() (toDefer func()) {
	return InitMemProfile(*s.memprofile)
}

func (s *SharedFlags) DebugStrict() bool {
	return *s.debugStrict
}

func InitLogging(file string, info *BuildInfo) (toDefer func()) {
	if file != "" {
		f, err := os.Create(file)
		check.NoErr(err, "could not create Log file")
		h := slog.NewTextHandler(f, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		logger := slog.New(h)
		if info != nil {
			logger = logger.With(
				"COMMIT", info.commit,
				"BRANCH", info.branch,
				"GO_VERSION", info.goVersion,
				"BUILD_TIMESTAMP", info.timestamp,
				"TAG", info.tag,
			)
		}
		slog.SetDefault(logger)
		slog.Debug("Logging started", "file", file)
		return func() {
			slog.Debug("Logging finished, closing", "file", file)
			check.NoErr(f.Close(), "failed to close log file")
		}
	}
	// If no file is specified we want to stop all logging
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	})
	slog.SetDefault(slog.New(h))
	return func() {}
}

func InitCPUProfiling(cpuprofile string) (toDefer func()) {
	if cpuprofile == "" {
		return func() {}
	}
	cpuFile, err := os.Create(cpuprofile)
	check.NoErr(err, "could not create CPU profile")
	err = pprof.StartCPUProfile(cpuFile)
	check.NoErr(err, "could not start CPU profile")
	traceFile, err := os.Create("trace-" + cpuprofile)
	check.NoErr(err, "could not create Trace CPU profile")
	err = trace.Start(traceFile)
	check.NoErr(err, "could not start Trace CPU profile")

	slog.Debug("Started CPU & Trace profile", "path", cpuprofile)
	return func() {
		slog.Debug("Writing CPU profile", "path", cpuprofile)
		trace.Stop()
		pprof.StopCPUProfile()
		check.NoErr(cpuFile.Sync(), "failed to Sync profile")
		check.NoErr(cpuFile.Close(), "failed to close profile")
		check.NoErr(traceFile.Sync(), "failed to Sync profile")
		check.NoErr(traceFile.Close(), "failed to close profile")
	}
}

func InitMemProfile(memprofile string) (toDefer func()) {
	if memprofile == "" {
		return func() {}
	}
	f, err := os.Create(memprofile)
	check.NoErr(err, "could not create memory profile")

	doMemProfile := func() {
		slog.Debug("Writing memory profile")
		_, err := f.Seek(0, 0)
		check.NoErr(err, "could not truncate memory profile")
		_, err = f.Write([]byte{})
		check.NoErr(err, "could not truncate memory profile")
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			check.NoErr(err, "could not write memory profile")
		}
	}

	return func() {
		doMemProfile()
		f.Close()
	}
}
