// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Lexer747/fits-examine/cmd/subcommands/examine"
	fitsexamine "github.com/Lexer747/fits-examine/cmd/subcommands/fits-examine"
	"github.com/Lexer747/fits-examine/cmd/subcommands/sessions"
	"github.com/Lexer747/fits-examine/cmd/subcommands/version"
	tabcompletion "github.com/Lexer747/fits-examine/cmd/tab_completion"
	"github.com/Lexer747/fits-examine/terminal/ansi"
	"github.com/Lexer747/fits-examine/utils/application"
	"github.com/Lexer747/fits-examine/utils/errors"
	"github.com/Lexer747/fits-examine/utils/exit"
	"github.com/Lexer747/fits-examine/utils/flags"
)

var programName = ansi.Green("fits-examine")

const examineString = "examine"
const sessionsString = "sessions"
const versionString = "version"

// overridden by the build scripts for a release binary
var (
	COMMIT     = ""
	GO_VERSION = ""
	BRANCH     = ""
	TIMESTAMP  = ""
	TAG        = ""
)

type subcommand struct {
	subcommandName string
	description    string
}

var commandsUsage = []subcommand{
	{
		subcommandName: ansi.Red(examineString),
		description: programName + " " + ansi.Red(examineString) +
			" [files]\n    will run the pixel analysis at a fixed position in each .fits file, no display program needed.",
	},
	{
		subcommandName: ansi.Red(sessionsString),
		description: programName + " " + ansi.Red(sessionsString) +
			" will list the running xpa servers which can be attached to.",
	},
	{
		subcommandName: ansi.Red(versionString),
		description: programName + " " + ansi.Red(versionString) +
			" will print the version of this binary.",
	},
}

var mainDescription = programName + " [files] starts a display program showing the given .fits files, then every" +
	" key pressed over the display runs the bound analysis at the cursor. Press q over the display to exit."

func main() {
	buildInfo := application.MakeBuildInfo(COMMIT, GO_VERSION, BRANCH, TIMESTAMP, TAG)
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case examineString:
			e := examine.GetFlags()
			FlagParseError(e.Parse(os.Args[2:]))
			examine.RunExamine(e)
			exit.Success()
		case sessionsString:
			s := sessions.GetFlags()
			FlagParseError(s.Parse(os.Args[2:]))
			sessions.RunSessions(s)
			exit.Success()
		case versionString:
			v := version.GetFlags(buildInfo)
			FlagParseError(v.Parse(os.Args[2:]))
			version.RunVersion(v)
			exit.Success()
		case tabcompletion.AutoCompleteString:
			runAutoComplete(buildInfo)
			exit.Success()
		default:
			// fallthrough
		}
	}
	a := fitsexamine.GetFlags(buildInfo)
	a.Usage = func() {
		fmt.Fprint(a.Output(), "  "+mainDescription+"\n\n")
		for _, cmd := range commandsUsage {
			fmt.Fprint(a.Output(), "  "+cmd.subcommandName+"\n")
			fmt.Fprint(a.Output(), "      "+cmd.description+"\n")
		}
		fmt.Fprintf(a.Output(), "call any of the above subcommands with --help for extra details on those commands.\n")
		fmt.Fprint(a.Output(), "\n"+programName+" arguments:\n")
		flags.PrintFlagsFilter(a, flags.ExcludePrefix("debug"))
	}
	FlagParseError(a.Parse(os.Args[1:]))
	fitsexamine.RunFitsExamine(a)
	exit.Success()
}

func runAutoComplete(buildInfo *application.BuildInfo) {
	base := tabcompletion.Command{Cmd: "fits-examine", Fs: fitsexamine.GetFlags(buildInfo).FlagSet}
	subCommands := []tabcompletion.Command{
		{Cmd: examineString, Fs: examine.GetFlags().FlagSet},
		{Cmd: sessionsString, Fs: sessions.GetFlags().FlagSet},
		{Cmd: versionString, Fs: nil},
	}
	tabcompletion.Run(os.Args, base, subCommands)
}

func FlagParseError(err error) {
	if errors.Is(err, flag.ErrHelp) {
		exit.Silent()
	} else {
		exit.OnError(err)
	}
}
