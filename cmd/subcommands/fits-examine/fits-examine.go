// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package fitsexamine

import (
	"context"
	"flag"
	"time"

	"github.com/Lexer747/fits-examine/cmd/tab_completion/tabflags"
	"github.com/Lexer747/fits-examine/terminal"
	"github.com/Lexer747/fits-examine/terminal/ansi"
	"github.com/Lexer747/fits-examine/utils/application"
	"github.com/Lexer747/fits-examine/utils/check"
	"github.com/Lexer747/fits-examine/utils/errors"
	"github.com/Lexer747/fits-examine/utils/exit"
	"github.com/Lexer747/fits-examine/viewer/ginga"
)

type Config struct {
	*application.BuildInfo
	*application.SharedFlags
	*tabflags.FlagSet

	attach  *bool
	inet    *bool
	params  *string
	path    *string
	plotDir *string
	target  *string
	viewer  *string
	wait    *time.Duration
	zoomFit *bool
}

func GetFlags(info *application.BuildInfo) *Config {
	f := flag.NewFlagSet("", flag.ContinueOnError)
	tf := tabflags.NewAutoCompleteFlagSet(f, true, ".fits")
	sf := application.NewSharedFlags(tf)
	ret := &Config{
		BuildInfo:   info,
		SharedFlags: sf,
		FlagSet:     tf,

		attach: tf.Bool("attach", false, "connect to an already running viewer instead of starting a private one"),
		inet: tf.Bool("inet", false, "use TCP sockets to talk to the viewer instead of the default unix sockets,\n"+
			"needed when the viewer runs on another machine"),
		params: tf.String("params", "", "the .json file holding the analysis parameters,\n"+
			"missing files fall back to the built in defaults. (default built in parameters)",
			tabflags.AutoComplete{WantsFile: true, FileExt: ".json"}),
		path: tf.String("path", "", "the display program executable to start. (default found on $PATH)",
			tabflags.AutoComplete{WantsFile: true}),
		plotDir: tf.String("plot-dir", "", "the directory the analysis plots are written into. (default working directory)",
			tabflags.AutoComplete{WantsFile: true}),
		target: tf.String("target", "", "the viewer to connect to with -attach, an xpa target for "+ansi.Blue("ds9")+
			" or a host:port for "+ansi.Blue("ginga")+".\n(default "+ginga.DefaultAddr+" for ginga)",
			tabflags.AutoComplete{}),
		viewer: tf.String("viewer", "ds9", "which display program to drive",
			tabflags.AutoComplete{Choices: []string{"ds9", "ginga"}}),
		wait:    tf.Duration("wait", 10*time.Second, "how long to wait for a freshly started display program to answer"),
		zoomFit: tf.Bool("zoom-fit", false, "zoom every loaded image to fit the display immediately"),
	}
	return ret
}

func RunFitsExamine(c *Config) {
	check.Check(c.Parsed(), "flags not parsed")
	closeLogFile := c.InitLogging(c.BuildInfo)
	defer closeLogFile()
	closeCPUProfile := c.InitCPUProfiling()
	defer closeCPUProfile()
	closeMemProfile := c.InitMemProfile()
	defer closeMemProfile()

	app := Application{}
	ctx, cancelFunc := context.WithCancelCause(context.Background())
	defer cancelFunc(nil)
	err := app.Run(ctx, *c)
	if err != nil && !errors.Is(err, terminal.UserCancelled) {
		exit.OnError(err)
	}
}
