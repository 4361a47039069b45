// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package examine

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Lexer747/fits-examine/cmd/tab_completion/tabflags"
	"github.com/Lexer747/fits-examine/examine"
	"github.com/Lexer747/fits-examine/fitsfile"
	"github.com/Lexer747/fits-examine/utils/check"
	"github.com/Lexer747/fits-examine/utils/exit"
)

type Config struct {
	*tabflags.FlagSet

	keys    *string
	params  *string
	plotDir *string
	x       *float64
	y       *float64
}

func GetFlags() *Config {
	f := flag.NewFlagSet("", flag.ContinueOnError)
	tf := tabflags.NewAutoCompleteFlagSet(f, true, ".fits")
	ret := &Config{
		FlagSet: tf,
		keys: tf.String("keys", "m", "the analysis keys to run at the position, one analysis per letter,\n"+
			"the same letters the interactive loop binds e.g. \"am\" runs aperture photometry then the region"+
			" statistic", tabflags.AutoComplete{}),
		params: tf.String("params", "", "the .json file holding the analysis parameters. (default built in parameters)",
			tabflags.AutoComplete{WantsFile: true, FileExt: ".json"}),
		plotDir: tf.String("plot-dir", "", "the directory the analysis plots are written into. (default working directory)",
			tabflags.AutoComplete{WantsFile: true}),
		x: tf.Float64("x", 0, "the 1-based image x coordinate to analyse, 0 means the brightest pixel"),
		y: tf.Float64("y", 0, "the 1-based image y coordinate to analyse, 0 means the brightest pixel"),
	}

	f.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "Usage of %s: runs image analysis at a fixed position without a display program\n"+
			"\t examine [-keys LETTERS][-x X -y Y] FILES\n\n"+
			"e.g. %s examine -keys aj -x 128 -y 64 m51.fits\n", os.Args[0], os.Args[0])
		f.PrintDefaults()
	}
	return ret
}

func RunExamine(c *Config) {
	check.Check(c.Parsed(), "flags not parsed")
	toExamine := c.Args()
	if len(toExamine) == 0 {
		fmt.Fprint(os.Stderr, "No files found, exiting. Use -h/--help to print usage instructions.\n")
		exit.Success()
	}
	params, err := examine.LoadParamsFile(*c.params)
	exit.OnError(err)
	engine := examine.New(
		examine.WithParams(params),
		examine.WithPlotDir(*c.plotDir),
	)

	ctx := context.Background()
	for _, file := range toExamine {
		if err := run(ctx, engine, *c, file); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to examine %q, %s\n", file, err.Error())
		}
	}
}

func run(ctx context.Context, engine *examine.Examine, c Config, file string) error {
	d, err := fitsfile.ParseDesignation(file)
	if err != nil {
		return err
	}
	img, err := fitsfile.Load(d)
	if err != nil {
		return err
	}
	engine.SetSource(img.Info.Designation)

	x, y := *c.x, *c.y
	if x == 0 || y == 0 {
		// the brightest pixel is the natural stand-in for a cursor
		at, _ := img.Grid.Max()
		x, y = float64(at.X+1), float64(at.Y+1)
	}
	fmt.Fprintf(os.Stdout, "%s at (%g, %g):\n", file, x, y)
	for _, key := range *c.keys {
		if err := engine.Dispatch(ctx, key, img.Grid, x, y); err != nil {
			fmt.Fprintf(os.Stderr, "%c failed: %s\n", key, err.Error())
		}
	}
	return nil
}
