// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package fitsexamine

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Lexer747/fits-examine/connect"
	"github.com/Lexer747/fits-examine/examine"
	"github.com/Lexer747/fits-examine/terminal"
	"github.com/Lexer747/fits-examine/utils/errors"
	"github.com/Lexer747/fits-examine/viewer"
	"github.com/Lexer747/fits-examine/viewer/ds9"
	"github.com/Lexer747/fits-examine/viewer/ginga"
)

type Application struct {
	conn *connect.Connect
	term *terminal.Terminal
}

func (app *Application) Run(ctx context.Context, c Config) error {
	v, err := makeViewer(ctx, c)
	if err != nil {
		return err
	}
	params, err := examine.LoadParamsFile(*c.params)
	if err != nil {
		return err
	}
	engine := examine.New(
		examine.WithParams(params),
		examine.WithPlotDir(*c.plotDir),
	)
	app.term = makeTerminal()
	app.conn, err = connect.New(connect.Options{
		Viewer:   v,
		Engine:   engine,
		Terminal: app.term,
	})
	if err != nil {
		return err
	}
	defer func() {
		closeErr := app.conn.Close(ctx)
		if closeErr != nil {
			slog.Debug("viewer close failed", "err", closeErr)
		}
	}()

	for _, path := range c.Args() {
		if err := app.conn.Load(ctx, path); err != nil {
			return errors.Wrapf(err, "cannot display %q", path)
		}
		if *c.zoomFit {
			if err := app.conn.ZoomToFit(ctx); err != nil {
				slog.Debug("zoom to fit failed", "err", err)
			}
		}
	}
	return app.conn.Examine(ctx)
}

func makeViewer(ctx context.Context, c Config) (viewer.Viewer, error) {
	switch *c.viewer {
	case "ds9":
		if *c.attach {
			if *c.target == "" {
				return nil, errors.Errorf("-attach to ds9 needs a -target, list the running viewers with the sessions subcommand")
			}
			return ds9.Attach(ctx, *c.target)
		}
		return ds9.Launch(ctx, ds9.LaunchOptions{Path: *c.path, Inet: *c.inet, Wait: *c.wait})
	case "ginga":
		if !*c.attach {
			fmt.Fprintln(os.Stderr, "ginga cannot be started remotely, connecting to a running one instead")
		}
		return ginga.Dial(ctx, *c.target)
	default:
		return nil, errors.Errorf("unknown viewer %q, expected ds9 or ginga", *c.viewer)
	}
}

// makeTerminal is best effort, a viewer with its own keystroke events never needs our terminal and failing
// here (e.g. under a pipe) should not stop such a session.
func makeTerminal() *terminal.Terminal {
	term, err := terminal.NewTerminal()
	if err != nil {
		slog.Debug("no usable terminal, display side keystrokes only", "err", err)
		return nil
	}
	return term
}
