// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package connect

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lexer747/fits-examine/examine"
	"github.com/Lexer747/fits-examine/terminal"
	"github.com/Lexer747/fits-examine/utils/backoff"
	"github.com/Lexer747/fits-examine/utils/errors"
	"github.com/Lexer747/fits-examine/viewer"
)

// Examine runs the interactive loop: block until a key arrives over the display, run the bound analysis
// against the pixels under the cursor, repeat. Pressing q ends the loop, 2 moves plotting onto a fresh
// window, an unbound key warns and keeps going. Frame changes and cube plane changes between keystrokes
// are picked up because the frame is re-described before every dispatch.
//
// Backends which cannot block on a display side keystroke ([viewer.ErrNoCursorQueue]) fall back to raw
// keystrokes from the attached terminal, each paired with the cursor position polled from the viewer.
func (c *Connect) Examine(ctx context.Context) error {
	info, err := c.viewer.FrameData(ctx)
	if err != nil {
		return errors.Wrap(err, "cannot examine an empty display")
	}
	c.engine.SetSource(info.Designation)
	c.printHelp()
	exp := backoff.NewExponentialBackoff(250 * time.Millisecond)
	for {
		if err := ctx.Err(); err != nil {
			return context.Cause(ctx)
		}
		event, err := c.viewer.ReadCursor(ctx)
		if errors.Is(err, viewer.ErrNoCursorQueue) {
			return c.examineFromTerminal(ctx)
		}
		if err != nil {
			slog.Debug("cursor read failed, retrying", "err", err)
			exp.Wait()
			continue
		}
		exp.Success()
		if done := c.handle(ctx, event); done {
			return nil
		}
	}
}

// handle dispatches one event, reporting whether the session is over.
func (c *Connect) handle(ctx context.Context, event viewer.Event) bool {
	switch event.Key {
	case 'q':
		fmt.Fprintln(c.out, "examine session ended")
		return true
	case '2':
		window := c.engine.NewPlotWindow()
		fmt.Fprintf(c.out, "plotting to window %d\n", window)
		return false
	}
	info, err := c.viewer.FrameData(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "cannot read the displayed frame: %v\n", err)
		return false
	}
	c.engine.SetSource(info.Designation)
	err = c.engine.Dispatch(ctx, event.Key, info.Grid, event.X, event.Y)
	switch {
	case errors.Is(err, examine.ErrUnknownKey):
		fmt.Fprintf(c.out, "%q is not bound, press q to quit\n", event.Key)
	case err != nil:
		fmt.Fprintf(c.out, "%c failed: %v\n", event.Key, err)
	}
	return false
}

// examineFromTerminal is the fallback loop, raw keystrokes from our own terminal paired with the polled
// cursor position.
func (c *Connect) examineFromTerminal(ctx context.Context) error {
	if c.term == nil {
		return errors.Errorf("this viewer needs a terminal for keystrokes and none is attached")
	}
	ctx, stop := context.WithCancelCause(ctx)
	defer stop(nil)
	fallbacks := []terminal.Listener{{
		Name: "examine",
		Action: func(r rune) error {
			x, y, err := c.viewer.CursorPosition(ctx)
			if err != nil {
				fmt.Fprintf(c.out, "cannot read the cursor: %v\r\n", err)
				return nil
			}
			if done := c.handle(ctx, viewer.Event{Key: r, X: x, Y: y}); done {
				stop(nil)
			}
			return nil
		},
	}}
	cleanup, err := c.term.StartRaw(ctx, stop, nil, fallbacks)
	if err != nil {
		return errors.Wrap(err, "cannot take over the terminal")
	}
	defer cleanup()
	<-ctx.Done()
	cause := context.Cause(ctx)
	if errors.Is(cause, context.Canceled) || errors.Is(cause, terminal.UserCancelled) {
		return nil
	}
	return cause
}

func (c *Connect) printHelp() {
	fmt.Fprintln(c.out, "press a key over the display to analyse that position, q to quit:")
	for _, b := range c.engine.Bindings() {
		fmt.Fprintf(c.out, "  %c  %s\n", b.Key, b.Description)
	}
	fmt.Fprintln(c.out, "  2  plot to a new window")
}
