// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

// ds9 drives the SAOImage DS9 display program over xpa. It can attach to a viewer the user already has
// open, or launch a private one whose xpa server listens on a unix socket so parallel sessions never
// collide on the inet port range.
package ds9

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/Lexer747/fits-examine/utils/backoff"
	"github.com/Lexer747/fits-examine/utils/errors"
	"github.com/Lexer747/fits-examine/viewer"
	"github.com/Lexer747/fits-examine/xpa"
)

type DS9 struct {
	client *xpa.Client
	cache  *viewer.Cache

	// set only when this process launched the viewer
	proc   *exec.Cmd
	tmpdir string
}

var _ viewer.Viewer = (*DS9)(nil)

// Attach connects to an already running DS9 by xpa target name, "ds9" reaches the default instance.
func Attach(ctx context.Context, target string) (*DS9, error) {
	if err := xpa.Installed(); err != nil {
		return nil, err
	}
	d := &DS9{
		client: xpa.NewClient(target),
		cache:  viewer.NewCache(),
	}
	if !d.client.Access(ctx) {
		return nil, errors.Errorf("no DS9 answering at xpa target %q", target)
	}
	return d, nil
}

// LaunchOptions tune [Launch], the zero value is sensible.
type LaunchOptions struct {
	// Path of the ds9 binary, looked up on PATH when empty.
	Path string
	// Inet switches the xpa transport from the default unix sockets to TCP, needed when the viewer should
	// be reachable from other machines.
	Inet bool
	// Wait bounds how long to wait for the fresh viewer to answer, default 10s.
	Wait time.Duration
}

// Launch starts a new private DS9 and waits until its xpa server answers.
func Launch(ctx context.Context, opts LaunchOptions) (*DS9, error) {
	if err := xpa.Installed(); err != nil {
		return nil, err
	}
	path := opts.Path
	if path == "" {
		var err error
		path, err = exec.LookPath("ds9")
		if err != nil {
			return nil, errors.Wrap(err, "ds9 not found on PATH")
		}
	}
	wait := opts.Wait
	if wait == 0 {
		wait = 10 * time.Second
	}
	title := fmt.Sprintf("examine-%d", os.Getpid())

	d := &DS9{cache: viewer.NewCache()}
	cmd := exec.Command(path, "-title", title)
	if opts.Inet {
		d.client = xpa.NewClient(title, xpa.WithMethod("inet"))
	} else {
		tmpdir, err := os.MkdirTemp("", "xpa-")
		if err != nil {
			return nil, errors.Wrap(err, "cannot create xpa socket directory")
		}
		d.tmpdir = tmpdir
		d.client = xpa.NewClient(title, xpa.WithMethod("local"), xpa.WithTmpDir(tmpdir))
	}
	cmd.Env = d.client.Environ()
	if err := cmd.Start(); err != nil {
		d.removeTmpdir()
		return nil, errors.Wrapf(err, "failed to start %q", path)
	}
	d.proc = cmd
	slog.Debug("launched ds9", "pid", cmd.Process.Pid, "title", title, "tmpdir", d.tmpdir)

	if err := d.waitForServer(ctx, wait); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		d.removeTmpdir()
		return nil, err
	}
	return d, nil
}

// waitForServer polls until the fresh viewer registers its xpa endpoint, a GUI program can take several
// seconds to get there on first start.
func (d *DS9) waitForServer(ctx context.Context, wait time.Duration) error {
	deadline := time.Now().Add(wait)
	exp := backoff.NewExponentialBackoff(50 * time.Millisecond)
	for {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(context.Cause(ctx), "while waiting for ds9 to start")
		}
		if d.client.Access(ctx) {
			return nil
		}
		if time.Now().After(deadline) {
			return errors.Errorf("ds9 did not answer xpa requests within %s", wait)
		}
		exp.Wait()
	}
}

func (d *DS9) removeTmpdir() {
	if d.tmpdir != "" {
		_ = os.RemoveAll(d.tmpdir)
	}
}

// Target is the xpa name this connection talks to.
func (d *DS9) Target() string { return d.client.Target() }

// Close disconnects. A viewer this process launched is asked to exit and reaped, one the user already had
// open is left alone.
func (d *DS9) Close(ctx context.Context) error {
	if d.proc == nil {
		return nil
	}
	defer d.removeTmpdir()
	err := d.client.Set(ctx, nil, "exit")
	if err != nil {
		slog.Debug("ds9 exit command failed, killing", "err", err)
		_ = d.proc.Process.Kill()
	}
	done := make(chan error, 1)
	go func() { done <- d.proc.Wait() }()
	select {
	case <-time.After(5 * time.Second):
		_ = d.proc.Process.Kill()
		return errors.Errorf("ds9 did not exit, killed")
	case err := <-done:
		var exit *exec.ExitError
		if errors.As(err, &exit) {
			// asked to exit, any status is fine
			return nil
		}
		return errors.Wrap(err, "while closing ds9")
	}
}
