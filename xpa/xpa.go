// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

// xpa shells out to the xpa command line tools (xpaget, xpaset, xpaaccess, xpans) which are shipped with
// every DS9 install. Speaking the xpa wire protocol directly is possible but the tools are guaranteed to
// match whatever protocol version the running DS9 speaks, so the process boundary is the stable interface.
package xpa

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/Lexer747/fits-examine/utils/env"
	"github.com/Lexer747/fits-examine/utils/errors"
)

// Client issues requests against a single xpa target, e.g. "ds9" or a specific "ip:port" name from
// [Sessions]. The zero value is not usable, construct with [NewClient].
type Client struct {
	target string
	method string
	tmpdir string
}

// Option mutates a client under construction.
type Option func(*Client)

// WithMethod forces the XPA_METHOD for every call, "inet" or "local". When unset the process environment
// wins, matching what the tools themselves would do.
func WithMethod(method string) Option {
	return func(c *Client) { c.method = method }
}

// WithTmpDir sets XPA_TMPDIR, the unix socket directory used when the method is "local".
func WithTmpDir(dir string) Option {
	return func(c *Client) { c.tmpdir = dir }
}

func NewClient(target string, opts ...Option) *Client {
	c := &Client{
		target: target,
		method: env.XPA_METHOD(),
		tmpdir: env.XPA_TMPDIR(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Target() string { return c.target }

// Environ is the process environment each tool invocation runs with, the client's transport settings
// layered over the ambient environment.
func (c *Client) Environ() []string {
	e := os.Environ()
	if c.method != "" {
		e = append(e, "XPA_METHOD="+c.method)
	}
	if c.tmpdir != "" {
		e = append(e, "XPA_TMPDIR="+c.tmpdir)
	}
	return e
}

// Get runs `xpaget <target> <args...>` and returns its stdout with the trailing newline removed. A blocking
// server side request such as a cursor read simply makes this call block, cancel via the context.
func (c *Client) Get(ctx context.Context, args ...string) (string, error) {
	out, err := c.run(ctx, "xpaget", nil, append([]string{c.target}, args...))
	return strings.TrimRight(out, "\n"), err
}

// Set runs `xpaset <target> <args...>` feeding [data] to its stdin, or `xpaset -p` when there is no data to
// send since xpaset otherwise waits on stdin forever.
func (c *Client) Set(ctx context.Context, data []byte, args ...string) error {
	argv := []string{c.target}
	if data == nil {
		argv = []string{"-p", c.target}
	}
	_, err := c.run(ctx, "xpaset", data, append(argv, args...))
	return err
}

// Access reports whether the target currently answers xpa requests.
func (c *Client) Access(ctx context.Context) bool {
	out, err := c.run(ctx, "xpaaccess", nil, []string{"-c", c.target})
	if err != nil {
		return false
	}
	n := strings.TrimSpace(out)
	return n != "" && n != "0"
}

func (c *Client) run(ctx context.Context, tool string, stdin []byte, argv []string) (string, error) {
	cmd := exec.CommandContext(ctx, tool, argv...)
	cmd.Env = c.Environ()
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	slog.Debug("xpa call", "tool", tool, "argv", argv)
	err := cmd.Run()
	if err != nil {
		return stdout.String(), errors.Wrapf(err, "%s %s failed: %s", tool, strings.Join(argv, " "), stderr.String())
	}
	// The tools exit 0 on server side failures, the error arrives on stderr instead.
	if msg, found := strings.CutPrefix(strings.TrimSpace(stderr.String()), "XPA$ERROR"); found {
		return stdout.String(), errors.Errorf("%s %s: %s", tool, strings.Join(argv, " "), strings.TrimSpace(msg))
	}
	return stdout.String(), nil
}

// Installed reports whether the xpa tools can be found on the PATH, callers get a better error out of this
// than the raw exec failure.
func Installed() error {
	for _, tool := range []string{"xpaget", "xpaset", "xpaaccess"} {
		if _, err := exec.LookPath(tool); err != nil {
			return errors.Wrapf(err, "xpa tool %q not found, is DS9 installed and on the PATH", tool)
		}
	}
	return nil
}
