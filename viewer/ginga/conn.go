// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package ginga

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/Lexer747/fits-examine/utils/errors"
)

// conn frames the remote control protocol: one request line out, one reply line back. Requests are the
// verb and its arguments space separated, replies are either of
//
//	ok [payload]
//	err <message>
//
// The socket is not safe for interleaved requests so the whole round trip holds the lock.
type conn struct {
	raw    net.Conn
	reader *bufio.Reader
	sem    chan struct{}
}

func newNetConn(c net.Conn) *conn {
	sem := make(chan struct{}, 1)
	sem <- struct{}{}
	return &conn{raw: c, reader: bufio.NewReader(c), sem: sem}
}

func (c *conn) roundTrip(ctx context.Context, verb string, args ...string) (string, error) {
	select {
	case <-ctx.Done():
		return "", context.Cause(ctx)
	case <-c.sem:
	}
	defer func() { c.sem <- struct{}{} }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.raw.SetDeadline(deadline)
		defer func() { _ = c.raw.SetDeadline(time.Time{}) }()
	}
	request := verb
	if len(args) > 0 {
		request += " " + strings.Join(args, " ")
	}
	slog.Debug("ginga request", "request", request)
	if _, err := c.raw.Write([]byte(request + "\n")); err != nil {
		return "", errors.Wrapf(err, "failed to send %q", verb)
	}
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", errors.Wrapf(err, "no reply to %q", verb)
	}
	return parseReply(strings.TrimRight(line, "\r\n"))
}

func parseReply(line string) (string, error) {
	switch {
	case line == "ok":
		return "", nil
	case strings.HasPrefix(line, "ok "):
		return line[len("ok "):], nil
	case strings.HasPrefix(line, "err "):
		return "", errors.New(line[len("err "):])
	default:
		return "", errors.Errorf("unexpected reply %q", line)
	}
}

func (c *conn) close() error {
	return c.raw.Close()
}
