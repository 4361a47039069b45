// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package ginga

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/Lexer747/fits-examine/utils/th"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestParseReply(t *testing.T) {
	t.Parallel()
	payload, err := parseReply("ok 12.5 400")
	assert.NilError(t, err)
	assert.Check(t, is.Equal("12.5 400", payload))

	payload, err = parseReply("ok")
	assert.NilError(t, err)
	assert.Check(t, is.Equal("", payload))

	_, err = parseReply("err no such image")
	assert.ErrorContains(t, err, "no such image")

	_, err = parseReply("banana")
	assert.Check(t, err != nil)
}

// fakeServer answers each request line with the canned reply, in order.
func fakeServer(t *testing.T, server net.Conn, replies []string) {
	t.Helper()
	go func() {
		r := bufio.NewReader(server)
		for _, reply := range replies {
			if _, err := r.ReadString('\n'); err != nil {
				return
			}
			if _, err := server.Write([]byte(reply + "\n")); err != nil {
				return
			}
		}
	}()
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	th.TestWithTimeout(t, 5*time.Second, func() {
		server, client := net.Pipe()
		defer server.Close()
		fakeServer(t, server, []string{"ok 257.5 239", "err channel busy"})

		c := newNetConn(client)
		payload, err := c.roundTrip(context.Background(), "get", "cursor")
		assert.NilError(t, err)
		assert.Check(t, is.Equal("257.5 239", payload))

		_, err = c.roundTrip(context.Background(), "pan", "1", "1")
		assert.ErrorContains(t, err, "channel busy")
		assert.NilError(t, c.close())
	})
}

func TestRoundTripCancelled(t *testing.T) {
	t.Parallel()
	th.TestWithTimeout(t, 5*time.Second, func() {
		server, client := net.Pipe()
		defer server.Close()
		// a server which never answers
		go func() {
			r := bufio.NewReader(server)
			_, _ = r.ReadString('\n')
		}()
		c := newNetConn(client)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := c.roundTrip(ctx, "get", "cursor")
		assert.Check(t, err != nil)
	})
}

func TestRequestFraming(t *testing.T) {
	t.Parallel()
	th.TestWithTimeout(t, 5*time.Second, func() {
		server, client := net.Pipe()
		defer server.Close()
		requests := make(chan string, 1)
		go func() {
			r := bufio.NewReader(server)
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			requests <- strings.TrimRight(line, "\n")
			_, _ = server.Write([]byte("ok\n"))
		}()
		c := newNetConn(client)
		_, err := c.roundTrip(context.Background(), "pan", "12.5", "400")
		assert.NilError(t, err)
		assert.Check(t, is.Equal("pan 12.5 400", <-requests))
	})
}
