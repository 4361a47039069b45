// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package xpa

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/Lexer747/fits-examine/utils/errors"
)

// Session is one running xpa server as reported by the xpans name server.
type Session struct {
	Class   string // e.g. "DS9"
	Name    string // the template name, e.g. "ds9"
	Methods string // access methods, "gs" etc
	Address string // the unique target, "7f000001:45677" style inet address or a socket path
	User    string
}

// Sessions asks the xpans name server for every registered xpa target. An empty list with no error means
// no viewer is up.
func Sessions(ctx context.Context) ([]Session, error) {
	cmd := exec.CommandContext(ctx, "xpans")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		// xpans exits non-zero when the name server is not running, which just means no sessions.
		if strings.Contains(stderr.String(), "Connection refused") {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "xpans failed: %s", stderr.String())
	}
	return ParseSessions(stdout.String()), nil
}

// ParseSessions parses xpans output, one server per line:
//
//	DS9 ds9 gs 7f000001:45677 astronomer
func ParseSessions(out string) []Session {
	var sessions []Session
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		s := Session{Class: fields[0], Name: fields[1], Methods: fields[2], Address: fields[3]}
		if len(fields) >= 5 {
			s.User = fields[4]
		}
		sessions = append(sessions, s)
	}
	return sessions
}
