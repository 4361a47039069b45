// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package sessions

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Lexer747/fits-examine/cmd/tab_completion/tabflags"
	"github.com/Lexer747/fits-examine/utils/check"
	"github.com/Lexer747/fits-examine/utils/exit"
	"github.com/Lexer747/fits-examine/utils/sliceutils"
	"github.com/Lexer747/fits-examine/xpa"
)

type Config struct {
	*tabflags.FlagSet
}

func GetFlags() *Config {
	f := flag.NewFlagSet("", flag.ContinueOnError)
	tf := tabflags.NewAutoCompleteFlagSet(f, false, "")
	ret := &Config{FlagSet: tf}

	f.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "Usage of %s: lists the xpa servers reachable from this machine,\n"+
			"the name column is the -target to give the -attach flag.\n"+
			"\t sessions\n", os.Args[0])
		f.PrintDefaults()
	}
	return ret
}

func RunSessions(c *Config) {
	check.Check(c.Parsed(), "flags not parsed")
	if err := xpa.Installed(); err != nil {
		exit.OnError(err)
	}
	found, err := xpa.Sessions(context.Background())
	exit.OnErrorMsg(err, "Couldn't query the xpa name server, failed with")
	if len(found) == 0 {
		fmt.Fprintln(os.Stdout, "No xpa servers running.")
		return
	}
	fmt.Fprintf(os.Stdout, "%-12s %-20s %-8s %-22s %s\n", "CLASS", "NAME", "ACCESS", "ADDRESS", "USER")
	for _, s := range found {
		fmt.Fprintf(os.Stdout, "%-12s %-20s %-8s %-22s %s\n", s.Class, s.Name, s.Methods, s.Address, s.User)
	}
	names := sliceutils.JoinFunc(found, func(s xpa.Session) string { return s.Name }, " | ")
	fmt.Fprintf(os.Stdout, "\nconnect with: fits-examine -attach -target <%s>\n", names)
}
