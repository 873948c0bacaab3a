// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tfctl/hellocdk/internal/command"
	"github.com/tfctl/hellocdk/internal/config"
	"github.com/tfctl/hellocdk/internal/log"
	"github.com/tfctl/hellocdk/internal/util"
	"github.com/tfctl/hellocdk/internal/version"
)

// Exit codes.
const (
	exitOK    = 0
	exitInit  = 1
	exitRun   = 2
	exitDrift = 3
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand supplies a command when none was given: synth when the
// CDK CLI is driving us (CDK_OUTDIR is set), help otherwise.
func handleNakedCommand(args []string) []string {
	if len(args) > 1 {
		return args
	}
	if os.Getenv("CDK_OUTDIR") != "" {
		return append(args, "synth")
	}
	return append(args, "--help")
}

// processCommandArgs expands @sets, inserts the RootDir and drops repeated
// flags.
func processCommandArgs(args []string) []string {
	if len(args) > 1 && args[1] == "completion" {
		return args
	}

	args = processSetOnly(args)
	log.Debugf("args after set processing: args=%v", args)

	args = processRootDir(args)
	return deduplicateFlags(args)
}

// processRootDir makes sure args[2] is a RootDir, inserting the working
// directory when the user did not name one.
func processRootDir(args []string) []string {
	if len(args) < 2 || strings.HasPrefix(args[1], "-") || args[1] == "help" {
		return args
	}
	if len(args) > 2 && util.LooksLikeRootDir(args[2]) {
		return args
	}

	rootDir, _ := os.Getwd()
	return append(args[:2], append([]string{rootDir}, args[2:]...)...)
}

// processSetOnly replaces an @set argument with the fields of the config
// string slice "<command>.<set>".
func processSetOnly(args []string) []string {
	if len(args) < 3 {
		return args
	}

	for i := 2; i < len(args); i++ {
		if !strings.HasPrefix(args[i], "@") {
			continue
		}

		set := args[i][1:]
		entries, err := config.GetStringSlice(args[1] + "." + set)
		if err != nil {
			log.Warnf("set not found: %s.%s", args[1], set)
		}

		var expanded []string
		for _, entry := range entries {
			expanded = append(expanded, strings.Fields(entry)...)
		}

		out := append([]string{}, args[:i]...)
		out = append(out, expanded...)
		return append(out, args[i+1:]...)
	}
	return args
}

// deduplicateFlags keeps only the last occurrence of each flag. A flag of
// args[1] that takes a value and is written without "=" owns the following
// token. Boolean flags never consume a positional.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}
	valued := command.ValueFlags(args[1])

	type unit struct {
		key    string
		tokens []string
	}

	var units []unit
	for i := 2; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") || a == "-" {
			units = append(units, unit{tokens: []string{a}})
			continue
		}

		name, _, hasValue := strings.Cut(a, "=")
		u := unit{key: name, tokens: []string{a}}
		if !hasValue && valued[name] && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			u.tokens = append(u.tokens, args[i+1])
			i++
		}
		units = append(units, u)
	}

	last := map[string]int{}
	for i, u := range units {
		if u.key != "" {
			last[u.key] = i
		}
	}

	out := append([]string{}, args[:2]...)
	for i, u := range units {
		if u.key == "" || last[u.key] == i {
			out = append(out, u.tokens...)
		}
	}
	return out
}

// exitCode maps a run error onto the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, command.ErrDrift):
		return exitDrift
	default:
		return exitRun
	}
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return exitInit
	}

	err = app.Run(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
	}
	return exitCode(err)
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return exitOK
	}

	args = handleNakedCommand(args)

	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}
	log.Debugf("args processed: args=%v", args)

	return initAndRunApp(args)
}
