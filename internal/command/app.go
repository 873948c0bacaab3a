// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/hellocdk/internal/config"
	"github.com/tfctl/hellocdk/internal/meta"
	"github.com/tfctl/hellocdk/internal/util"
)

// InitApp builds the root command for args. args[1], when it is not a flag,
// names the subcommand and the config namespace; args[2], when present and
// not a flag, is the RootDir.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, _ := config.Load(ns) //nolint
	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	if ns != "completion" && len(args) > 2 && !strings.HasPrefix(args[2], "-") {
		wd, stackID, err := util.ParseRootDir(args[2])
		if err != nil {
			return nil, fmt.Errorf("failed to parse rootDir (%s): %w", args[2], err)
		}
		meta.RootDir = wd
		meta.StackID = stackID
	} else {
		meta.RootDir = sd
	}

	app := &cli.Command{
		Name:                  "hellocdk",
		Usage:                 "versioned S3 bucket stacks on AWS CDK",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "hellocdk version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands, subcommands(meta)...)

	return app, nil
}

// subcommands builds every subcommand with its flags sorted by name.
func subcommands(m meta.Meta) []*cli.Command {
	cmds := []*cli.Command{
		synthCommandBuilder(m),
		lsCommandBuilder(m),
		rqCommandBuilder(m),
		diffCommandBuilder(m),
		verifyCommandBuilder(m),
		completionCommandBuilder(m),
	}

	for _, cmd := range cmds {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}
	return cmds
}

// ValueFlags returns the dashed names (--output, -o) of the flags of the
// named subcommand that take a value. Unknown commands yield an empty set.
func ValueFlags(name string) map[string]bool {
	out := map[string]bool{}
	for _, cmd := range subcommands(meta.Meta{}) {
		if cmd.Name != name {
			continue
		}
		for _, f := range cmd.Flags {
			if tv, ok := f.(interface{ TakesValue() bool }); !ok || !tv.TakesValue() {
				continue
			}
			for _, n := range f.Names() {
				if len(n) == 1 {
					out["-"+n] = true
				} else {
					out["--"+n] = true
				}
			}
		}
	}
	return out
}
