// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/hellocdk/internal/meta"
)

// CommandBuilder constructs a subcommand the same way for every command:
// meta is wired into Metadata, tldr/schema and the global output flags are
// appended, and the global flags are validated before the action runs.
type CommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
	// NoSchema leaves out --schema for commands without a row type.
	NoSchema bool
}

// Build returns the configured cli.Command.
func (cb *CommandBuilder) Build() *cli.Command {
	flags := append([]cli.Flag{}, cb.Flags...)
	flags = append(flags, newTLDRFlag())
	if !cb.NoSchema {
		flags = append(flags, newSchemaFlag())
	}
	flags = append(flags, NewGlobalFlags(cb.Name, cb.Meta.Config.Source)...)

	return &cli.Command{
		Name:      cb.Name,
		Usage:     cb.Usage,
		UsageText: cb.UsageText,
		Metadata: map[string]any{
			"meta": cb.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: cb.Action,
	}
}
