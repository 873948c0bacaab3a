// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/hellocdk/internal/bucket"
	"github.com/tfctl/hellocdk/internal/meta"
)

var lsDefaultAttrs = []string{".id", "stack", "versioned", "removal-policy", "auto-delete-objects"}

// lsCommandAction lists the bucket declarations without synthesizing.
func lsCommandAction(ctx context.Context, cmd *cli.Command) error {
	fetch := func(_ context.Context, cmd *cli.Command) ([]*bucket.Row, error) {
		decls, err := loadDeclarations(cmd)
		if err != nil {
			return nil, err
		}
		return bucket.Rows(decls), nil
	}

	return NewListActionRunner(
		"ls",
		reflect.TypeOf((*bucket.Row)(nil)).Elem(),
		lsDefaultAttrs,
		fetch,
	).Run(ctx, cmd)
}

func lsCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "ls",
		Usage:     "list bucket declarations",
		UsageText: "hellocdk ls [RootDir[::stack]] [options]",
		Flags: []cli.Flag{
			NewDeclFlag(),
		},
		Action: lsCommandAction,
		Meta:   meta,
	}).Build()
}
