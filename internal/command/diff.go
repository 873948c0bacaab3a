// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/hellocdk/internal/backend"
	"github.com/tfctl/hellocdk/internal/backend/s3"
	"github.com/tfctl/hellocdk/internal/differ"
	"github.com/tfctl/hellocdk/internal/meta"
	"github.com/tfctl/hellocdk/internal/synth"
)

// ErrDiffArgs is returned when the stacks to compare cannot be determined.
var ErrDiffArgs = errors.New("diff needs two stacks, a stack and --against, or --pick")

// diffCommandAction compares two synthesized stacks, or one stack against a
// template read from a file, an older cloud assembly or S3. With no stacks
// named and exactly two declared, those two are compared.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "diff") {
		return nil
	}

	m := GetMeta(cmd)
	ids := diffStackArgs(cmd, m.StackID)
	log.Debugf("diff stacks requested: %v", ids)

	// Every stack is synthesized; the RootDir stack only names a side.
	decls, err := loadAllDeclarations(cmd)
	if err != nil {
		return err
	}
	asm, err := synth.Synthesize(decls, synthOptions(cmd))
	if err != nil {
		return err
	}

	opts := differ.Options{
		Filter: cmd.String("diff-filter"),
		Color:  cmd.Bool("color"),
	}

	if against := cmd.String("against"); against != "" {
		if len(ids) == 0 && len(asm.Stacks) == 1 {
			ids = asm.IDs()
		}
		if len(ids) != 1 {
			return ErrDiffArgs
		}
		right, err := stackTemplate(asm, ids[0])
		if err != nil {
			return err
		}
		src, err := backend.NewSource(ctx, against, backend.Options{
			StackID: ids[0],
			NewS3: func(ctx context.Context) (s3.ObjectAPI, error) {
				return newObjectAPI(ctx, cmd)
			},
			Refresh: cmd.Bool("refresh"),
		})
		if err != nil {
			return err
		}
		left, err := backend.Template(ctx, src)
		if err != nil {
			return err
		}
		log.Debugf("diff against %s", src)
		_, err = differ.Diff(stdout, left, right, opts)
		return err
	}

	if cmd.Bool("pick") {
		picked, err := differ.SelectStacks(asm.IDs())
		if err != nil {
			return err
		}
		if picked == nil {
			return nil
		}
		ids = picked
	}

	if len(ids) == 0 && len(asm.Stacks) == 2 {
		ids = asm.IDs()
	}
	if len(ids) != 2 {
		return ErrDiffArgs
	}

	left, err := stackTemplate(asm, ids[0])
	if err != nil {
		return err
	}
	right, err := stackTemplate(asm, ids[1])
	if err != nil {
		return err
	}
	_, err = differ.Diff(stdout, left, right, opts)
	return err
}

// newObjectAPI builds the S3 client for s3:// --against references.
var newObjectAPI = func(ctx context.Context, cmd *cli.Command) (s3.ObjectAPI, error) {
	client, _, err := newS3Client(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// diffStackArgs collects stack ids: the RootDir's stack first, then the
// positional args following RootDir.
func diffStackArgs(cmd *cli.Command, rootStack string) []string {
	var ids []string
	if rootStack != "" {
		ids = append(ids, rootStack)
	}
	args := cmd.Args().Slice()
	if len(args) > 1 {
		ids = append(ids, args[1:]...)
	}
	return ids
}

func stackTemplate(asm *synth.Assembly, id string) ([]byte, error) {
	tpl, ok := asm.Template(id)
	if !ok {
		return nil, fmt.Errorf("stack not synthesized: %s (have %v)", id, asm.IDs())
	}
	return tpl, nil
}

func diffCommandBuilder(meta meta.Meta) *cli.Command {
	filter := &cli.StringFlag{
		Name:  "diff-filter",
		Usage: "comma-separated top-level template keys to ignore",
		Value: "",
	}
	NameSpacedValueChainFlagFromConfigFile("diff", meta.Config.Source, filter)

	return (&CommandBuilder{
		Name:      "diff",
		Usage:     "diff synthesized stacks",
		UsageText: "hellocdk diff [RootDir[::stack]] [stackA] [stackB] [options]",
		Flags: append(append(NewSynthFlags("diff", meta.Config.Source),
			NewAWSFlags("diff", meta.Config.Source)...),
			filter,
			&cli.StringFlag{
				Name:  "against",
				Usage: "template file, cloud assembly dir or s3://bucket/key[?version=spec] to compare a stack against",
			},
			&cli.BoolFlag{
				Name:  "pick",
				Usage: "pick the two stacks interactively",
			},
		),
		Action:   diffCommandAction,
		Meta:     meta,
		NoSchema: true,
	}).Build()
}
