// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/hellocdk/internal/meta"
	"github.com/tfctl/hellocdk/internal/synth"
)

var synthDefaultAttrs = []string{".id", "bucket", "versioned", "removal-policy", "auto-delete-objects"}

// synthCommandAction writes the cloud assembly and prints what was produced:
// a summary table for text output, the templates themselves otherwise.
// Under the CDK CLI (CDK_OUTDIR set) it stays quiet unless asked.
func synthCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "synth") {
		return nil
	}

	al, err := BuildAttrs(cmd, synthDefaultAttrs...)
	if err != nil {
		return err
	}

	asm, err := synthesize(cmd)
	if err != nil {
		return err
	}
	log.Debugf("synth complete: dir=%s stacks=%v", asm.Directory, asm.IDs())

	quiet := cmd.Bool("quiet") || (os.Getenv("CDK_OUTDIR") != "" && !cmd.IsSet("output"))
	if quiet {
		return nil
	}

	switch cmd.String("output") {
	case "raw":
		for _, s := range asm.Stacks {
			if _, err := stdout.Write(s.Template); err != nil {
				return err
			}
		}
		return nil
	case "json":
		out, err := templatesJSON(asm)
		if err != nil {
			return err
		}
		_, err = stdout.Write(out)
		return err
	case "yaml":
		out, err := templatesYAML(asm)
		if err != nil {
			return err
		}
		_, err = stdout.Write(out)
		return err
	default:
		rows, err := asm.Rows()
		if err != nil {
			return err
		}
		return EmitJSONAPISlice(rows, al, cmd)
	}
}

// templatesJSON returns the lone template as-is, or an object keyed by stack
// id when there are several.
func templatesJSON(asm *synth.Assembly) ([]byte, error) {
	if len(asm.Stacks) == 1 {
		return asm.Stacks[0].Template, nil
	}
	all := make(map[string]json.RawMessage, len(asm.Stacks))
	for _, s := range asm.Stacks {
		all[s.ID] = s.Template
	}
	out, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal templates: %w", err)
	}
	return append(out, '\n'), nil
}

func templatesYAML(asm *synth.Assembly) ([]byte, error) {
	docs := make(map[string]any, len(asm.Stacks))
	for _, s := range asm.Stacks {
		var doc any
		if err := json.Unmarshal(s.Template, &doc); err != nil {
			return nil, fmt.Errorf("stack %s: %w", s.ID, err)
		}
		docs[s.ID] = doc
	}

	var v any = docs
	if len(asm.Stacks) == 1 {
		v = docs[asm.Stacks[0].ID]
	}
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal templates: %w", err)
	}
	return out, nil
}

func synthCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "synth",
		Usage:     "synthesize the cloud assembly",
		UsageText: "hellocdk synth [RootDir[::stack]] [options]",
		Flags: append(NewSynthFlags("synth", meta.Config.Source),
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "write the assembly without printing",
			},
		),
		Action:   synthCommandAction,
		Meta:     meta,
		NoSchema: true,
	}).Build()
}
