// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/hellocdk/internal/meta"
	"github.com/tfctl/hellocdk/internal/output"
	"github.com/tfctl/hellocdk/internal/template"
)

var rqDefaultAttrs = []string{".id", "stack", "type", "deletion-policy"}

// rqCommandAction synthesizes and lists every resource of every template.
func rqCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "rq") {
		return nil
	}

	al, err := BuildAttrs(cmd, rqDefaultAttrs...)
	if err != nil {
		return err
	}

	asm, err := synthesize(cmd)
	if err != nil {
		return err
	}

	var rows []map[string]any
	for _, s := range asm.Stacks {
		stackRows, err := template.Rows(s.ID, s.Template)
		if err != nil {
			return fmt.Errorf("stack %s: %w", s.ID, err)
		}
		rows = append(rows, stackRows...)
	}
	log.Debugf("resources listed: stacks=%d rows=%d", len(asm.Stacks), len(rows))

	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal resources: %w", err)
	}
	return output.SliceDiceSpit(raw, al, output.OptionsFromCommand(cmd), "", stdout)
}

func rqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "rq",
		Usage:     "resource query over synthesized templates",
		UsageText: "hellocdk rq [RootDir[::stack]] [options]",
		Flags:     NewSynthFlags("rq", meta.Config.Source),
		Action:    rqCommandAction,
		Meta:      meta,
		NoSchema:  true,
	}).Build()
}
