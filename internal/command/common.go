// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"

	"github.com/hashicorp/jsonapi"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/hellocdk/internal/attrs"
	"github.com/tfctl/hellocdk/internal/bucket"
	"github.com/tfctl/hellocdk/internal/config"
	"github.com/tfctl/hellocdk/internal/decl"
	"github.com/tfctl/hellocdk/internal/meta"
	"github.com/tfctl/hellocdk/internal/output"
	"github.com/tfctl/hellocdk/internal/synth"
)

// stdout receives command output.
var stdout io.Writer = os.Stdout

// BuildAttrs constructs an AttrList from defaults plus --attrs, then applies
// the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (attrs.AttrList, error) {
	var al attrs.AttrList
	for _, d := range defaults {
		if err := al.Set(d); err != nil {
			return nil, err
		}
	}
	if extras := cmd.String("attrs"); extras != "" {
		if err := al.Set(extras); err != nil {
			return nil, fmt.Errorf("invalid --attrs: %w", err)
		}
	}
	al.SetGlobalTransformSpec()
	return al, nil
}

// DumpSchemaIfRequested writes the attribute schema of t when --schema is
// set, and reports whether it did.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if t != nil && cmd.Bool("schema") {
		output.DumpSchema(t, stdout)
		return true
	}
	return false
}

// EmitJSONAPISlice marshals results as a jsonapi payload and renders its data
// array.
func EmitJSONAPISlice(results any, al attrs.AttrList, cmd *cli.Command) error {
	var raw bytes.Buffer
	if err := jsonapi.MarshalPayload(&raw, results); err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return output.SliceDiceSpit(raw.Bytes(), al, output.OptionsFromCommand(cmd), "data", stdout)
}

// GetMeta returns the meta.Meta stored in the command's Metadata, or the zero
// value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// ShortCircuitTLDR runs `tldr hellocdk <subcmd>` when --tldr is set and
// reports whether the caller should stop.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if !cmd.Bool("tldr") {
		return false
	}
	if _, err := exec.LookPath("tldr"); err == nil {
		c := exec.CommandContext(ctx, "tldr", "hellocdk", subcmd)
		c.Stdout = stdout
		c.Stderr = os.Stderr
		_ = c.Run()
	}
	return true
}

// loadAllDeclarations reads the declaration file beneath RootDir.
func loadAllDeclarations(cmd *cli.Command) ([]bucket.Declaration, error) {
	file := cmd.String("decl")
	if file == "" {
		file, _ = config.GetString("decl.file", decl.DefaultFile)
	}
	return decl.Load(GetMeta(cmd).RootDir, file)
}

// loadDeclarations is loadAllDeclarations narrowed to the RootDir's stack, if
// one was named.
func loadDeclarations(cmd *cli.Command) ([]bucket.Declaration, error) {
	decls, err := loadAllDeclarations(cmd)
	if err != nil {
		return nil, err
	}
	return decl.Select(decls, GetMeta(cmd).StackID)
}

// synthOptions gathers synthesis options from flags and config. A relative
// outdir is taken relative to RootDir.
func synthOptions(cmd *cli.Command) synth.Options {
	m := GetMeta(cmd)

	opts := synth.Options{
		Outdir:    cmd.String("outdir"),
		Account:   cmd.String("account"),
		Region:    cmd.String("env-region"),
		Analytics: cmd.Bool("analytics"),
	}
	if opts.Outdir == "" {
		opts.Outdir, _ = config.GetString("synth.outdir", synth.DefaultOutdir)
	}
	if !cmd.IsSet("analytics") {
		opts.Analytics, _ = config.GetBool("synth.analytics", false)
	}
	if opts.Account == "" {
		opts.Account, _ = config.GetString("env.account", "")
	}
	if opts.Region == "" {
		opts.Region, _ = config.GetString("env.region", "")
	}
	if !filepath.IsAbs(opts.Outdir) && m.RootDir != "" {
		opts.Outdir = filepath.Join(m.RootDir, opts.Outdir)
	}
	return opts
}

// synthesize loads the declarations and synthesizes them.
func synthesize(cmd *cli.Command) (*synth.Assembly, error) {
	decls, err := loadDeclarations(cmd)
	if err != nil {
		return nil, err
	}
	return synth.Synthesize(decls, synthOptions(cmd))
}
