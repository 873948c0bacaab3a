// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package synth

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"

	"github.com/tfctl/hellocdk/internal/bucket"
	"github.com/tfctl/hellocdk/internal/decl"
	"github.com/tfctl/hellocdk/internal/log"
	"github.com/tfctl/hellocdk/internal/stack"
)

// DefaultOutdir is used when neither the caller nor CDK_OUTDIR names one.
const DefaultOutdir = "cdk.out"

// Options controls how the app is built.
type Options struct {
	// Outdir is the cloud assembly directory. CDK_OUTDIR, set by the CDK CLI,
	// wins over DefaultOutdir when this is empty.
	Outdir string
	// Account and Region pin the stack environment. Both empty leaves the
	// stacks environment-agnostic; CDK_DEFAULT_* fill in missing halves.
	Account string
	Region  string
	// Analytics keeps the CDKMetadata resource in templates.
	Analytics bool
	// StackID narrows synthesis to one stack.
	StackID string
}

// StackTemplate is one synthesized stack.
type StackTemplate struct {
	ID       string
	Template []byte
}

// Assembly is the result of a synthesis run.
type Assembly struct {
	Directory string
	Stacks    []StackTemplate
}

// Template returns the template for the given stack id.
func (a *Assembly) Template(id string) ([]byte, bool) {
	for _, s := range a.Stacks {
		if s.ID == id {
			return s.Template, true
		}
	}
	return nil, false
}

// IDs returns the stack ids in assembly order.
func (a *Assembly) IDs() []string {
	ids := make([]string, 0, len(a.Stacks))
	for _, s := range a.Stacks {
		ids = append(ids, s.ID)
	}
	return ids
}

// Synthesize builds a fresh app from decls and synthesizes it. jsii panics are
// recovered and returned as errors.
func Synthesize(decls []bucket.Declaration, opts Options) (asm *Assembly, err error) {
	decls, err = decl.Select(decls, opts.StackID)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			asm, err = nil, fmt.Errorf("synthesis failed: %v", r)
		}
	}()

	outdir := resolveOutdir(opts.Outdir)
	app := awscdk.NewApp(&awscdk.AppProps{
		Outdir:             jsii.String(outdir),
		AnalyticsReporting: jsii.Bool(opts.Analytics),
	})

	env := environment(opts.Account, opts.Region)
	for _, d := range decls {
		if _, err := stack.NewHelloCdkStack(app, d.StackID, &stack.HelloCdkStackProps{
			StackProps: awscdk.StackProps{Env: env},
			Bucket:     d,
		}); err != nil {
			return nil, err
		}
	}

	cloud := app.Synth(nil)
	asm = &Assembly{Directory: *cloud.Directory()}
	log.Debugf("assembly synthesized: dir=%s", asm.Directory)

	for _, d := range decls {
		artifact := cloud.GetStackByName(jsii.String(d.StackID))
		tpl, err := Normalize(artifact.Template())
		if err != nil {
			return nil, fmt.Errorf("stack %s: %w", d.StackID, err)
		}
		asm.Stacks = append(asm.Stacks, StackTemplate{ID: d.StackID, Template: tpl})
	}

	sort.Slice(asm.Stacks, func(i, j int) bool {
		return asm.Stacks[i].ID < asm.Stacks[j].ID
	})

	return asm, nil
}

// Normalize encodes a template as two-space indented JSON. encoding/json sorts
// map keys, which makes the output byte-stable across runs.
func Normalize(template any) ([]byte, error) {
	b, err := json.MarshalIndent(template, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode template: %w", err)
	}
	return append(b, '\n'), nil
}

func resolveOutdir(outdir string) string {
	if outdir != "" {
		return outdir
	}
	if d := os.Getenv("CDK_OUTDIR"); d != "" {
		return d
	}
	return DefaultOutdir
}

func environment(account, region string) *awscdk.Environment {
	if account == "" {
		account = os.Getenv("CDK_DEFAULT_ACCOUNT")
	}
	if region == "" {
		region = os.Getenv("CDK_DEFAULT_REGION")
	}
	if account == "" && region == "" {
		return nil
	}

	env := &awscdk.Environment{}
	if account != "" {
		env.Account = jsii.String(account)
	}
	if region != "" {
		env.Region = jsii.String(region)
	}
	return env
}
