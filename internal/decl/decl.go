// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package decl

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/tfctl/hellocdk/internal/bucket"
	"github.com/tfctl/hellocdk/internal/log"
)

// DefaultFile is the declaration file looked up in the root directory.
const DefaultFile = "stacks.hcl"

var (
	ErrDuplicateStack  = errors.New("duplicate stack")
	ErrDuplicateBucket = errors.New("duplicate bucket name")
	ErrNoStacks        = errors.New("no stacks declared")
	ErrUnknownStack    = errors.New("unknown stack")
)

type fileSchema struct {
	Stacks []stackBlock `hcl:"stack,block"`
}

type stackBlock struct {
	ID          string      `hcl:"id,label"`
	Description *string     `hcl:"description,optional"`
	Bucket      bucketBlock `hcl:"bucket,block"`
}

type bucketBlock struct {
	ID                string  `hcl:"id,label"`
	Name              *string `hcl:"bucket_name,optional"`
	Versioned         *bool   `hcl:"versioned,optional"`
	RemovalPolicy     *string `hcl:"removal_policy,optional"`
	AutoDeleteObjects *bool   `hcl:"auto_delete_objects,optional"`
}

// Load reads rootDir/file and returns its declarations. A missing file yields
// the built-in variants.
func Load(rootDir string, file string) ([]bucket.Declaration, error) {
	if file == "" {
		file = DefaultFile
	}
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(rootDir, file)
	}

	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debugf("no declaration file at %s, using built-in variants", path)
		return bucket.Builtin(), nil
	}
	if err != nil {
		return nil, err
	}

	return Parse(src, path)
}

// Parse decodes HCL source into validated declarations, in file order.
func Parse(src []byte, filename string) ([]bucket.Declaration, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(f.Body, evalContext(), &schema); diags.HasErrors() {
		return nil, diags
	}

	if len(schema.Stacks) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrNoStacks)
	}

	decls := make([]bucket.Declaration, 0, len(schema.Stacks))
	stacks := map[string]bool{}
	names := map[string]string{}

	for _, sb := range schema.Stacks {
		if stacks[sb.ID] {
			return nil, fmt.Errorf("%s: %w: %s", filename, ErrDuplicateStack, sb.ID)
		}
		stacks[sb.ID] = true

		d, err := sb.declaration()
		if err != nil {
			return nil, fmt.Errorf("%s: stack %s: %w", filename, sb.ID, err)
		}

		if other, ok := names[d.Name]; ok {
			return nil, fmt.Errorf("%s: %w: %s in %s and %s", filename, ErrDuplicateBucket, d.Name, other, sb.ID)
		}
		names[d.Name] = sb.ID

		decls = append(decls, d)
	}

	log.Debugf("declarations parsed: file=%s count=%d", filename, len(decls))
	return decls, nil
}

// Select narrows decls to the one with the given stack id. An empty id keeps
// them all.
func Select(decls []bucket.Declaration, stackID string) ([]bucket.Declaration, error) {
	if stackID == "" {
		return decls, nil
	}
	for _, d := range decls {
		if d.StackID == stackID {
			return []bucket.Declaration{d}, nil
		}
	}

	ids := make([]string, 0, len(decls))
	for _, d := range decls {
		ids = append(ids, d.StackID)
	}
	sort.Strings(ids)
	return nil, fmt.Errorf("%w %q, have %s", ErrUnknownStack, stackID, strings.Join(ids, ", "))
}

func (sb stackBlock) declaration() (bucket.Declaration, error) {
	b := sb.Bucket

	d := bucket.Declaration{
		StackID:   sb.ID,
		ID:        b.ID,
		Name:      b.ID,
		Versioned: true,
	}
	if sb.Description != nil {
		d.Description = *sb.Description
	}
	if b.Name != nil {
		d.Name = *b.Name
	}
	if b.Versioned != nil {
		d.Versioned = *b.Versioned
	}
	if b.RemovalPolicy != nil {
		rp, err := bucket.ParseRemovalPolicy(*b.RemovalPolicy)
		if err != nil {
			return d, err
		}
		d.RemovalPolicy = rp
	}
	if b.AutoDeleteObjects != nil {
		d.AutoDeleteObjects = *b.AutoDeleteObjects
	}

	return d, d.Validate()
}

// evalContext exposes env.NAME and the string helpers a bucket name might
// need.
func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
		Functions: map[string]function.Function{
			"coalesce":   stdlib.CoalesceFunc,
			"format":     stdlib.FormatFunc,
			"join":       stdlib.JoinFunc,
			"lower":      stdlib.LowerFunc,
			"replace":    stdlib.ReplaceFunc,
			"substr":     stdlib.SubstrFunc,
			"trimprefix": stdlib.TrimPrefixFunc,
			"trimspace":  stdlib.TrimSpaceFunc,
			"trimsuffix": stdlib.TrimSuffixFunc,
			"upper":      stdlib.UpperFunc,
		},
	}
}
