// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
)

// ErrStackNotInAssembly is returned when a cloud assembly has no template for
// the requested stack.
var ErrStackNotInAssembly = errors.New("stack not found in assembly")

// File is a template file on disk.
type File struct {
	Path string
}

// NewFile returns the File at path.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Fetch implements backend.Source.
func (f *File) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	return data, nil
}

func (f *File) String() string {
	return f.Path
}

// Assembly is a cloud assembly directory, as written by synth or cdk synth.
type Assembly struct {
	Dir     string
	StackID string
}

// NewAssembly returns the Assembly rooted at dir. stackID names the stack
// whose template Fetch returns; it may be empty when the assembly holds a
// single stack.
func NewAssembly(dir, stackID string) *Assembly {
	return &Assembly{Dir: dir, StackID: stackID}
}

// Fetch implements backend.Source. The template file is looked up in
// manifest.json, falling back to <stack>.template.json.
func (a *Assembly) Fetch(_ context.Context) ([]byte, error) {
	files, err := a.Templates()
	if err != nil {
		return nil, err
	}

	id := a.StackID
	if id == "" {
		if len(files) != 1 {
			return nil, fmt.Errorf("%w: name one of %v", ErrStackNotInAssembly, sortedKeys(files))
		}
		for k := range files {
			id = k
		}
	}

	file, ok := files[id]
	if !ok {
		file = id + ".template.json"
	}

	data, err := os.ReadFile(filepath.Join(a.Dir, file))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s in %s", ErrStackNotInAssembly, id, a.Dir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	return data, nil
}

// Templates maps each stack artifact in the manifest to its template file. A
// missing manifest yields an empty map.
func (a *Assembly) Templates() (map[string]string, error) {
	files := map[string]string{}

	manifest, err := os.ReadFile(filepath.Join(a.Dir, "manifest.json"))
	if errors.Is(err, os.ErrNotExist) {
		log.Debugf("no manifest in %s", a.Dir)
		return files, nil
	}
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(manifest) {
		return nil, fmt.Errorf("invalid manifest in %s", a.Dir)
	}

	gjson.GetBytes(manifest, "artifacts").ForEach(func(key, artifact gjson.Result) bool {
		if artifact.Get("type").String() != "aws:cloudformation:stack" {
			return true
		}
		if tf := artifact.Get("properties.templateFile").String(); tf != "" {
			files[key.String()] = tf
		}
		return true
	})

	return files, nil
}

func (a *Assembly) String() string {
	if a.StackID == "" {
		return a.Dir
	}
	return a.Dir + "::" + a.StackID
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
