// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
)

// ListActionRunner[T] is the common action for commands that list jsonapi
// rows: tldr and schema short circuits, attrs, fetch, emit.
type ListActionRunner[T any] struct {
	CommandName  string
	SchemaType   reflect.Type
	DefaultAttrs []string
	FetchFn      func(context.Context, *cli.Command) ([]T, error)
}

// Run executes the action.
func (r *ListActionRunner[T]) Run(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("executing %s: rootDir=%s stack=%s", r.CommandName, m.RootDir, m.StackID)

	if ShortCircuitTLDR(ctx, cmd, r.CommandName) {
		return nil
	}
	if DumpSchemaIfRequested(cmd, r.SchemaType) {
		return nil
	}

	al, err := BuildAttrs(cmd, r.DefaultAttrs...)
	if err != nil {
		return err
	}

	results, err := r.FetchFn(ctx, cmd)
	if err != nil {
		return err
	}

	return EmitJSONAPISlice(results, al, cmd)
}

// NewListActionRunner creates a ListActionRunner.
func NewListActionRunner[T any](
	commandName string,
	schemaType reflect.Type,
	defaultAttrs []string,
	fetchFn func(context.Context, *cli.Command) ([]T, error),
) *ListActionRunner[T] {
	return &ListActionRunner[T]{
		CommandName:  commandName,
		SchemaType:   schemaType,
		DefaultAttrs: defaultAttrs,
		FetchFn:      fetchFn,
	}
}
