// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/tfctl/hellocdk/internal/config"
)

// RootDirSpec is the resolved project directory and the optional stack id
// that narrows a command to one stack.
type RootDirSpec struct {
	RootDir string
	StackID string
}

// Meta is the runtime state shared by commands: raw args, loaded config, the
// command context, the resolved RootDir and the directory hellocdk started in.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	RootDirSpec
	StartingDir string
}
