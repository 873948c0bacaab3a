// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StackSep separates the directory from an optional stack id in a RootDir.
const StackSep = "::"

// ParseRootDir splits a "dir[::stack]" RootDir into an absolute directory and
// the stack id. The directory must exist.
func ParseRootDir(rootDir string) (string, string, error) {
	if rootDir == "" {
		return "", "", os.ErrInvalid
	}

	dir, stackID, _ := strings.Cut(rootDir, StackSep)
	if dir == "" {
		dir = "."
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", "", err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", "", err
	}
	if !info.IsDir() {
		return "", "", fmt.Errorf("%s: %w", dir, os.ErrInvalid)
	}

	return dir, stackID, nil
}

// LooksLikeRootDir reports whether arg names an existing directory, with or
// without a stack suffix.
func LooksLikeRootDir(arg string) bool {
	if arg == "" || strings.HasPrefix(arg, "-") {
		return false
	}
	_, _, err := ParseRootDir(arg)
	return err == nil
}
