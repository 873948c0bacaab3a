// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRootDir(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "stacks.hcl")
	require.NoError(t, os.WriteFile(file, []byte(""), 0o600))

	tests := []struct {
		name      string
		rootDir   string
		wantDir   string
		wantStack string
		wantErr   bool
	}{
		{"absolute", base, base, "", false},
		{"absolute with stack", base + "::HelloCdkStack", base, "HelloCdkStack", false},
		{"empty", "", "", "", true},
		{"missing", filepath.Join(base, "nope"), "", "", true},
		{"file", file, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, stack, err := ParseRootDir(tt.rootDir)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDir, dir)
			assert.Equal(t, tt.wantStack, stack)
		})
	}
}

func TestParseRootDir_Relative(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "infra"), 0o755))
	t.Chdir(base)

	cwd, err := os.Getwd()
	require.NoError(t, err)

	dir, stack, err := ParseRootDir("infra::HelloCdkStackRetain")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "infra"), dir)
	assert.Equal(t, "HelloCdkStackRetain", stack)

	dir, stack, err = ParseRootDir("::HelloCdkStack")
	require.NoError(t, err)
	assert.Equal(t, cwd, dir)
	assert.Equal(t, "HelloCdkStack", stack)
}

func TestLooksLikeRootDir(t *testing.T) {
	base := t.TempDir()
	assert.True(t, LooksLikeRootDir(base))
	assert.True(t, LooksLikeRootDir(base+"::X"))
	assert.False(t, LooksLikeRootDir("--output"))
	assert.False(t, LooksLikeRootDir(""))
	assert.False(t, LooksLikeRootDir(filepath.Join(base, "nope")))
}
