// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package synth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/hellocdk/internal/bucket"
	"github.com/tfctl/hellocdk/internal/decl"
	"github.com/tfctl/hellocdk/internal/template"
)

func TestSynthesize_Variants(t *testing.T) {
	asm, err := Synthesize(bucket.Builtin(), Options{Outdir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, []string{bucket.VariantAStackID, bucket.VariantBStackID}, asm.IDs())

	tplA, ok := asm.Template(bucket.VariantAStackID)
	require.True(t, ok)
	a, err := template.Summarize(tplA)
	require.NoError(t, err)
	assert.Equal(t, "my-first-bucket-test111", a.Name)
	assert.True(t, a.Versioned)
	assert.Equal(t, bucket.RemovalPolicyDestroy, a.RemovalPolicy)
	assert.True(t, a.AutoDeleteObjects)

	tplB, ok := asm.Template(bucket.VariantBStackID)
	require.True(t, ok)
	b, err := template.Summarize(tplB)
	require.NoError(t, err)
	assert.Equal(t, "my-first-bucket-test112", b.Name)
	assert.True(t, b.Versioned)
	assert.Equal(t, bucket.RemovalPolicyRetain, b.RemovalPolicy)
	assert.False(t, b.AutoDeleteObjects)

	for _, id := range asm.IDs() {
		_, err := os.Stat(filepath.Join(asm.Directory, id+".template.json"))
		assert.NoError(t, err, "assembly should hold %s", id)
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	first, err := Synthesize(bucket.Builtin(), Options{Outdir: t.TempDir()})
	require.NoError(t, err)
	second, err := Synthesize(bucket.Builtin(), Options{Outdir: t.TempDir()})
	require.NoError(t, err)

	require.Len(t, second.Stacks, len(first.Stacks))
	for i := range first.Stacks {
		assert.Equal(t, string(first.Stacks[i].Template), string(second.Stacks[i].Template))
	}
}

func TestSynthesize_SelectStack(t *testing.T) {
	asm, err := Synthesize(bucket.Builtin(), Options{
		Outdir:  t.TempDir(),
		StackID: bucket.VariantBStackID,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{bucket.VariantBStackID}, asm.IDs())

	_, ok := asm.Template(bucket.VariantAStackID)
	assert.False(t, ok)

	_, err = Synthesize(bucket.Builtin(), Options{Outdir: t.TempDir(), StackID: "Nope"})
	assert.ErrorIs(t, err, decl.ErrUnknownStack)
}

func TestSynthesize_InvalidDeclaration(t *testing.T) {
	d := bucket.VariantB()
	d.AutoDeleteObjects = true

	_, err := Synthesize([]bucket.Declaration{d}, Options{Outdir: t.TempDir()})
	assert.ErrorIs(t, err, bucket.ErrAutoDeleteRequiresDestroy)
}

func TestResolveOutdir(t *testing.T) {
	t.Setenv("CDK_OUTDIR", "")
	assert.Equal(t, DefaultOutdir, resolveOutdir(""))
	assert.Equal(t, "explicit", resolveOutdir("explicit"))

	t.Setenv("CDK_OUTDIR", "/tmp/from-cli")
	assert.Equal(t, "/tmp/from-cli", resolveOutdir(""))
	assert.Equal(t, "explicit", resolveOutdir("explicit"))
}

func TestEnvironment(t *testing.T) {
	t.Setenv("CDK_DEFAULT_ACCOUNT", "")
	t.Setenv("CDK_DEFAULT_REGION", "")
	assert.Nil(t, environment("", ""))

	env := environment("123456789012", "")
	require.NotNil(t, env)
	assert.Equal(t, "123456789012", *env.Account)
	assert.Nil(t, env.Region)

	t.Setenv("CDK_DEFAULT_REGION", "eu-west-1")
	env = environment("123456789012", "")
	require.NotNil(t, env.Region)
	assert.Equal(t, "eu-west-1", *env.Region)
}

func TestNormalize(t *testing.T) {
	got, err := Normalize(map[string]any{"b": 1, "a": map[string]any{"z": true, "y": "x"}})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": {\n    \"y\": \"x\",\n    \"z\": true\n  },\n  \"b\": 1\n}\n", string(got))
}

func TestAssemblyRows(t *testing.T) {
	read := func(name string) []byte {
		b, err := os.ReadFile(filepath.Join("..", "template", "testdata", name))
		require.NoError(t, err)
		return b
	}

	asm := &Assembly{
		Directory: "/tmp/cdk.out",
		Stacks: []StackTemplate{
			{ID: bucket.VariantAStackID, Template: read("destroy.template.json")},
			{ID: bucket.VariantBStackID, Template: read("retain.template.json")},
		},
	}

	rows, err := asm.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, bucket.VariantAStackID, rows[0].ID)
	assert.Equal(t, "my-first-bucket-test111", rows[0].Bucket)
	assert.Equal(t, "destroy", rows[0].RemovalPolicy)
	assert.True(t, rows[0].AutoDeleteObjects)
	assert.Equal(t, filepath.Join("/tmp/cdk.out", "HelloCdkStack.template.json"), rows[0].Template)

	assert.Equal(t, "my-first-bucket-test112", rows[1].Bucket)
	assert.Equal(t, "retain", rows[1].RemovalPolicy)
	assert.False(t, rows[1].AutoDeleteObjects)

	asm.Stacks = append(asm.Stacks, StackTemplate{ID: "Two", Template: read("two-buckets.template.json")})
	_, err = asm.Rows()
	assert.ErrorIs(t, err, template.ErrBucketCount)
}
