// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/hellocdk/internal/config"
	"github.com/tfctl/hellocdk/internal/differ"
	"github.com/tfctl/hellocdk/internal/inspect"
	"github.com/tfctl/hellocdk/internal/meta"
	"github.com/tfctl/hellocdk/internal/synth"
)

const stacksHCL = `
stack "HelloCdkStack" {
  bucket "my-first-bucket-test111" {
    versioned           = true
    removal_policy      = "destroy"
    auto_delete_objects = true
  }
}

stack "Scratch" {
  bucket "scratch-bucket-001" {
    versioned = false
  }
}
`

// setup isolates config and cache, captures stdout and returns a project
// directory.
func setup(t *testing.T, hcl string) (string, *bytes.Buffer) {
	t.Helper()

	tmp := t.TempDir()
	cfg := filepath.Join(tmp, "hellocdk.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("cache:\n  clean: 0\n"), 0o600))
	t.Setenv("HELLOCDK_CFG_FILE", cfg)
	t.Setenv("HELLOCDK_CACHE", "0")
	t.Setenv("CDK_OUTDIR", "")

	dir := filepath.Join(tmp, "project")
	require.NoError(t, os.Mkdir(dir, 0o755))
	if hcl != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "stacks.hcl"), []byte(hcl), 0o600))
	}

	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })

	return dir, &buf
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	args = append([]string{"hellocdk"}, args...)
	app, err := InitApp(context.Background(), args)
	require.NoError(t, err)
	return app.Run(context.Background(), args)
}

func decodeRows(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows), buf.String())
	return rows
}

func TestValidators(t *testing.T) {
	for _, v := range validOutputFlagValues {
		assert.NoError(t, OutputValidator(v))
	}
	assert.Error(t, OutputValidator("xml"))
	assert.Error(t, OutputValidator(3))

	assert.NoError(t, PaddingValidator(0))
	assert.NoError(t, PaddingValidator(16))
	assert.Error(t, PaddingValidator(-1))
	assert.Error(t, PaddingValidator(17))

	assert.Error(t, FlagValidators("xml", PaddingValidator, OutputValidator))
	assert.NoError(t, FlagValidators("json", OutputValidator))
}

func TestInitApp(t *testing.T) {
	dir, _ := setup(t, "")

	app, err := InitApp(context.Background(), []string{"hellocdk", "ls", dir + "::HelloCdkStack"})
	require.NoError(t, err)

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"synth", "ls", "rq", "diff", "verify", "completion"}, names)

	ls := app.Command("ls")
	require.NotNil(t, ls)
	m := GetMeta(ls)
	assert.Equal(t, dir, m.RootDir)
	assert.Equal(t, "HelloCdkStack", m.StackID)

	for i := 1; i < len(ls.Flags); i++ {
		assert.LessOrEqual(t, ls.Flags[i-1].Names()[0], ls.Flags[i].Names()[0])
	}

	_, err = InitApp(context.Background(), []string{"hellocdk", "ls", filepath.Join(dir, "nope")})
	assert.ErrorContains(t, err, "failed to parse rootDir")
}

func TestGetMeta(t *testing.T) {
	assert.Equal(t, meta.Meta{}, GetMeta(nil))
	assert.Equal(t, meta.Meta{}, GetMeta(&cli.Command{}))
	assert.Equal(t, meta.Meta{}, GetMeta(&cli.Command{Metadata: map[string]any{"meta": 1}}))
}

func TestLs_Builtin(t *testing.T) {
	dir, buf := setup(t, "")

	require.NoError(t, run(t, "ls", dir, "-o", "json"))

	rows := decodeRows(t, buf)
	require.Len(t, rows, 2)
	assert.Equal(t, "my-first-bucket-test111", rows[0]["id"])
	assert.Equal(t, "destroy", rows[0]["removal-policy"])
	assert.Equal(t, true, rows[0]["auto-delete-objects"])
	assert.Equal(t, "my-first-bucket-test112", rows[1]["id"])
	assert.Equal(t, "default", rows[1]["removal-policy"])
	assert.Equal(t, false, rows[1]["auto-delete-objects"])
}

func TestLs_DeclFile(t *testing.T) {
	dir, buf := setup(t, stacksHCL)

	require.NoError(t, run(t, "ls", dir, "-o", "json", "--attrs", "effective-policy,!auto-delete-objects", "--filter", "versioned=false"))

	rows := decodeRows(t, buf)
	require.Len(t, rows, 1)
	assert.Equal(t, "scratch-bucket-001", rows[0]["id"])
	assert.Equal(t, "Scratch", rows[0]["stack"])
	assert.Equal(t, "retain", rows[0]["effective-policy"])
	assert.NotContains(t, rows[0], "auto-delete-objects")
}

func TestLs_Stack(t *testing.T) {
	dir, buf := setup(t, stacksHCL)

	require.NoError(t, run(t, "ls", dir+"::Scratch", "-o", "yaml"))

	var rows []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Scratch", rows[0]["stack"])

	err := run(t, "ls", dir+"::Nope")
	assert.ErrorContains(t, err, "unknown stack")
}

func TestLs_Schema(t *testing.T) {
	dir, buf := setup(t, "")

	require.NoError(t, run(t, "ls", dir, "--schema"))
	assert.Contains(t, buf.String(), "removal-policy\n")
	assert.Contains(t, buf.String(), "effective-policy\n")
}

func TestLs_InvalidFlags(t *testing.T) {
	dir, _ := setup(t, "")

	assert.Error(t, run(t, "ls", dir, "-o", "xml"))
	assert.Error(t, run(t, "ls", dir, "--attrs", ",stack"))
}

func TestCompletion(t *testing.T) {
	_, buf := setup(t, "")

	require.NoError(t, run(t, "completion", "bash"))
	assert.Contains(t, buf.String(), "complete -F _hellocdk hellocdk")

	buf.Reset()
	require.NoError(t, run(t, "completion", "zsh"))
	assert.Contains(t, buf.String(), "#compdef hellocdk")
}

// fakeS3 reports every bucket as present, versioned and untagged.
type fakeS3 struct {
	versioning types.BucketVersioningStatus
}

func (f fakeS3) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, nil
}

func (f fakeS3) GetBucketVersioning(context.Context, *s3.GetBucketVersioningInput, ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error) {
	return &s3.GetBucketVersioningOutput{Status: f.versioning}, nil
}

func (f fakeS3) GetBucketTagging(context.Context, *s3.GetBucketTaggingInput, ...func(*s3.Options)) (*s3.GetBucketTaggingOutput, error) {
	return nil, &smithy.GenericAPIError{Code: "NoSuchTagSet"}
}

func useFakeS3(t *testing.T, api inspect.BucketAPI) {
	t.Helper()
	old := newBucketAPI
	newBucketAPI = func(context.Context, *cli.Command) (inspect.BucketAPI, string, error) {
		return api, "us-east-1", nil
	}
	t.Cleanup(func() { newBucketAPI = old })
}

func TestVerify(t *testing.T) {
	dir, buf := setup(t, "")
	useFakeS3(t, fakeS3{versioning: types.BucketVersioningStatusEnabled})

	require.NoError(t, run(t, "verify", dir+"::HelloCdkStackRetain", "-o", "json", "--attrs", "region"))

	rows := decodeRows(t, buf)
	require.Len(t, rows, 1)
	assert.Equal(t, "my-first-bucket-test112", rows[0]["id"])
	assert.Equal(t, true, rows[0]["exists"])
	assert.Equal(t, "Enabled", rows[0]["versioning"])
	assert.Equal(t, "-", rows[0]["drift"])
	assert.Equal(t, "us-east-1", rows[0]["region"])
}

func TestVerify_Drift(t *testing.T) {
	dir, buf := setup(t, "")
	useFakeS3(t, fakeS3{})

	err := run(t, "verify", dir, "-o", "json")
	require.ErrorIs(t, err, ErrDrift)

	rows := decodeRows(t, buf)
	require.Len(t, rows, 2)
	assert.Contains(t, rows[0]["drift"], "auto-delete")
	assert.Contains(t, rows[0]["drift"], "versioning")
	assert.Contains(t, rows[1]["drift"], "versioning")
}

func TestDiffStackArgs(t *testing.T) {
	stackArgs := func(args ...string) []string {
		var got []string
		cmd := &cli.Command{
			Name: "diff",
			Action: func(_ context.Context, cmd *cli.Command) error {
				got = diffStackArgs(cmd, "HelloCdkStack")
				return nil
			},
		}
		require.NoError(t, cmd.Run(context.Background(), args))
		return got
	}

	assert.Equal(t, []string{"HelloCdkStack", "Other"}, stackArgs("diff", "/root/dir", "Other"))
	assert.Equal(t, []string{"HelloCdkStack"}, stackArgs("diff"))
}

func TestTemplatesOutput(t *testing.T) {
	one := &synth.Assembly{Stacks: []synth.StackTemplate{
		{ID: "A", Template: []byte(`{"Resources":{"B":{"Type":"AWS::S3::Bucket"}}}` + "\n")},
	}}
	two := &synth.Assembly{Stacks: append(one.Stacks,
		synth.StackTemplate{ID: "C", Template: []byte(`{"Resources":{}}`)})}

	out, err := templatesJSON(one)
	require.NoError(t, err)
	assert.Equal(t, one.Stacks[0].Template, out)

	out, err = templatesJSON(two)
	require.NoError(t, err)
	assert.JSONEq(t, `{"A":{"Resources":{"B":{"Type":"AWS::S3::Bucket"}}},"C":{"Resources":{}}}`, string(out))

	out, err = templatesYAML(one)
	require.NoError(t, err)
	assert.Equal(t, "Resources:\n  B:\n    Type: AWS::S3::Bucket\n", string(out))

	out, err = templatesYAML(two)
	require.NoError(t, err)
	assert.Contains(t, string(out), "A:\n  Resources:\n")
	assert.Contains(t, string(out), "C:\n  Resources: {}\n")
}

func TestSynth_Text(t *testing.T) {
	dir, buf := setup(t, "")

	require.NoError(t, run(t, "synth", dir))

	out := buf.String()
	assert.Contains(t, out, "HelloCdkStack")
	assert.Contains(t, out, "HelloCdkStackRetain")
	assert.Contains(t, out, "my-first-bucket-test111")
	assert.Contains(t, out, "my-first-bucket-test112")
	assert.FileExists(t, filepath.Join(dir, "cdk.out", "HelloCdkStack.template.json"))
	assert.FileExists(t, filepath.Join(dir, "cdk.out", "HelloCdkStackRetain.template.json"))
}

func TestSynth_JSON(t *testing.T) {
	dir, buf := setup(t, "")

	require.NoError(t, run(t, "synth", dir, "-o", "json"))

	var all map[string]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &all), buf.String())
	assert.Len(t, all, 2)
	assert.Contains(t, all, "HelloCdkStack")
	assert.Contains(t, all, "HelloCdkStackRetain")
	assert.NotContains(t, all["HelloCdkStack"], "Description")
}

func TestSynth_RawAndYAML(t *testing.T) {
	dir, buf := setup(t, "")

	require.NoError(t, run(t, "synth", dir+"::HelloCdkStackRetain", "-o", "raw"))
	var tpl map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &tpl), buf.String())
	assert.Contains(t, tpl, "Resources")
	assert.Contains(t, buf.String(), `"BucketName": "my-first-bucket-test112"`)
	assert.NotContains(t, buf.String(), "my-first-bucket-test111")

	buf.Reset()
	require.NoError(t, run(t, "synth", dir+"::HelloCdkStack", "-o", "yaml"))
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Contains(t, doc, "Resources")
	assert.Contains(t, buf.String(), "my-first-bucket-test111")
	assert.Contains(t, buf.String(), "Custom::S3AutoDeleteObjects")
}

func TestSynth_Quiet(t *testing.T) {
	dir, buf := setup(t, "")

	require.NoError(t, run(t, "synth", dir, "--quiet"))
	assert.Empty(t, buf.String())
	assert.FileExists(t, filepath.Join(dir, "cdk.out", "HelloCdkStack.template.json"))

	// The CDK CLI sets CDK_OUTDIR and reads the assembly from disk.
	outdir := filepath.Join(t.TempDir(), "cdk.out")
	t.Setenv("CDK_OUTDIR", outdir)
	require.NoError(t, run(t, "synth", dir))
	assert.Empty(t, buf.String())
	assert.FileExists(t, filepath.Join(outdir, "HelloCdkStack.template.json"))
	assert.FileExists(t, filepath.Join(outdir, "HelloCdkStackRetain.template.json"))

	require.NoError(t, run(t, "synth", dir, "-o", "json"))
	assert.Contains(t, buf.String(), "HelloCdkStackRetain")
}

func TestRq(t *testing.T) {
	dir, buf := setup(t, "")

	require.NoError(t, run(t, "rq", dir, "-o", "json"))

	rows := decodeRows(t, buf)
	require.NotEmpty(t, rows)

	buckets := map[string]string{}
	autoDelete := map[string]int{}
	for _, r := range rows {
		switch r["type"] {
		case "AWS::S3::Bucket":
			buckets[r["stack"].(string)] = r["deletion-policy"].(string)
		case "Custom::S3AutoDeleteObjects":
			autoDelete[r["stack"].(string)]++
		}
	}
	assert.Equal(t, map[string]string{
		"HelloCdkStack":       "Delete",
		"HelloCdkStackRetain": "Retain",
	}, buckets)
	assert.Equal(t, map[string]int{"HelloCdkStack": 1}, autoDelete)
}

func TestRq_Stack(t *testing.T) {
	dir, buf := setup(t, "")

	require.NoError(t, run(t, "rq", dir+"::HelloCdkStackRetain", "-o", "json"))

	rows := decodeRows(t, buf)
	require.Len(t, rows, 1)
	assert.Equal(t, "HelloCdkStackRetain", rows[0]["stack"])
	assert.Equal(t, "AWS::S3::Bucket", rows[0]["type"])
}

func TestDiff_TwoDeclared(t *testing.T) {
	dir, buf := setup(t, "")

	require.NoError(t, run(t, "diff", dir))

	out := buf.String()
	assert.Contains(t, out, "my-first-bucket-test111")
	assert.Contains(t, out, "my-first-bucket-test112")
	assert.NotContains(t, out, differ.Identical)
}

func TestDiff_NamedStacks(t *testing.T) {
	dir, buf := setup(t, "")

	require.NoError(t, run(t, "diff", dir+"::HelloCdkStackRetain", "HelloCdkStackRetain"))
	assert.Contains(t, buf.String(), differ.Identical)
}

func TestDiff_Against(t *testing.T) {
	dir, buf := setup(t, "")

	require.NoError(t, run(t, "synth", dir, "--quiet"))
	assembly := filepath.Join(dir, "cdk.out")

	require.NoError(t, run(t, "diff", dir+"::HelloCdkStack", "--against", assembly))
	assert.Contains(t, buf.String(), differ.Identical)

	buf.Reset()
	retain := filepath.Join(assembly, "HelloCdkStackRetain.template.json")
	require.NoError(t, run(t, "diff", dir+"::HelloCdkStack", "--against", retain))
	assert.Contains(t, buf.String(), "my-first-bucket-test112")
	assert.NotContains(t, buf.String(), differ.Identical)
}

func TestDiff_AgainstSingleDeclared(t *testing.T) {
	dir, buf := setup(t, `
stack "Solo" {
  bucket "solo-bucket-001" {}
}
`)
	against := filepath.Join(t.TempDir(), "solo.template.json")
	require.NoError(t, os.WriteFile(against, []byte(`{"Resources":{}}`), 0o600))

	require.NoError(t, run(t, "diff", dir, "--against", against))
	assert.Contains(t, buf.String(), "solo-bucket-001")
}

func TestDiff_Args(t *testing.T) {
	dir, _ := setup(t, "")

	err := run(t, "diff", dir+"::HelloCdkStack")
	assert.ErrorIs(t, err, ErrDiffArgs)

	err = run(t, "diff", dir, "--against", filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrDiffArgs)

	three := stacksHCL + `
stack "Third" {
  bucket "third-bucket-001" {}
}
`
	dir, _ = setup(t, three)
	err = run(t, "diff", dir)
	assert.ErrorIs(t, err, ErrDiffArgs)

	err = run(t, "diff", dir+"::Nope", "HelloCdkStack")
	assert.ErrorContains(t, err, "stack not synthesized")
}

func TestVerify_CacheTTL(t *testing.T) {
	dir, _ := setup(t, "")
	useFakeS3(t, fakeS3{versioning: types.BucketVersioningStatusEnabled})

	err := run(t, "verify", dir+"::HelloCdkStackRetain", "--cache-ttl", "soon")
	assert.ErrorContains(t, err, "invalid --cache-ttl")
}

func TestEndpointCredentials(t *testing.T) {
	setup(t, "")
	_, err := config.Load()
	require.NoError(t, err)

	_, _, ok := endpointCredentials()
	assert.False(t, ok, "no static keys without verify.access_key")

	cfg := filepath.Join(t.TempDir(), "hellocdk.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("verify:\n  access_key: minio\n  secret_key: minio123\n"), 0o600))
	t.Setenv("HELLOCDK_CFG_FILE", cfg)
	_, err = config.Load()
	require.NoError(t, err)

	key, secret, ok := endpointCredentials()
	assert.True(t, ok)
	assert.Equal(t, "minio", key)
	assert.Equal(t, "minio123", secret)
}

func TestValueFlags(t *testing.T) {
	diff := ValueFlags("diff")
	assert.True(t, diff["--against"])
	assert.True(t, diff["--output"])
	assert.True(t, diff["-o"])
	assert.True(t, diff["--padding"])
	assert.False(t, diff["--color"])
	assert.False(t, diff["-c"])
	assert.False(t, diff["--pick"])

	assert.Empty(t, ValueFlags("nope"))
}
