// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/hellocdk/internal/ovutil"
)

type fakeObjects struct {
	page   *s3v2.ListObjectVersionsOutput
	bodies map[string]string // version id -> body, "" is current
	gets   []string
	err    error
}

func (f *fakeObjects) ListObjectVersions(_ context.Context, _ *s3v2.ListObjectVersionsInput, _ ...func(*s3v2.Options)) (*s3v2.ListObjectVersionsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3v2.GetObjectInput, _ ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	id := awsv2.ToString(in.VersionId)
	f.gets = append(f.gets, id)
	body, ok := f.bodies[id]
	if !ok {
		return nil, errors.New("NoSuchVersion")
	}
	return &s3v2.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

var t0 = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func version(key, id string, at time.Time) types.ObjectVersion {
	return types.ObjectVersion{
		Key:          awsv2.String(key),
		VersionId:    awsv2.String(id),
		LastModified: awsv2.Time(at),
		Size:         awsv2.Int64(2),
	}
}

func newFake() *fakeObjects {
	return &fakeObjects{
		page: &s3v2.ListObjectVersionsOutput{
			Versions: []types.ObjectVersion{
				version("t.json", "v1", t0.Add(-3*time.Hour)),
				version("t.json", "v3", t0),
				version("t.json", "v2", t0.Add(-time.Hour)),
				version("t.json.bak", "x1", t0),
				version("t.json", "v0", t0.Add(-5*time.Hour)),
			},
			DeleteMarkers: []types.DeleteMarkerEntry{
				{Key: awsv2.String("t.json"), LastModified: awsv2.Time(t0.Add(-4 * time.Hour))},
				{Key: awsv2.String("t.json.bak"), LastModified: awsv2.Time(t0.Add(time.Hour))},
			},
		},
		bodies: map[string]string{"": `{"v":3}`, "v3": `{"v":3}`, "v2": `{"v":2}`, "v1": `{"v":1}`},
	}
}

func TestParseURL(t *testing.T) {
	loc, err := ParseURL("s3://b/templates/HelloCdkStack.json?version=CUR~1")
	require.NoError(t, err)
	assert.Equal(t, Location{Bucket: "b", Key: "templates/HelloCdkStack.json", Spec: "CUR~1"}, loc)
	assert.Equal(t, "s3://b/templates/HelloCdkStack.json?version=CUR~1", loc.String())

	loc, err = ParseURL("s3://b/k")
	require.NoError(t, err)
	assert.Equal(t, "s3://b/k", loc.String())

	for _, bad := range []string{"s3://b", "s3:///k", "http://b/k"} {
		_, err := ParseURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestVersions(t *testing.T) {
	o := NewObject(newFake(), Location{Bucket: "b", Key: "t.json"}, false)

	versions, err := o.Versions(context.Background())
	require.NoError(t, err)

	var ids []string
	for _, v := range versions {
		ids = append(ids, v.ID)
	}
	// v0 predates the delete marker; x1 is another key.
	assert.Equal(t, []string{"v3", "v2", "v1"}, ids)
	assert.Equal(t, int64(2), versions[0].Size)
}

func TestVersions_Error(t *testing.T) {
	f := newFake()
	f.err = errors.New("AccessDenied")
	_, err := NewObject(f, Location{Bucket: "b", Key: "t.json"}, false).Versions(context.Background())
	assert.ErrorContains(t, err, "AccessDenied")
}

func TestFetch(t *testing.T) {
	t.Setenv("HELLOCDK_CACHE", "0")
	t.Setenv("HELLOCDK_CACHE_DIR", t.TempDir())
	t.Setenv("HELLOCDK_CFG_FILE", t.TempDir()+"/none.yaml")
	ctx := context.Background()

	f := newFake()
	data, err := NewObject(f, Location{Bucket: "b", Key: "t.json"}, false).Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"v":3}`, string(data))
	assert.Equal(t, []string{""}, f.gets)

	f = newFake()
	data, err = NewObject(f, Location{Bucket: "b", Key: "t.json", Spec: "~1"}, false).Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(data))
	assert.Equal(t, []string{"v2"}, f.gets)

	_, err = NewObject(newFake(), Location{Bucket: "b", Key: "t.json", Spec: "~5"}, false).Fetch(ctx)
	assert.ErrorIs(t, err, ovutil.ErrNoVersion)
}

func TestFetch_Cache(t *testing.T) {
	t.Setenv("HELLOCDK_CACHE", "1")
	t.Setenv("HELLOCDK_CACHE_DIR", t.TempDir())
	t.Setenv("HELLOCDK_CFG_FILE", t.TempDir()+"/none.yaml")
	ctx := context.Background()
	loc := Location{Bucket: "b", Key: "t.json", Spec: "v1"}

	f := newFake()
	data, err := NewObject(f, loc, false).Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(data))

	// Served from the cache.
	f = newFake()
	f.bodies = map[string]string{}
	data, err = NewObject(f, loc, false).Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(data))
	assert.Empty(t, f.gets)

	// Refresh goes back to S3.
	_, err = NewObject(f, loc, true).Fetch(ctx)
	assert.ErrorContains(t, err, "NoSuchVersion")
}
