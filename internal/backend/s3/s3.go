// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tfctl/hellocdk/internal/ovutil"
)

// Scheme prefixes object references.
const Scheme = "s3://"

// ObjectAPI is the part of the S3 client reading object versions.
// *s3.Client satisfies it.
type ObjectAPI interface {
	s3v2.ListObjectVersionsAPIClient
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
}

// Location is a parsed s3:// reference.
type Location struct {
	Bucket string
	Key    string
	// Spec picks the version, see ovutil.Resolve. Empty means current.
	Spec string
}

// ParseURL parses s3://bucket/key[?version=spec].
func ParseURL(ref string) (Location, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return Location{}, fmt.Errorf("invalid object reference %s: %w", ref, err)
	}

	loc := Location{
		Bucket: u.Host,
		Key:    strings.TrimPrefix(u.Path, "/"),
		Spec:   u.Query().Get("version"),
	}
	if u.Scheme != "s3" || loc.Bucket == "" || loc.Key == "" {
		return Location{}, fmt.Errorf("invalid object reference %s: want s3://bucket/key", ref)
	}
	return loc, nil
}

func (l Location) String() string {
	s := Scheme + l.Bucket + "/" + l.Key
	if l.Spec != "" {
		s += "?version=" + l.Spec
	}
	return s
}

// Object is one version of a template stored in a versioned bucket.
type Object struct {
	API      ObjectAPI
	Location Location
	Refresh  bool
}

// NewObject returns the Object at loc, read through api.
func NewObject(api ObjectAPI, loc Location, refresh bool) *Object {
	return &Object{API: api, Location: loc, Refresh: refresh}
}

// Fetch implements backend.Source. The current version is read directly;
// any other spec lists the key's versions first. Bodies of resolved versions
// are cached by version id.
func (o *Object) Fetch(ctx context.Context) ([]byte, error) {
	if o.Location.Spec == "" {
		return o.body(ctx, "")
	}

	versions, err := o.Versions(ctx)
	if err != nil {
		return nil, err
	}
	found, err := ovutil.Resolve(versions, o.Location.Spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", o.Location, err)
	}
	id := found[0].ID
	log.Debugf("resolved %s to version %s", o.Location, id)

	if err := PurgeCache(); err != nil {
		log.WithError(err).Warn("failed to purge cache")
	}
	if !o.Refresh {
		if entry, ok := CacheReader(o.Location, id); ok {
			return entry.Data, nil
		}
	}

	data, err := o.body(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CacheWriter(o.Location, id, data); err != nil {
		log.WithError(err).Error("error writing to cache")
	}
	return data, nil
}

func (o *Object) body(ctx context.Context, versionID string) ([]byte, error) {
	input := &s3v2.GetObjectInput{
		Bucket: awsv2.String(o.Location.Bucket),
		Key:    awsv2.String(o.Location.Key),
	}
	if versionID != "" {
		input.VersionId = awsv2.String(versionID)
	}

	result, err := o.API.GetObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}
	return data, nil
}

// Versions lists the versions of the object key, most recent first. Versions
// older than the newest delete marker are dropped, as are other keys sharing
// the prefix.
func (o *Object) Versions(ctx context.Context) ([]ovutil.Version, error) {
	key := o.Location.Key
	paginator := s3v2.NewListObjectVersionsPaginator(o.API, &s3v2.ListObjectVersionsInput{
		Bucket: awsv2.String(o.Location.Bucket),
		Prefix: awsv2.String(key),
	})

	var mostRecentDelete time.Time
	var versions []ovutil.Version
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list object versions: %w", err)
		}

		for _, d := range page.DeleteMarkers {
			if awsv2.ToString(d.Key) != key {
				continue
			}
			if lm := awsv2.ToTime(d.LastModified); lm.After(mostRecentDelete) {
				mostRecentDelete = lm
			}
		}

		for _, v := range page.Versions {
			if awsv2.ToString(v.Key) != key {
				log.Debugf("Throwing away %s", awsv2.ToString(v.Key))
				continue
			}
			if v.VersionId == nil || v.LastModified == nil {
				continue
			}
			versions = append(versions, ovutil.Version{
				ID:           *v.VersionId,
				LastModified: *v.LastModified,
				Size:         awsv2.ToInt64(v.Size),
				Latest:       awsv2.ToBool(v.IsLatest),
			})
		}
	}

	current := versions[:0]
	for _, v := range versions {
		if v.LastModified.Before(mostRecentDelete) {
			continue
		}
		current = append(current, v)
	}

	sort.SliceStable(current, func(i, j int) bool {
		return current[i].LastModified.After(current[j].LastModified)
	})

	return current, nil
}

func (o *Object) String() string {
	return o.Location.String()
}
