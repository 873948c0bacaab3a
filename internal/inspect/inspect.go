// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/tfctl/hellocdk/internal/bucket"
	"github.com/tfctl/hellocdk/internal/log"
	"github.com/tfctl/hellocdk/internal/template"
)

// Drift kinds.
const (
	DriftMissing    = "missing"
	DriftVersioning = "versioning"
	DriftAutoDelete = "auto-delete"
)

const versioningEnabled = "Enabled"

// BucketAPI is the slice of the S3 client the inspector needs. *s3.Client
// satisfies it.
type BucketAPI interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	GetBucketVersioning(ctx context.Context, params *s3.GetBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error)
	GetBucketTagging(ctx context.Context, params *s3.GetBucketTaggingInput, optFns ...func(*s3.Options)) (*s3.GetBucketTaggingOutput, error)
}

// Drift is one difference between a declaration and the deployed bucket.
type Drift struct {
	Kind string `json:"kind"`
	Want string `json:"want"`
	Got  string `json:"got"`
}

func (d Drift) String() string {
	return fmt.Sprintf("%s(want=%s,got=%s)", d.Kind, d.Want, d.Got)
}

// Report is the observed state of one declared bucket.
type Report struct {
	StackID    string            `json:"stack"`
	Bucket     string            `json:"bucket"`
	Region     string            `json:"region"`
	Exists     bool              `json:"exists"`
	Versioning string            `json:"versioning"`
	Tags       map[string]string `json:"tags"`
	Drift      []Drift           `json:"drift"`
	CheckedAt  time.Time         `json:"checkedAt"`
}

// Drifted reports whether any difference was found.
func (r Report) Drifted() bool {
	return len(r.Drift) > 0
}

// Inspect reads the deployed state of d's bucket through api.
func Inspect(ctx context.Context, api BucketAPI, d bucket.Declaration) (Report, error) {
	report := Report{
		StackID:   d.StackID,
		Bucket:    d.Name,
		Tags:      map[string]string{},
		CheckedAt: time.Now().UTC().Truncate(time.Second),
	}
	name := aws.String(d.Name)

	if _, err := api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: name}); err != nil {
		if !isNotFound(err) {
			return report, fmt.Errorf("failed to head bucket %s: %w", d.Name, err)
		}
		log.Debugf("bucket not found: %s", d.Name)
		report.Drift = append(report.Drift, Drift{Kind: DriftMissing, Want: "present", Got: "absent"})
		return report, nil
	}
	report.Exists = true

	versioning, err := api.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{Bucket: name})
	if err != nil {
		return report, fmt.Errorf("failed to get versioning for %s: %w", d.Name, err)
	}
	report.Versioning = string(versioning.Status)
	if d.Versioned && versioning.Status != types.BucketVersioningStatusEnabled {
		report.Drift = append(report.Drift, Drift{Kind: DriftVersioning, Want: versioningEnabled, Got: orNone(report.Versioning)})
	}

	tagging, err := api.GetBucketTagging(ctx, &s3.GetBucketTaggingInput{Bucket: name})
	switch {
	case err == nil:
		for _, tag := range tagging.TagSet {
			report.Tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
		}
	case errorCode(err) == "NoSuchTagSet":
		log.Debugf("bucket has no tags: %s", d.Name)
	default:
		return report, fmt.Errorf("failed to get tags for %s: %w", d.Name, err)
	}

	tagged := report.Tags[template.TagAutoDelete] == "true"
	if tagged != d.AutoDeleteObjects {
		report.Drift = append(report.Drift, Drift{
			Kind: DriftAutoDelete,
			Want: fmt.Sprintf("%t", d.AutoDeleteObjects),
			Got:  fmt.Sprintf("%t", tagged),
		})
	}

	log.Debugf("inspected bucket: %s exists=%t drift=%d", d.Name, report.Exists, len(report.Drift))
	return report, nil
}

// isNotFound reports whether err means the bucket does not exist. HeadBucket
// carries no error body, so a bare 404 counts too.
func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuch *types.NoSuchBucket
	if errors.As(err, &noSuch) {
		return true
	}
	switch errorCode(err) {
	case "NotFound", "NoSuchBucket":
		return true
	}
	var respErr *smithyhttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}

func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// DriftSummary renders the drift entries sorted by kind, or "-" when none.
func (r Report) DriftSummary() string {
	if !r.Drifted() {
		return "-"
	}
	parts := make([]string, 0, len(r.Drift))
	for _, d := range r.Drift {
		parts = append(parts, d.String())
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
