// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/apex/log"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/hellocdk/internal/aws"
	"github.com/tfctl/hellocdk/internal/config"
	"github.com/tfctl/hellocdk/internal/inspect"
	"github.com/tfctl/hellocdk/internal/meta"
)

// ErrDrift is returned by verify after its report when any bucket differs
// from its declaration.
var ErrDrift = errors.New("drift detected")

var verifyDefaultAttrs = []string{".id", "stack", "exists", "versioning", "drift"}

// newS3Client builds an S3 client from the AWS flags and reports its region.
func newS3Client(ctx context.Context, cmd *cli.Command) (*s3v2.Client, string, error) {
	opts := []aws.Option{
		aws.WithProfile(cmd.String("profile")),
		aws.WithRegion(cmd.String("region")),
	}

	endpoint := cmd.String("endpoint")
	if endpoint != "" {
		if key, secret, ok := endpointCredentials(); ok {
			opts = append(opts, aws.WithStaticCredentials(key, secret))
		}
	}

	cfg, err := aws.LoadAWSConfig(ctx, opts...)
	if err != nil {
		return nil, "", err
	}
	return aws.NewS3(cfg, aws.WithS3Endpoint(endpoint)), cfg.Region, nil
}

// endpointCredentials returns the static keys configured for S3-compatible
// endpoints. Without verify.access_key the default credential chain applies.
func endpointCredentials() (string, string, bool) {
	key, err := config.GetString("verify.access_key")
	if err != nil || key == "" {
		return "", "", false
	}
	secret, _ := config.GetString("verify.secret_key", "")
	return key, secret, true
}

// newBucketAPI builds the S3 client for verify and reports its region.
var newBucketAPI = func(ctx context.Context, cmd *cli.Command) (inspect.BucketAPI, string, error) {
	return newS3Client(ctx, cmd)
}

// verifyCommandAction inspects each declared bucket, lists the reports and
// returns ErrDrift when any bucket has drifted.
func verifyCommandAction(ctx context.Context, cmd *cli.Command) error {
	drifted := false

	fetch := func(ctx context.Context, cmd *cli.Command) ([]*inspect.Row, error) {
		decls, err := loadDeclarations(cmd)
		if err != nil {
			return nil, err
		}

		api, region, err := newBucketAPI(ctx, cmd)
		if err != nil {
			return nil, err
		}

		maxAge, err := cacheTTL(cmd)
		if err != nil {
			return nil, err
		}

		clean, _ := config.GetInt("cache.clean", 24)
		reports, err := inspect.InspectAll(ctx, api, decls, inspect.Options{
			Region:     region,
			Refresh:    cmd.Bool("refresh"),
			MaxAge:     maxAge,
			CleanHours: clean,
		})
		if err != nil {
			return nil, err
		}

		for _, r := range reports {
			if r.Drifted() {
				log.Debugf("drift: bucket=%s %s", r.Bucket, r.DriftSummary())
				drifted = true
			}
		}
		return inspect.Rows(reports), nil
	}

	err := NewListActionRunner(
		"verify",
		reflect.TypeOf((*inspect.Row)(nil)).Elem(),
		verifyDefaultAttrs,
		fetch,
	).Run(ctx, cmd)
	if err != nil {
		return err
	}
	if drifted {
		return ErrDrift
	}
	return nil
}

// cacheTTL parses --cache-ttl. Empty means every bucket is inspected live.
func cacheTTL(cmd *cli.Command) (time.Duration, error) {
	v := cmd.String("cache-ttl")
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid --cache-ttl %q: want a duration such as 5m", v)
	}
	return d, nil
}

func verifyCommandBuilder(meta meta.Meta) *cli.Command {
	ttl := &cli.StringFlag{
		Name:  "cache-ttl",
		Usage: "reuse reports checked within this duration, e.g. 5m (default: always inspect live)",
	}
	NameSpacedValueChainFlagFromConfigFile("verify", meta.Config.Source, ttl)

	return (&CommandBuilder{
		Name:      "verify",
		Usage:     "check deployed buckets against their declarations",
		UsageText: "hellocdk verify [RootDir[::stack]] [options]",
		Flags:     append(NewAWSFlags("verify", meta.Config.Source), NewDeclFlag(), ttl),
		Action:    verifyCommandAction,
		Meta:      meta,
	}).Build()
}
