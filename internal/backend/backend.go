// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"

	"github.com/tfctl/hellocdk/internal/backend/local"
	"github.com/tfctl/hellocdk/internal/backend/s3"
)

// Source is somewhere a template can be read from.
type Source interface {
	// Fetch returns the raw template document, JSON or YAML.
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// Options shape how a reference is resolved.
type Options struct {
	// StackID picks the template out of a cloud assembly directory.
	StackID string
	// NewS3 builds the client for s3:// references. It is only called when
	// one is resolved.
	NewS3 func(ctx context.Context) (s3.ObjectAPI, error)
	// Refresh bypasses the object cache.
	Refresh bool
}

// NewSource returns the Source for ref, which is one of -
//
//	s3://bucket/key[?version=spec]  an object version, see ovutil.Resolve
//	dir                             a cloud assembly, e.g. an older cdk.out
//	file                            a template file
func NewSource(ctx context.Context, ref string, opts Options) (Source, error) {
	log.Debugf("NewSource: ref=%s stack=%s", ref, opts.StackID)

	if strings.HasPrefix(ref, s3.Scheme) {
		loc, err := s3.ParseURL(ref)
		if err != nil {
			return nil, err
		}
		if opts.NewS3 == nil {
			return nil, fmt.Errorf("no S3 client for %s", ref)
		}
		api, err := opts.NewS3(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 client: %w", err)
		}
		return s3.NewObject(api, loc, opts.Refresh), nil
	}

	info, err := os.Stat(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	if info.IsDir() {
		return local.NewAssembly(ref, opts.StackID), nil
	}
	return local.NewFile(ref), nil
}

// Template fetches src and returns its document as JSON.
func Template(ctx context.Context, src Source) ([]byte, error) {
	doc, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	out, err := Normalize(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src, err)
	}
	return out, nil
}
