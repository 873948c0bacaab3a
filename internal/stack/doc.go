// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package stack defines the CDK stack that registers a single versioned S3
// bucket from a bucket.Declaration.
package stack
