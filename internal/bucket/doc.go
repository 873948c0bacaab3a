// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package bucket holds the bucket declaration model: the name, versioning,
// removal policy and auto-delete settings a stack registers for its single
// S3 bucket, plus the two built-in variants and local validation that runs
// before anything reaches the CDK.
package bucket
