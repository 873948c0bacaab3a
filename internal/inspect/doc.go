// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package inspect compares deployed S3 buckets against their declarations.
// Only read-only S3 calls are issued.
package inspect
