// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters narrows result rows with --filter expressions.
//
// A filter is key, operator and target, e.g. "type=AWS::S3::Bucket". Keys are
// matched against attr output keys (see package attrs). Several filters are
// comma separated (HELLOCDK_FILTER_DELIM overrides the delimiter) and a row is
// kept only if it passes all of them.
//
// Operators, each negatable with a leading '!':
//
//   - = : exact match
//   - ~ : case-insensitive match
//   - ^ : prefix match
//   - @ : substring match, or membership for lists and maps
//   - / : regular expression match
//   - < : less than (numeric when both sides are numbers)
//   - > : greater than (numeric when both sides are numbers)
//
// Examples:
//
//   - "removal-policy=destroy"
//   - "type^AWS::S3::"
//   - "BucketName!@test112"
//   - "deletion-policy/^(Delete|Retain)$"
package filters
