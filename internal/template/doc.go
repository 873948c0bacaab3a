// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package template reads synthesized CloudFormation templates: it flattens
// resources into rows for output and reads a bucket declaration back out of a
// stack's template.
package template
