// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output filters, transforms, sorts and renders result rows as a text
// table, JSON, YAML or the raw payload.
package output
