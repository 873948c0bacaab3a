// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package attrs parses --attrs specs into the list of columns a command
// emits.
//
// A spec is a comma-separated list of key[:outputKey[:transform]] entries.
// Keys starting with '.' are read from the row root, other keys from the
// row's "attributes" object. A leading '!' keeps the attr for filtering and
// sorting but hides it from output. The key '*' carries a transform applied
// to every attr.
//
// Transforms: l/L lower case, u/U upper case (last one wins), t local time,
// T time ago, n truncate to n characters, -n elide the middle to n.
package attrs
