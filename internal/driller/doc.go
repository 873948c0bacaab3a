// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller walks JSON documents with dotted paths that may carry array
// indexes, e.g. "attributes.properties.Tags[0].Key".
package driller
