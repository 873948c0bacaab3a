// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package ovutil picks object versions out of a versioned bucket listing.
// Given the versions of one key, most recent first, it finds the ones a user
// asked for by relative index or version id prefix.
package ovutil
