// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ computes and renders differences between synthesized
// templates, and offers an interactive picker for choosing which two stacks
// to compare.
package differ
