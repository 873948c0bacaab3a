// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package synth turns bucket declarations into a synthesized CDK cloud
// assembly and hands back each stack's CloudFormation template as stable,
// indented JSON.
package synth
