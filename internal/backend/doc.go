// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package backend resolves the places a previously synthesized or deployed
// CloudFormation template can be read from (a template file, a cloud
// assembly directory, or a version of an S3 object) and returns that
// template as JSON.
package backend
