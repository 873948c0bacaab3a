// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package decl loads bucket declarations from an HCL file in the project root.
//
// Each stack block holds exactly one bucket block:
//
//	stack "HelloCdkStack" {
//	  description = "versioned bucket, destroyed with the stack"
//	  bucket "my-first-bucket-test111" {
//	    versioned           = true
//	    removal_policy      = "destroy"
//	    auto_delete_objects = true
//	  }
//	}
//
// The bucket label is the construct id; bucket_name defaults to it. Values may
// use env.NAME for process environment variables and the cty stdlib string
// functions (lower, upper, format, join, replace, ...). Without a file, the
// built-in variants are returned.
package decl
