// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package bucket

// Stack ids of the built-in variants.
const (
	VariantAStackID = "HelloCdkStack"
	VariantBStackID = "HelloCdkStackRetain"
)

// VariantA is versioned and torn down, contents included, with its stack.
func VariantA() Declaration {
	return Declaration{
		StackID:           VariantAStackID,
		Name:              "my-first-bucket-test111",
		Versioned:         true,
		RemovalPolicy:     RemovalPolicyDestroy,
		AutoDeleteObjects: true,
	}
}

// VariantB is versioned and left to the provider's default removal policy.
func VariantB() Declaration {
	return Declaration{
		StackID:   VariantBStackID,
		Name:      "my-first-bucket-test112",
		Versioned: true,
	}
}

// Builtin returns both variants, A first.
func Builtin() []Declaration {
	return []Declaration{VariantA(), VariantB()}
}
