// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package hungarian

import (
	"regexp"
	"strings"
)

var (
	// camelCaseRe marks lower-to-upper and acronym-to-word boundaries.
	camelCaseRe = regexp.MustCompile(`([a-z0-9])([A-Z])|([A-Z]+)([A-Z][a-z])`)

	// hashSuffixRe matches the 8 hex digit suffix CDK appends to logical ids.
	hashSuffixRe = regexp.MustCompile(`[0-9A-F]{8}$`)
)

// IsHungarian returns true if any component of the CloudFormation type (e.g.
// AWS::S3::Bucket) appears in the logical id of that resource. The vendor
// prefix (AWS, Custom) is ignored, as is the hash suffix CDK adds to logical
// ids. Matching is case-insensitive substring containment.
func IsHungarian(typ string, logicalID string) bool {
	if typ == "" || logicalID == "" {
		return false
	}

	name := strings.ToLower(hashSuffixRe.ReplaceAllString(logicalID, ""))
	if name == "" {
		return false
	}

	for _, tok := range Tokens(typ) {
		if strings.Contains(name, tok) {
			// Hungarian - bail out.
			return true
		}
	}

	return false
}

// Tokens splits a CloudFormation type into lowercase words, dropping the
// vendor segment and anything shorter than two characters.
func Tokens(typ string) []string {
	segments := strings.Split(typ, "::")
	if len(segments) > 1 {
		segments = segments[1:]
	}

	var tokens []string
	for _, seg := range segments {
		seg = camelCaseRe.ReplaceAllString(seg, "${1}${3}_${2}${4}")
		for _, tok := range strings.Split(strings.ToLower(seg), "_") {
			if len(tok) >= 2 {
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens
}
