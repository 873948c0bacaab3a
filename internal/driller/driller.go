// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// segmentRegex matches one path segment: a key with an optional [n], [*] or
// [] suffix. CloudFormation keys may contain ':' (aws:cdk:path), so it is
// allowed too.
var segmentRegex = regexp.MustCompile(`^([a-zA-Z0-9_:-]+)(\[(\d+|\*)?\])?$`)

// Driller navigates jsonData along path. Single element arrays collapse to
// their element unless [*] asks for the whole array. A missing key or bad
// index yields an empty result.
func Driller(jsonData string, path string) gjson.Result {
	current := gjson.Parse(jsonData)
	if path == "" {
		return current
	}

	for _, p := range strings.Split(path, ".") {
		matches := segmentRegex.FindStringSubmatch(p)
		if len(matches) == 0 {
			return gjson.Result{}
		}

		val := current.Get(gjson.Escape(matches[1]))
		if !val.Exists() {
			return gjson.Result{}
		}

		if val.IsArray() {
			arr := val.Array()
			switch idx := matches[3]; idx {
			case "*":
				// Keep the whole list.
			case "":
				if len(arr) == 1 {
					val = arr[0]
				}
			default:
				i, err := strconv.Atoi(idx)
				if err != nil || i >= len(arr) {
					return gjson.Result{}
				}
				val = arr[i]
			}
		}

		current = val
	}

	return current
}
