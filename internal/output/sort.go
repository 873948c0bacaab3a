// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"
)

// SortDataset sorts rows by a comma-separated list of output keys. A leading
// '-' sorts descending and a leading '!' compares case-sensitively. Numbers
// compare numerically, everything else as strings.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	if spec == "" {
		return
	}
	fields := strings.Split(spec, ",")

	sort.SliceStable(resultSet, func(one, two int) bool {
		for _, field := range fields {
			field = strings.TrimSpace(field)

			ascending := !strings.HasPrefix(field, "-")
			field = strings.TrimPrefix(field, "-")

			caseSensitive := strings.HasPrefix(field, "!")
			field = strings.TrimPrefix(field, "!")

			oneValue, twoValue := resultSet[one][field], resultSet[two][field]

			oneNum, oneOk := oneValue.(float64)
			twoNum, twoOk := twoValue.(float64)
			if oneOk && twoOk {
				if oneNum != twoNum {
					return (oneNum < twoNum) == ascending
				}
				continue
			}

			oneStr := InterfaceToString(oneValue)
			twoStr := InterfaceToString(twoValue)
			if !caseSensitive {
				oneStr, twoStr = strings.ToLower(oneStr), strings.ToLower(twoStr)
			}
			if oneStr != twoStr {
				return (oneStr < twoStr) == ascending
			}
		}
		return false
	})
}
