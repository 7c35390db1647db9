// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"
)

// SortDataset stably sorts rows by a comma separated list of columns. A
// leading '-' sorts that column descending and a leading '!' makes string
// comparison case sensitive. Numeric columns compare numerically.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	if strings.TrimSpace(spec) == "" {
		return
	}
	fields := strings.Split(spec, ",")

	sort.SliceStable(resultSet, func(one, two int) bool {
		for _, field := range fields {
			field = strings.TrimSpace(field)

			ascending := true
			if strings.HasPrefix(field, "-") {
				field = strings.TrimPrefix(field, "-")
				ascending = false
			}

			caseSensitive := false
			if strings.HasPrefix(field, "!") {
				field = strings.TrimPrefix(field, "!")
				caseSensitive = true
			}

			oneValue := resultSet[one][field]
			twoValue := resultSet[two][field]

			oneNum, oneOk := numeric(oneValue)
			twoNum, twoOk := numeric(twoValue)

			if oneOk && twoOk {
				if oneNum != twoNum {
					if ascending {
						return oneNum < twoNum
					}
					return oneNum > twoNum
				}
				continue
			}

			// Fall back to string comparison which can also handle bools.
			oneStr := InterfaceToString(oneValue)
			twoStr := InterfaceToString(twoValue)

			if !caseSensitive {
				oneStr = strings.ToLower(oneStr)
				twoStr = strings.ToLower(twoStr)
			}

			if oneStr != twoStr {
				if ascending {
					return oneStr < twoStr
				}
				return oneStr > twoStr
			}
		}
		return false
	})
}

func numeric(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
