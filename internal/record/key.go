// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"cmp"
	"strconv"
)

// Key identifies a record within a snapshot. It is comparable and may be used
// as a map key. Integer keys order numerically and before all string keys.
type Key struct {
	str     string
	num     int64
	numeric bool
}

// IntKey returns an integer key.
func IntKey(n int64) Key { return Key{num: n, numeric: true} }

// StringKey returns a string key.
func StringKey(s string) Key { return Key{str: s} }

// IsInt reports whether k is an integer key.
func (k Key) IsInt() bool { return k.numeric }

// Int returns the integer payload.
func (k Key) Int() int64 { return k.num }

// String renders the key as it appears in reports.
func (k Key) String() string {
	if k.numeric {
		return strconv.FormatInt(k.num, 10)
	}
	return k.str
}

// Interface returns the key as int64 or string for encoders and sorters.
func (k Key) Interface() any {
	if k.numeric {
		return k.num
	}
	return k.str
}

// Compare returns -1, 0 or +1. This is the total order used for every result
// listing.
func (k Key) Compare(o Key) int {
	switch {
	case k.numeric && o.numeric:
		return cmp.Compare(k.num, o.num)
	case k.numeric:
		return -1
	case o.numeric:
		return 1
	default:
		return cmp.Compare(k.str, o.str)
	}
}
