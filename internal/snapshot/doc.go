// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package snapshot holds the immutable, keyed record sets that are compared
// by the differ. Construction validates the structural invariants: every
// record carries the key field and no key repeats.
package snapshot
