// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package record defines the value model shared by snapshots, the comparator
// and the renderers: tagged field values, records and snapshot keys.
package record
