// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package summary reduces diff results to counts by change type, by category
// and change type, and by changed field.
package summary
