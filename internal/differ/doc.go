// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ classifies every key of two snapshots as an insert, update,
// delete or unchanged record and renders the details of each update. It also
// carries the record level explain view and the interactive snapshot picker.
package differ
