// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output turns diff results into report rows and renders them as
// text tables, JSON, YAML or CSV, and writes the CSV report file.
package output
