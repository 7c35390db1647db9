// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package source reads snapshot records from CSV and JSON files, stdin, S3
// objects and Postgres tables.
package source
