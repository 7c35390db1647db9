// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package schema declares how snapshot records are keyed and compared: the
// key field, the category field used for aggregation, and the ordered list of
// compared fields with their declared types and display rules. A schema comes
// from a YAML file, from --fields style specs, or from the built-in default.
package schema
