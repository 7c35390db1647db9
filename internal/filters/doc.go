// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters selects report rows with --filter expressions.
//
// A specification is a comma delimited list of key-operator-target
// expressions. The delimiter can be changed with SNAPDIFF_FILTER_DELIM, which
// helps when a target holds commas. Every expression must match for a row to
// be kept.
//
// Operators:
//
//   - = : exact match
//   - ~ : case insensitive match
//   - ^ : prefix match
//   - @ : substring match, or membership for list values
//   - / : regular expression match
//   - < : less than, numeric for numeric columns
//   - > : greater than, numeric for numeric columns
//
// Any operator may be negated with a leading '!'. A key alone keeps rows
// where that column is not empty.
//
// Examples:
//
//   - "change_type=UPDATE" : only updates
//   - "change_type!=UNCHANGED" : hide unchanged records
//   - "changed_columns@price" : updates that touched price
//   - "record_id>1000" : keys above 1000
//   - "details" : rows with details text
package filters
