// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws loads AWS SDK configuration and builds the S3 client used to
// read snapshots stored in buckets.
package aws
