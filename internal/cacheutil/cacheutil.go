// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tfctl/snapdiff/internal/log"
)

// Dir resolves the base cache directory.
// Precedence:
//  1. SNAPDIFF_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/snapdiff
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("SNAPDIFF_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "snapdiff"), true
	}
	return "", false
}

// Enabled returns true unless SNAPDIFF_CACHE explicitly disables it ("0" or
// "false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("SNAPDIFF_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// path returns where the entry for clearKey lives beneath subdirs.
func path(subdirs []string, clearKey string) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	return filepath.Join(append(append([]string{base}, subdirs...), encodeKey(clearKey))...), true
}

// Read returns the cached bytes for clearKey. Content is returned exactly as
// written.
func Read(subdirs []string, clearKey string) ([]byte, bool) {
	if !Enabled() {
		return nil, false
	}
	p, ok := path(subdirs, clearKey)
	if !ok {
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	log.Debugf("cache hit: key=%s", clearKey)
	return b, true
}

// Write stores data for clearKey beneath subdirs. The entry is written to a
// temp file and renamed so readers never see a partial entry.
func Write(subdirs []string, clearKey string, data []byte) error {
	if !Enabled() {
		return nil
	}
	p, ok := path(subdirs, clearKey)
	if !ok {
		return nil
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".entry-*")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%s bytes=%d", clearKey, len(data))
	return nil
}

// Purge removes entries older than the provided number of hours.
// If hours <= 0 or the cache dir cannot be resolved, it is a no-op.
func Purge(hours int) error {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return nil
	}

	base, ok := Dir()
	if !ok {
		return nil
	}

	maxAge := time.Duration(hours) * time.Hour
	err := filepath.Walk(base, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if info == nil || info.IsDir() || time.Since(info.ModTime()) <= maxAge {
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.WithError(err).Warnf("failed to remove cache file %s", path)
		} else {
			log.Debugf("removed cache file %s", path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// encodeKey hashes a clear text key into a file name.
func encodeKey(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}
