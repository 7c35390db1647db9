// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/apex/log"
)

// ErrSinkWrite is matched by every SinkWriteError.
var ErrSinkWrite = errors.New("report write failed")

// SinkWriteError reports a failure to persist a report.
type SinkWriteError struct {
	Path string
	Err  error
}

func (e *SinkWriteError) Error() string {
	return fmt.Sprintf("write report %s: %v", e.Path, e.Err)
}

func (e *SinkWriteError) Is(target error) bool { return target == ErrSinkWrite }

func (e *SinkWriteError) Unwrap() error { return e.Err }

// WriteCSV writes rows as CSV with a header line of cols. Empty cells are
// written as placeholder.
func WriteCSV(w io.Writer, rows []map[string]interface{}, cols []string, placeholder string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}

	record := make([]string, len(cols))
	for _, row := range rows {
		for i, col := range cols {
			record[i] = InterfaceToString(row[col], placeholder)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVReport writes the report to path. The file is written next to its
// destination and renamed into place, so a failed write never leaves a
// partial report behind.
func WriteCSVReport(path string, rows []map[string]interface{}, cols []string, placeholder string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return &SinkWriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &SinkWriteError{Path: path, Err: err}
	}

	if err := WriteCSV(tmp, rows, cols, placeholder); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &SinkWriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return &SinkWriteError{Path: path, Err: err}
	}

	log.Debugf("wrote %d report rows to %s", len(rows), path)
	return nil
}
