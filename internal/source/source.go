// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tfctl/snapdiff/internal/log"
	"github.com/tfctl/snapdiff/internal/record"
)

// ErrSourceUnavailable is matched by every SourceUnavailableError.
var ErrSourceUnavailable = errors.New("record source unavailable")

// SourceUnavailableError reports a source that could not be opened or read.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Is(target error) bool { return target == ErrSourceUnavailable }

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// Source yields the records of one snapshot.
type Source interface {
	Read(ctx context.Context) ([]record.Record, error)
	String() string
}

// Format names a record encoding.
type Format string

const (
	FormatAuto Format = ""
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Options tune how sources decode and where they connect.
type Options struct {
	// Format overrides detection by file extension.
	Format Format
	// Delimiter separates CSV fields. Zero means a comma.
	Delimiter rune
	// JSONPath is a gjson path selecting the record array.
	JSONPath string
	// Columns limits the columns read from a database. Empty reads all.
	Columns []string
	// KeyField orders database reads.
	KeyField string
	// Stdin is read for the "-" and "stdin:" uris.
	Stdin io.Reader

	AWSProfile string
	AWSRegion  string
	S3Endpoint string
}

// StdinURI names standard input. The CLI rewrites a bare "-" argument to it
// because the flag parser drops a lone "-" positional.
const StdinURI = "stdin:"

// IsStdin reports whether uri names standard input.
func IsStdin(uri string) bool { return uri == "-" || uri == StdinURI }

// New resolves uri to a Source. Supported forms are s3://bucket/key,
// postgres://...?table=name, "-" or "stdin:" for stdin, and a local file path.
func New(uri string, opts Options) (Source, error) {
	log.Debugf("resolving source: %s", uri)

	switch {
	case strings.HasPrefix(uri, "s3://"):
		return NewS3Source(uri, opts)
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return NewPostgresSource(uri, opts)
	case IsStdin(uri):
		return &readerSource{name: "stdin", r: opts.Stdin, opts: opts}, nil
	case uri == "":
		return nil, &SourceUnavailableError{Source: uri, Err: errors.New("empty source")}
	default:
		return &FileSource{Path: uri, opts: opts}, nil
	}
}

// FileSource reads a CSV or JSON snapshot from a local file.
type FileSource struct {
	Path string
	opts Options
}

func (s *FileSource) String() string { return s.Path }

// Read decodes the file.
func (s *FileSource) Read(ctx context.Context) ([]record.Record, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, &SourceUnavailableError{Source: s.Path, Err: err}
	}
	return decode(s.Path, b, s.opts)
}

// readerSource reads a snapshot from a stream.
type readerSource struct {
	name string
	r    io.Reader
	opts Options
}

func (s *readerSource) String() string { return s.name }

func (s *readerSource) Read(ctx context.Context) ([]record.Record, error) {
	if s.r == nil {
		return nil, &SourceUnavailableError{Source: s.name, Err: errors.New("no input stream")}
	}
	b, err := io.ReadAll(s.r)
	if err != nil {
		return nil, &SourceUnavailableError{Source: s.name, Err: err}
	}
	return decode(s.name, b, s.opts)
}

// decode picks the decoder from the options or the name's extension.
func decode(name string, b []byte, opts Options) ([]record.Record, error) {
	format := opts.Format
	if format == FormatAuto {
		format = detect(name, b)
	}
	log.Debugf("decoding %s as %s", name, format)

	var (
		recs []record.Record
		err  error
	)
	switch format {
	case FormatJSON:
		recs, err = DecodeJSON(b, opts.JSONPath)
	case FormatCSV:
		recs, err = DecodeCSV(bytes.NewReader(b), opts.Delimiter)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	log.Debugf("decoded %s: records=%d", name, len(recs))
	return recs, nil
}

// detect guesses the format from the extension, then from the first byte.
func detect(name string, b []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".csv", ".tsv", ".txt":
		return FormatCSV
	}
	if t := bytes.TrimSpace(b); len(t) > 0 && (t[0] == '[' || t[0] == '{') {
		return FormatJSON
	}
	return FormatCSV
}
