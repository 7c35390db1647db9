// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/tfctl/snapdiff/internal/compare"
	"github.com/tfctl/snapdiff/internal/log"
	"github.com/tfctl/snapdiff/internal/record"
	"github.com/tfctl/snapdiff/internal/schema"
	"github.com/tfctl/snapdiff/internal/snapshot"
)

// options holds the engine settings.
type options struct {
	fields        schema.FieldList
	categoryField string
	mode          Mode
	workers       int
	placeholder   string
}

// Option customizes an Engine.
type Option func(*options)

// WithFields sets the ordered compared fields.
func WithFields(fields schema.FieldList) Option {
	return func(o *options) { o.fields = fields }
}

// WithCategoryField sets the field aggregated by category. Empty disables
// category resolution.
func WithCategoryField(name string) Option {
	return func(o *options) { o.categoryField = name }
}

// WithMode sets the coercion failure mode. There is no default.
func WithMode(m Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithWorkers shards classification of shared keys across n goroutines.
// n <= 1 runs serially.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithPlaceholder sets the text used for null values in change details.
func WithPlaceholder(p string) Option {
	return func(o *options) { o.placeholder = p }
}

// Engine classifies every key of two snapshots.
type Engine struct {
	opts      options
	cmp       *compare.Comparator
	formatter *Formatter
}

// New builds an Engine. At least one field and an explicit mode are required.
func New(opts ...Option) (*Engine, error) {
	o := options{placeholder: "-"}
	for _, opt := range opts {
		opt(&o)
	}
	log.Debugf("opts applied: fields=%s category=%s mode=%s workers=%d",
		o.fields.String(), o.categoryField, o.mode, o.workers)

	if len(o.fields) == 0 {
		return nil, errors.New("no compared fields configured")
	}
	if _, err := ParseMode(string(o.mode)); err != nil {
		return nil, err
	}

	return &Engine{
		opts:      o,
		cmp:       compare.New(o.fields),
		formatter: NewFormatter(o.fields, o.placeholder),
	}, nil
}

// Diff partitions the keys of prev and curr and classifies each one. Results
// are sorted by key. In strict mode the first coercion failure is returned
// and no results are produced.
func (e *Engine) Diff(ctx context.Context, prev, curr *snapshot.Snapshot) (*Outcome, error) {
	onlyPrev, onlyCurr, both := Partition(prev, curr)
	log.Debugf("partitioned: insert=%d delete=%d both=%d", len(onlyCurr), len(onlyPrev), len(both))

	results := make([]Result, 0, len(onlyPrev)+len(onlyCurr)+len(both))

	for _, k := range onlyCurr {
		rec, _ := curr.Get(k)
		results = append(results, Result{
			Key:           k,
			ChangeType:    Insert,
			ChangedFields: []string{},
			Details:       insertDetails,
			Category:      e.category(rec, nil),
		})
	}

	for _, k := range onlyPrev {
		rec, _ := prev.Get(k)
		results = append(results, Result{
			Key:           k,
			ChangeType:    Delete,
			ChangedFields: []string{},
			Details:       deleteDetails,
			Category:      e.category(nil, rec),
		})
	}

	classified, warnings, err := e.classifyAll(ctx, prev, curr, both)
	if err != nil {
		return nil, err
	}
	results = append(results, classified...)

	slices.SortFunc(results, func(a, b Result) int { return a.Key.Compare(b.Key) })

	return &Outcome{Results: results, Warnings: warnings}, nil
}

// shard is the output of one classification worker.
type shard struct {
	results  []Result
	warnings []error
}

// classifyAll classifies the shared keys, in parallel when configured. Each
// worker owns a disjoint slice of keys and its own output; the shards are
// merged by concatenation once every worker is done.
func (e *Engine) classifyAll(ctx context.Context, prev, curr *snapshot.Snapshot, keys []record.Key) ([]Result, []error, error) {
	workers := e.opts.workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(keys) {
		workers = max(len(keys), 1)
	}

	size := (len(keys) + workers - 1) / workers
	shards := make([]shard, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := min(w*size, len(keys))
		hi := min(lo+size, len(keys))
		g.Go(func() error {
			for _, k := range keys[lo:hi] {
				if err := gctx.Err(); err != nil {
					return err
				}
				old, _ := prev.Get(k)
				cur, _ := curr.Get(k)
				r, warns, err := e.classify(k, old, cur)
				if err != nil {
					return err
				}
				shards[w].results = append(shards[w].results, r)
				shards[w].warnings = append(shards[w].warnings, warns...)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		results  = make([]Result, 0, len(keys))
		warnings []error
	)
	for _, s := range shards {
		results = append(results, s.results...)
		warnings = append(warnings, s.warnings...)
	}
	return results, warnings, nil
}

// classify compares every field of a key present in both snapshots. All
// fields are evaluated since the full list of changed fields is reported.
func (e *Engine) classify(key record.Key, old, cur record.Record) (Result, []error, error) {
	var (
		changed  = []string{}
		warnings []error
	)

	for _, f := range e.opts.fields {
		eq, err := e.cmp.Equal(f.Name, key, old.Get(f.Name), cur.Get(f.Name))
		if err != nil {
			if e.opts.mode == ModeStrict {
				return Result{}, nil, fmt.Errorf("classification aborted: %w", err)
			}
			log.WithError(err).Warn("field excluded from comparison")
			warnings = append(warnings, err)
			continue
		}
		if !eq {
			changed = append(changed, f.Name)
		}
	}

	r := Result{
		Key:           key,
		ChangeType:    Unchanged,
		ChangedFields: changed,
		Category:      e.category(cur, old),
	}
	if len(changed) > 0 {
		r.ChangeType = Update
		r.Details = e.formatter.Format(changed, old, cur)
	}
	return r, warnings, nil
}

// category resolves the category value, preferring the current record.
func (e *Engine) category(cur, old record.Record) string {
	if e.opts.categoryField == "" {
		return ""
	}
	if v := cur.Get(e.opts.categoryField); !v.IsNull() {
		return v.Raw()
	}
	return old.Get(e.opts.categoryField).Raw()
}

// Partition splits the keys of two snapshots into the keys only in prev, only
// in curr, and in both. Each slice is in ascending key order.
func Partition(prev, curr *snapshot.Snapshot) (onlyPrev, onlyCurr, both []record.Key) {
	for _, k := range prev.Keys() {
		if curr.Has(k) {
			both = append(both, k)
		} else {
			onlyPrev = append(onlyPrev, k)
		}
	}
	for _, k := range curr.Keys() {
		if !prev.Has(k) {
			onlyCurr = append(onlyCurr, k)
		}
	}
	return
}
