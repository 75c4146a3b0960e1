package loader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/just-scribblig/solar-challenge-week0/engine"
	"github.com/just-scribblig/solar-challenge-week0/helpers"
	"github.com/just-scribblig/solar-challenge-week0/logger"
	"github.com/just-scribblig/solar-challenge-week0/metrics"
	"github.com/just-scribblig/solar-challenge-week0/schema"
)

// ============================================================================
// LOADER — labeled sources → one unified table
// ============================================================================
// For each source, in order:
//   1. Read header + rows (MissingSource warning on failure)
//   2. Check the header against the schema and the first loaded source
//      (SchemaMismatch warning on failure)
//   3. Append the label column to every row
//
// A header-only source fixes the column set but is not listed in Loaded.
//
// A load never fails because a source is absent; it fails only on a bad
// source list or a cancelled context.
// ============================================================================

// Result of one load.
type Result struct {
	RunID    string
	Table    *engine.Table
	Loaded   []string          // labels that contributed rows, in input order
	Warnings *multierror.Error // *SourceError values; nil when clean
}

// Empty reports whether no source was loaded.
func (r *Result) Empty() bool {
	return r.Table == nil || len(r.Table.Columns()) == 0
}

// Err returns engine.ErrNoData for an empty result, nil otherwise.
func (r *Result) Err() error {
	if r.Empty() {
		return fmt.Errorf("run %s: %w", r.RunID, engine.ErrNoData)
	}
	return nil
}

// Option configures a Loader.
type Option func(*Loader)

// WithSchema sets the schema headers are checked against.
func WithSchema(s schema.Config) Option {
	return func(l *Loader) { l.schema = s }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(l *Loader) {
		if r != nil {
			l.recorder = r
		}
	}
}

// WithStorageClient supplies a Cloud Storage client for gs:// sources.
func WithStorageClient(c *storage.Client) Option {
	return func(l *Loader) { l.gcs = c }
}

// Loader reads sources. It is safe for concurrent use.
type Loader struct {
	schema   schema.Config
	recorder metrics.Recorder

	gcsOnce sync.Once
	gcs     *storage.Client
	gcsErr  error
}

// New builds a Loader for the solar schema unless WithSchema says otherwise.
func New(opts ...Option) (*Loader, error) {
	l := &Loader{schema: schema.Solar(), recorder: metrics.NewNoop()}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.schema.Check(); err != nil {
		return nil, engine.NewConfigError("schema", l.schema.Name, fmt.Errorf("%v: %w", err, engine.ErrInvalidSelection))
	}
	return l, nil
}

// Schema returns the schema the loader validates against.
func (l *Loader) Schema() schema.Config { return l.schema }

// Load reads every source and concatenates the readable ones.
func (l *Loader) Load(ctx context.Context, sources []Source) (*Result, error) {
	if err := ValidateSources(sources); err != nil {
		return nil, err
	}

	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	logger.Infof("📥 Loader[%s]: loading %d sources", res.RunID, len(sources))

	var (
		columns []string
		records []engine.Record
	)
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		header, rows, err := l.read(ctx, src.Location)
		if err != nil {
			l.warn(res, src, MissingSource, err)
			continue
		}
		if err := l.schema.Validate(header); err != nil {
			l.warn(res, src, SchemaMismatch, err)
			continue
		}

		order := helpers.Identity(len(header))
		if columns == nil {
			columns = header
		} else if order, err = helpers.ColumnOrder(columns, header); err != nil {
			l.warn(res, src, SchemaMismatch, err)
			continue
		}

		if len(rows) == 0 {
			logger.Debugf("📄 Loader[%s]: %s has a header but no rows", res.RunID, src)
			continue
		}
		records = append(records, helpers.ToRecords(rows, order, src.Label)...)
		res.Loaded = append(res.Loaded, src.Label)
		logger.Debugf("📄 Loader[%s]: %s → %d rows", res.RunID, src, len(rows))
	}

	if columns == nil {
		res.Table = engine.EmptyTable()
	} else {
		all := append(append([]string(nil), columns...), l.schema.LabelColumn)
		table, err := engine.NewTable(all, l.schema.LabelColumn, records, l.schema.MetricKeys())
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		res.Table = table
	}

	l.recorder.RecordLoad(time.Since(start), len(sources), len(res.Loaded), res.Table.Len())
	if res.Empty() {
		logger.Warnf("⚠️ Loader[%s]: no source could be loaded", res.RunID)
	} else {
		logger.Infof("✅ Loader[%s]: %d rows from %d/%d sources in %s",
			res.RunID, res.Table.Len(), len(res.Loaded), len(sources), time.Since(start).Round(time.Millisecond))
	}
	return res, nil
}

func (l *Loader) warn(res *Result, src Source, kind Kind, err error) {
	se := &SourceError{Label: src.Label, Location: src.Location, Kind: kind, Err: err}
	res.Warnings = multierror.Append(res.Warnings, se)
	l.recorder.RecordSourceWarning(src.Label, string(kind))
	logger.Warnf("⚠️ %v", se)
}
