package loader

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/just-scribblig/solar-challenge-week0/metrics"
)

// Kind classifies a recoverable per-source failure.
type Kind string

const (
	// MissingSource: the resource could not be located or read.
	MissingSource Kind = metrics.KindMissingSource
	// SchemaMismatch: the resource was read but its columns do not fit.
	SchemaMismatch Kind = metrics.KindSchemaMismatch
)

// SourceError is a recoverable warning about one source. The load that
// produced it still returns every other source.
type SourceError struct {
	Label    string
	Location string
	Kind     Kind
	Err      error
}

func (e *SourceError) Error() string {
	switch e.Kind {
	case MissingSource:
		return fmt.Sprintf("%s: %s not found or unreadable: %v", e.Label, e.Location, e.Err)
	default:
		return fmt.Sprintf("%s: %s skipped (%s): %v", e.Label, e.Location, e.Kind, e.Err)
	}
}

func (e *SourceError) Unwrap() error { return e.Err }

// SourceErrors flattens a warnings multierror into its SourceErrors.
func SourceErrors(warnings *multierror.Error) []*SourceError {
	if warnings == nil {
		return nil
	}
	out := make([]*SourceError, 0, len(warnings.Errors))
	for _, err := range warnings.Errors {
		var se *SourceError
		if errors.As(err, &se) {
			out = append(out, se)
		}
	}
	return out
}
