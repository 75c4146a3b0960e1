package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"

	"github.com/just-scribblig/solar-challenge-week0/helpers"
)

// ============================================================================
// OPENERS — location → header + rows
// ============================================================================
// Location forms:
//   data/benin_clean.csv            local CSV
//   data/benin_clean.csv.gz         gzip CSV (parallel decompression)
//   data/benin_clean.csv.zst        zstd CSV
//   gs://bucket/benin_clean.csv     Cloud Storage object (.gz/.zst work too)
//   sqlite://data/solar.db?table=x  SQLite table
// ============================================================================

const (
	gcsScheme    = "gs://"
	sqliteScheme = "sqlite://"
)

// read returns the header and rows of one source.
func (l *Loader) read(ctx context.Context, location string) ([]string, [][]string, error) {
	if strings.HasPrefix(location, sqliteScheme) {
		return l.readSQLite(ctx, location)
	}

	rc, err := l.open(ctx, location)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	r, err := decompress(location, rc)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	return helpers.ReadCSV(r)
}

func (l *Loader) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !strings.HasPrefix(location, gcsScheme) {
		return os.Open(location)
	}
	bucket, object, err := parseGCS(location)
	if err != nil {
		return nil, err
	}
	client, err := l.storageClient(ctx)
	if err != nil {
		return nil, err
	}
	return client.Bucket(bucket).Object(object).NewReader(ctx)
}

// storageClient creates the Cloud Storage client on first use, so runs that
// only read local files never need credentials.
func (l *Loader) storageClient(ctx context.Context) (*storage.Client, error) {
	l.gcsOnce.Do(func() {
		if l.gcs != nil {
			return
		}
		l.gcs, l.gcsErr = storage.NewClient(ctx)
	})
	return l.gcs, l.gcsErr
}

func parseGCS(location string) (bucket, object string, err error) {
	rest := strings.TrimPrefix(location, gcsScheme)
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("invalid Cloud Storage location %q, want gs://bucket/object", location)
	}
	return bucket, object, nil
}

// decompress picks a decoder from the location's extension.
func decompress(location string, r io.Reader) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(location, ".gz"):
		zr, err := pgzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, nil
	case strings.HasSuffix(location, ".zst"):
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return dec.IOReadCloser(), nil
	default:
		return io.NopCloser(r), nil
	}
}
