package loader

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/just-scribblig/solar-challenge-week0/engine"
)

// gcsServer serves objects by name for both XML and JSON media reads.
func gcsServer(t *testing.T, objects map[string][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for name, body := range objects {
			if strings.HasSuffix(r.URL.Path, "/"+name) {
				w.Header().Set("Content-Type", "application/octet-stream")
				w.Header().Set("X-Goog-Generation", "1")
				w.Header().Set("X-Goog-Metageneration", "1")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(body)
				return
			}
		}
		http.Error(w, "No such object", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func gzipBytes(t *testing.T, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := pgzip.NewWriter(&buf)
	_, err := zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestLoadFromCloudStorage(t *testing.T) {
	srv := gcsServer(t, map[string][]byte{
		"benin_clean.csv":   []byte(headerCSV + "t1,10,1,5,25\nt2,20,3,5,26\n"),
		"togo_clean.csv.gz": gzipBytes(t, headerCSV+"t1,15,2,4,27\n"),
	})

	ctx := context.Background()
	client, err := storage.NewClient(ctx, option.WithEndpoint(srv.URL), option.WithoutAuthentication())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	rec := &countingRecorder{}
	res, err := newLoader(t, WithStorageClient(client), WithRecorder(rec)).Load(ctx, []Source{
		{Label: "Benin", Location: "gs://solar-data/benin_clean.csv"},
		{Label: "Sierraleone", Location: "gs://solar-data/sierraleone_clean.csv"},
		{Label: "Togo", Location: "gs://solar-data/togo_clean.csv.gz"},
	})
	require.NoError(t, err)

	warnings := SourceErrors(res.Warnings)
	require.Len(t, warnings, 1)
	assert.Equal(t, "Sierraleone", warnings[0].Label)
	assert.Equal(t, MissingSource, warnings[0].Kind)
	assert.True(t, errors.Is(warnings[0], storage.ErrObjectNotExist))
	assert.Equal(t, 1, rec.warnings[string(MissingSource)])

	assert.Equal(t, []string{"Benin", "Togo"}, res.Loaded)
	assert.Equal(t, []string{"Benin", "Togo"}, engine.Labels(res.Table))
	require.Equal(t, 3, res.Table.Len())
	assert.Equal(t, 20.0, res.Table.Value(1, "GHI"))
	assert.Equal(t, 15.0, res.Table.Value(2, "GHI"))
	assert.Equal(t, "27", res.Table.Cell(2, "Tamb"))
}
