package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/just-scribblig/solar-challenge-week0/engine"
	"github.com/just-scribblig/solar-challenge-week0/logger"
)

func TestMain(m *testing.M) {
	logger.SetLevel(logger.LevelSilent)
	os.Exit(m.Run())
}

func dataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"benin_clean.csv": "Timestamp,GHI,DNI,DHI\nt1,10,1,5\nt2,20,3,5\n",
		"togo_clean.csv":  "Timestamp,GHI,DNI,DHI\nt1,15,2,4\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunCSV(t *testing.T) {
	dir := dataDir(t)
	code, out, stderr := runCLI(t, "",
		"-set", "data_dir="+dir, "-set", "countries=benin,togo,sierraleone", "-set", "log_level=silent",
		"-format", "csv")
	require.Equal(t, exitOK, code, stderr)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "Benin,15.00,15.00,7.07,"))
	assert.True(t, strings.HasPrefix(lines[2], "Togo,15.00,15.00,NaN,"))
}

func TestRunSideOutputs(t *testing.T) {
	dir := dataDir(t)
	outDir := t.TempDir()
	code, _, stderr := runCLI(t, "",
		"-set", "data_dir="+dir, "-set", "countries=benin,togo", "-set", "log_level=silent",
		"-countries", "Benin",
		"-out", filepath.Join(outDir, "report.json"),
		"-xlsx", filepath.Join(outDir, "summary.xlsx"),
		"-parquet", filepath.Join(outDir, "summary.parquet"),
		"-metrics-file", filepath.Join(outDir, "solarboard.prom"))
	require.Equal(t, exitOK, code, stderr)

	for _, name := range []string{"report.json", "summary.xlsx", "summary.parquet", "solarboard.prom"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
	report, err := os.ReadFile(filepath.Join(outDir, "report.json"))
	require.NoError(t, err)
	assert.Contains(t, string(report), `"labels":["Benin"]`)

	prom, err := os.ReadFile(filepath.Join(outDir, "solarboard.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), `solarboard_cache_lookups_total{result="miss"} 1`)
}

func TestRunNoData(t *testing.T) {
	code, _, stderr := runCLI(t, "",
		"-set", "data_dir="+t.TempDir(), "-set", "log_level=silent")
	assert.Equal(t, exitNoData, code)
	assert.Contains(t, stderr, "No valid data found.")

	code, _, stderr = runCLI(t, "",
		"-set", "data_dir="+dataDir(t), "-set", "log_level=silent", "-countries", "Mali")
	assert.Equal(t, exitNoData, code)
	assert.Contains(t, stderr, "No valid data found.")
}

func TestRunConfigError(t *testing.T) {
	code, _, stderr := runCLI(t, "", "-metric", "Tamb", "-set", "log_level=silent")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, `metric "Tamb": unknown column`)

	code, _, _ = runCLI(t, "", "-set", "precision")
	assert.Equal(t, exitError, code)
}

func TestRunInteractive(t *testing.T) {
	dir := dataDir(t)
	stdin := "metric=DNI\ncountries=Mali\nbogus\ncountries=Benin,Togo\nreload\nquit\n"
	code, out, stderr := runCLI(t, stdin,
		"-set", "data_dir="+dir, "-set", "countries=benin,togo", "-set", "log_level=silent",
		"-interactive", "-format", "text")
	require.Equal(t, exitOK, code, stderr)

	assert.Equal(t, 4, strings.Count(out, "Benin leads with an average GHI"))
	assert.Contains(t, out, "No valid data found.")
	assert.Contains(t, out, `Error: selection "bogus": invalid selection`)
}

func TestRunInteractiveEmptySelection(t *testing.T) {
	dir := dataDir(t)
	stdin := "countries=\nreload\nmetric=DHI\ncountries=Togo\nquit\n"
	code, out, stderr := runCLI(t, stdin,
		"-set", "data_dir="+dir, "-set", "countries=benin,togo", "-set", "log_level=silent",
		"-interactive", "-format", "text")
	require.Equal(t, exitOK, code, stderr)

	assert.Equal(t, 3, strings.Count(out, noDataMessage), "cleared selection stays empty across reload and metric changes")
	assert.Equal(t, 1, strings.Count(out, "Benin leads with an average GHI"))
	assert.Equal(t, 1, strings.Count(out, "Togo averages 15.00 W/m² GHI"))
}

func TestRunDiscover(t *testing.T) {
	dir := dataDir(t)
	code, out, stderr := runCLI(t, "", "-discover", "-file", filepath.Join(dir, "benin_clean.csv"))
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, out, `"key":"GHI"`)

	code, _, _ = runCLI(t, "", "-discover")
	assert.Equal(t, exitError, code)
}

func TestParseSelection(t *testing.T) {
	current := engine.Selection{Metric: "GHI", Labels: []string{"Benin"}}
	next, err := parseSelection("countries=Benin, Togo", current)
	require.Error(t, err, "fields are space separated")
	assert.Equal(t, current, next)

	next, err = parseSelection("countries=Benin,Togo metric=DHI", current)
	require.NoError(t, err)
	assert.Equal(t, engine.Selection{Metric: "DHI", Labels: []string{"Benin", "Togo"}}, next)

	next, err = parseSelection("countries=", current)
	require.NoError(t, err)
	assert.NotNil(t, next.Labels, "an explicit empty list is not the all-countries default")
	assert.Empty(t, next.Labels)

	next, err = parseSelection("metric=DNI", engine.Selection{Metric: "GHI"})
	require.NoError(t, err)
	assert.Nil(t, next.Labels)
}
