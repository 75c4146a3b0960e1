package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/just-scribblig/solar-challenge-week0/config"
	"github.com/just-scribblig/solar-challenge-week0/engine"
	"github.com/just-scribblig/solar-challenge-week0/export"
	"github.com/just-scribblig/solar-challenge-week0/loader"
	"github.com/just-scribblig/solar-challenge-week0/logger"
	"github.com/just-scribblig/solar-challenge-week0/metrics"
	"github.com/just-scribblig/solar-challenge-week0/schema"
)

// ============================================================================
// SOLARBOARD CLI — Cross-country solar irradiance comparison
// ============================================================================

const version = "0.1.0"

const (
	exitOK     = 0
	exitError  = 1
	exitNoData = 2
)

// noDataMessage is shown whenever there is nothing to aggregate.
const noDataMessage = "No valid data found."

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configPath  string
	envFile     string
	metric      string
	countries   string
	format      string
	outFile     string
	xlsxPath    string
	parquetPath string
	plotsDir    string
	metricsFile string
	discover    bool
	filePath    string
	interactive bool
	overrides   multiFlag
}

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (m *multiFlag) String() string     { return strings.Join(*m, ",") }
func (m *multiFlag) Set(v string) error { *m = append(*m, v); return nil }

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("solarboard", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// ── Flags ─────────────────────────────────────────────────────────────
	var o options
	fs.StringVar(&o.configPath, "config", "", "Path to YAML config file")
	fs.StringVar(&o.envFile, "env", "", "Path to .env file (default: ./.env if present)")
	fs.StringVar(&o.metric, "metric", "", "Metric for the distribution: GHI, DNI or DHI (default from config)")
	fs.StringVar(&o.countries, "countries", "", "Comma-separated countries to compare (default: all loaded)")
	fs.StringVar(&o.format, "format", "json", "Output format: json, pretty, text, csv")
	fs.StringVar(&o.outFile, "out", "", "Write output to file instead of stdout")
	fs.StringVar(&o.xlsxPath, "xlsx", "", "Also write the summary workbook to this path")
	fs.StringVar(&o.parquetPath, "parquet", "", "Also write raw summary statistics as Parquet")
	fs.StringVar(&o.plotsDir, "plots", "", "Also render boxplot and ranking PNGs into this directory")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format on exit")
	fs.BoolVar(&o.discover, "discover", false, "Print the auto-detected schema of -file and exit")
	fs.StringVar(&o.filePath, "file", "", "CSV file for -discover")
	fs.BoolVar(&o.interactive, "interactive", false, "Read selections from stdin, reusing the loaded data")
	fs.Var(&o.overrides, "set", "Override a config key, e.g. -set precision=3 (repeatable)")
	showVersion := fs.Bool("version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Solarboard — Cross-country solar potential comparison

Usage:
  solarboard -metric GHI -countries Benin,Togo --format text
  solarboard -config solarboard.yaml -format csv -out summary.csv
  solarboard -xlsx summary.xlsx -parquet summary.parquet -plots ./charts
  solarboard -discover -file data/benin_clean.csv -format pretty
  solarboard -interactive

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(stderr, `
Environment:
  SOLARBOARD_DATA_DIR, SOLARBOARD_COUNTRIES, SOLARBOARD_PRECISION, ...
  Any top-level config key, upper-cased, with the SOLARBOARD_ prefix.

Formats:
  json      Full JSON report (default)
  pretty    Pretty-printed JSON
  text      Reply and summary table
  csv       Summary table as CSV (ready for Sheets/Excel)

Interactive commands:
  metric=DNI countries=Benin,Togo   refresh with a new selection
  reload                            drop cached data and reload
  quit
`)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}
	if *showVersion {
		fmt.Fprintf(stdout, "solarboard %s\n", version)
		return exitOK
	}

	// ── Discover mode ─────────────────────────────────────────────────────
	if o.discover {
		if o.filePath == "" {
			fmt.Fprintln(stderr, "Error: -file is required with -discover")
			fs.Usage()
			return exitError
		}
		return report(stderr, discover(stdout, o))
	}

	return report(stderr, dashboard(ctx, stdin, stdout, o))
}

// report prints err and maps it to an exit code.
func report(stderr io.Writer, err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, engine.ErrNoData):
		fmt.Fprintln(stderr, noDataMessage)
		logger.Debugf("%v", err)
		return exitNoData
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		logger.Errorf("❌ %v", err)
		return exitError
	}
}

func discover(stdout io.Writer, o options) error {
	f, err := os.Open(o.filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	sch, err := schema.DiscoverFromCSV(f)
	if err != nil {
		return fmt.Errorf("auto-detect failed: %w", err)
	}
	logger.Infof("🔍 Auto-Detect: %s (%d metrics, %d passthrough)",
		sch.Name, len(sch.Metrics), len(sch.PassthroughColumns))

	return withOutput(stdout, o.outFile, func(w io.Writer) error {
		return export.WriteJSON(w, sch, o.format == "pretty")
	})
}

func dashboard(ctx context.Context, stdin io.Reader, stdout io.Writer, o options) error {
	// ── Config ────────────────────────────────────────────────────────────
	cfg, err := config.Load(o.configPath, o.envFile)
	if err != nil {
		return err
	}
	overrides, err := config.ParseOverrides(o.overrides)
	if err != nil {
		return err
	}
	if o.metric != "" {
		overrides["metric"] = o.metric
	}
	if err := cfg.ApplyOverrides(overrides); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.SetLogLevel(cfg.LogLevel)

	metricsFile := o.metricsFile
	if metricsFile == "" {
		metricsFile = cfg.MetricsFile
	}
	var recorder metrics.Recorder = metrics.NewNoop()
	var prom *metrics.PrometheusRecorder
	if metricsFile != "" {
		prom = metrics.NewPrometheus()
		recorder = prom
		defer func() {
			if err := prom.WriteTextfile(metricsFile); err != nil {
				logger.Warnf("⚠️ Failed to write metrics to %s: %v", metricsFile, err)
			}
		}()
	}

	// ── Load ──────────────────────────────────────────────────────────────
	l, err := loader.New(loader.WithSchema(cfg.SchemaConfig()), loader.WithRecorder(recorder))
	if err != nil {
		return err
	}
	s := &session{
		sources: cfg.LoaderSources(),
		cache:   loader.NewCache(l, recorder),
		opts:    append(cfg.EngineOptions(), engine.WithRecorder(recorder)),
		out:     o,
	}

	// nil Labels means every loaded country; an explicit empty list selects none.
	sel := engine.Selection{Metric: cfg.Metric}
	if o.countries != "" {
		sel.Labels = splitList(o.countries)
	}
	if !o.interactive {
		return s.refresh(ctx, stdout, sel)
	}
	return s.loop(ctx, stdin, stdout, sel)
}

// session holds what survives between refreshes.
type session struct {
	sources []loader.Source
	cache   *loader.Cache
	opts    []engine.Option
	out     options
}

// refresh loads (or reuses) the data, computes one dashboard and writes
// every requested output.
func (s *session) refresh(ctx context.Context, stdout io.Writer, sel engine.Selection) error {
	res, err := s.cache.Load(ctx, s.sources)
	if err != nil {
		return err
	}
	if err := res.Err(); err != nil {
		return err
	}
	if sel.Labels == nil {
		sel.Labels = res.Loaded
	}

	d, err := engine.Execute(res.Table, sel, s.opts...)
	if err != nil {
		return err
	}
	logger.Infof("📊 Run %s: %s over %d rows of %s", res.RunID, sel.Metric, d.Rows, strings.Join(d.Labels, ", "))

	err = withOutput(stdout, s.out.outFile, func(w io.Writer) error {
		switch s.out.format {
		case "csv":
			return export.WriteCSV(w, d)
		case "text":
			return export.WriteText(w, d)
		default:
			return export.WriteJSON(w, export.NewReport(res, s.sources, d), s.out.format == "pretty")
		}
	})
	if err != nil {
		return err
	}
	if s.out.outFile != "" {
		logger.Infof("📄 %s written to %s", strings.ToUpper(s.out.format), s.out.outFile)
	}

	// ── Side outputs ──────────────────────────────────────────────────────
	if s.out.xlsxPath != "" {
		if err := export.WriteXLSX(s.out.xlsxPath, res.RunID, d); err != nil {
			return err
		}
		logger.Infof("📄 Workbook written to %s", s.out.xlsxPath)
	}
	if s.out.parquetPath != "" {
		if err := export.WriteParquet(s.out.parquetPath, res.RunID, d.Summary); err != nil {
			return err
		}
		logger.Infof("📄 Parquet written to %s", s.out.parquetPath)
	}
	if s.out.plotsDir != "" {
		paths, err := export.RenderPlots(s.out.plotsDir, d)
		if err != nil {
			return err
		}
		logger.Infof("🖼️ %d charts written to %s", len(paths), s.out.plotsDir)
	}
	return nil
}

// loop applies one selection per stdin line until EOF or "quit". Data and
// ConfigErrors are reported and the loop continues.
func (s *session) loop(ctx context.Context, stdin io.Reader, stdout io.Writer, sel engine.Selection) error {
	if err := s.refresh(ctx, stdout, sel); err != nil && !recoverable(err) {
		return err
	} else if err != nil {
		fmt.Fprintln(stdout, describe(err))
	}

	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "reload":
			s.cache.Clear()
		default:
			next, err := parseSelection(line, sel)
			if err != nil {
				fmt.Fprintln(stdout, describe(err))
				continue
			}
			sel = next
		}
		if err := s.refresh(ctx, stdout, sel); err != nil {
			if !recoverable(err) {
				return err
			}
			fmt.Fprintln(stdout, describe(err))
		}
	}
	return scanner.Err()
}

func recoverable(err error) bool {
	return errors.Is(err, engine.ErrNoData) || engine.IsConfigError(err)
}

func describe(err error) string {
	if errors.Is(err, engine.ErrNoData) {
		return noDataMessage
	}
	return "Error: " + err.Error()
}

// parseSelection reads "metric=DNI countries=Benin,Togo"; omitted keys keep
// their current value.
func parseSelection(line string, current engine.Selection) (engine.Selection, error) {
	next := current
	for _, field := range strings.Fields(line) {
		k, v, ok := strings.Cut(field, "=")
		if !ok {
			return current, engine.NewConfigError("selection", field, engine.ErrInvalidSelection)
		}
		switch k {
		case "metric":
			next.Metric = v
		case "countries":
			next.Labels = splitList(v)
		default:
			return current, engine.NewConfigError("selection", k, engine.ErrInvalidSelection)
		}
	}
	return next, nil
}

// ============================================================================
// HELPERS
// ============================================================================

// splitList never returns nil, so "countries=" stays an empty selection.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// withOutput runs write against the -out file, or stdout when none is set.
func withOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
