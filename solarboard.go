// Package solarboard compares solar irradiance across countries.
// Cleaned per-country measurement files in, summary statistics out.
//
// Usage:
//
//	import (
//	    "github.com/just-scribblig/solar-challenge-week0/engine"
//	    "github.com/just-scribblig/solar-challenge-week0/loader"
//	)
//
//	l, _ := loader.New()
//	res, err := l.Load(ctx, loader.SourcesFromPattern("data", "", []string{"benin", "togo"}))
//	dash, err := engine.Execute(res.Table, engine.Selection{Metric: "GHI", Labels: res.Loaded},
//	    engine.WithPrecision(2),
//	)
//
// The loader reads labeled sources (CSV, gzip, zstd, SQLite, Cloud Storage)
// into one table and reports unreadable sources as warnings. The engine
// filters, summarizes and ranks that table and returns render-ready output
// (chart config, table data, text reply). Exports live in the export package.
//
// The engine never performs I/O — all computation is local.
package solarboard
