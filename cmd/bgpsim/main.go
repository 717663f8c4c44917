// Command bgpsim runs the inter-domain routing simulation engine:
// build the AS relationship graph, check it for provider cycles, load
// the ROV-deploying AS set, seed origin announcements, propagate
// routes under Gao-Rexford policy, and dump the resulting RIBs to CSV
// (spec.md §6, grounded on original_source/src/main.cpp's exact phase
// narration and exit codes, and
// Emeline-1-anaximander_simulator/main.go's log.SetFlags(0) style).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cooperfrank/bgp-simulator/cache"
	"github.com/cooperfrank/bgp-simulator/config"
	"github.com/cooperfrank/bgp-simulator/graph"
	"github.com/cooperfrank/bgp-simulator/ioformat"
	"github.com/cooperfrank/bgp-simulator/metrics"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("bgpsim", flag.ContinueOnError)
	relationshipsPath := fs.String("relationships", "", "path to the CAIDA as-rel2 relationship file (required)")
	announcementsPath := fs.String("announcements", "", "path to the origin announcements CSV (required)")
	rovASNsPath := fs.String("rov-asns", "", "path to the ROV-deploying ASN list (required)")
	configPath := fs.String("config", "", "path to an optional YAML config file")
	workers := fs.Int("workers", 0, "propagation worker count (0 = use config/default)")
	outPath := fs.String("out", "", "RIB dump output path (default ribs.csv, or config output_path)")
	cacheDBPath := fs.String("cache-db", "", "sqlite3 cache db path (default: caching disabled)")
	metricsAddr := fs.String("metrics-addr", "", "address to serve /metrics and /healthz on (default: disabled)")
	logLevel := fs.String("log-level", "", "debug, info, warn, or error")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *relationshipsPath == "" || *announcementsPath == "" || *rovASNsPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: bgpsim --relationships <path> --announcements <path> --rov-asns <path> [options]")
		fs.PrintDefaults()
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		return 1
	}
	applyOverrides(cfg, *workers, *outPath, *cacheDBPath, *metricsAddr, *logLevel)

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	metrics.Register()
	if cfg.MetricsAddr != "" {
		srv := metricsServer(cfg.MetricsAddr, logger)
		if srv != nil {
			defer srv.Shutdown(context.Background())
		}
	}

	return runEngine(cfg, *relationshipsPath, *announcementsPath, *rovASNsPath, logger)
}

func applyOverrides(cfg *config.Config, workers int, out, cacheDB, metricsAddr, logLevel string) {
	if workers > 0 {
		cfg.Workers = workers
	}
	if out != "" {
		cfg.OutputPath = out
	}
	if cacheDB != "" {
		cfg.CacheDBPath = cacheDB
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
}

func newLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zap.DebugLevel
	case "warn":
		zapLevel = zap.WarnLevel
	case "error":
		zapLevel = zap.ErrorLevel
	default:
		zapLevel = zap.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(zapLevel)
	zapCfg.EncoderConfig.TimeKey = "ts"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func metricsServer(addr string, logger *zap.Logger) *metrics.Server {
	srv := metrics.NewServer(addr, logger)
	if err := srv.Start(); err != nil {
		logger.Error("failed to start metrics server", zap.Error(err))
		return nil
	}
	return srv
}

func runEngine(cfg *config.Config, relationshipsPath, announcementsPath, rovASNsPath string, logger *zap.Logger) int {
	g := graph.New()

	logger.Info("building graph from relationship file", zap.String("path", relationshipsPath))
	buildGraph(g, relationshipsPath, cfg.CacheDBPath, logger)
	logger.Info("built graph from relationship file", zap.Int("ases", g.Len()))

	logger.Info("checking for provider cycles")
	if g.HasProviderCycle() {
		logger.Error("provider/customer relationship cycle detected", zap.String("path", relationshipsPath))
		return 1
	}
	logger.Info("checked for provider cycles: none found")

	logger.Info("loading ROV-deploying ASNs", zap.String("path", rovASNsPath))
	loadROVSet(g, rovASNsPath, logger)
	logger.Info("loaded ROV-deploying ASNs")

	logger.Info("seeding announcements", zap.String("path", announcementsPath))
	seedAnnouncements(g, announcementsPath, logger)
	logger.Info("seeded announcements")

	logger.Info("propagating announcements", zap.Int("workers", cfg.Workers))
	if err := g.Propagate(cfg.Workers); err != nil {
		logger.Error("failed to propagate announcements", zap.Error(err))
		return 1
	}
	logger.Info("propagated announcements")

	logger.Info("writing RIB dump", zap.String("path", cfg.OutputPath))
	if err := dumpRIBs(g, cfg.OutputPath); err != nil {
		logger.Error("failed to write RIB dump", zap.Error(err))
		return 1
	}
	logger.Info("wrote RIB dump", zap.String("path", cfg.OutputPath))
	return 0
}

// buildGraph installs edges from path into g. A relationship file that
// can't be opened is logged and skipped, leaving the graph as-is
// (spec.md §5, §7: an unreadable input file is recoverable, treated as
// empty, never fatal — matching original_source/src/ASGraph.cpp's
// buildGraphFromFile, which prints an error and returns without
// aborting).
func buildGraph(g *graph.Graph, path, cacheDBPath string, logger *zap.Logger) {
	if cacheDBPath != "" {
		c, err := cache.Open(cacheDBPath)
		if err != nil {
			logger.Warn("cache unavailable, parsing without it", zap.Error(err))
		} else {
			defer c.Close()
			if edges, ok := c.Lookup(path); ok {
				logger.Info("cache hit for relationship file", zap.String("path", path))
				installEdges(g, edges)
				return
			}

			r, edges, err := parseRelationshipFile(path)
			if err != nil {
				logger.Warn("relationship file unreadable, treating as empty", zap.String("path", path), zap.Error(err))
				return
			}
			defer r.Close()
			installEdges(g, edges)
			if err := c.Store(path, edges); err != nil {
				logger.Warn("failed to write cache", zap.Error(err))
			}
			return
		}
	}

	r, edges, err := parseRelationshipFile(path)
	if err != nil {
		logger.Warn("relationship file unreadable, treating as empty", zap.String("path", path), zap.Error(err))
		return
	}
	defer r.Close()
	installEdges(g, edges)
}

func parseRelationshipFile(path string) (*ioformat.CompressedReader, []ioformat.Edge, error) {
	r := ioformat.NewCompressedReader(path)
	if err := r.Open(); err != nil {
		return nil, nil, err
	}
	edges, err := ioformat.ParseRelationships(r.Reader())
	if err != nil {
		r.Close()
		return nil, nil, err
	}
	return r, edges, nil
}

func installEdges(g *graph.Graph, edges []ioformat.Edge) {
	for _, e := range edges {
		switch e.Kind {
		case ioformat.EdgeProvider:
			g.AddProvider(e.X, e.Y)
			metrics.EdgesParsed.WithLabelValues("provider").Inc()
		case ioformat.EdgePeer:
			g.AddPeer(e.X, e.Y)
			metrics.EdgesParsed.WithLabelValues("peer").Inc()
		}
	}
}

// loadROVSet loads the ROV-deploying ASN set. A file that can't be
// opened is logged and skipped, leaving no AS marked as ROV-deploying
// (spec.md §5, §7: same non-fatal handling as buildGraph).
func loadROVSet(g *graph.Graph, path string, logger *zap.Logger) {
	r := ioformat.NewCompressedReader(path)
	if err := r.Open(); err != nil {
		logger.Warn("ROV-asns file unreadable, treating as empty", zap.String("path", path), zap.Error(err))
		return
	}
	defer r.Close()

	for _, asn := range ioformat.ParseROVSet(r.Reader()) {
		g.SetROV(asn)
	}
}

// seedAnnouncements seeds origin announcements. A file that can't be
// opened is logged and skipped, leaving no origin announcements seeded
// (spec.md §5, §7: same non-fatal handling as buildGraph).
func seedAnnouncements(g *graph.Graph, path string, logger *zap.Logger) {
	r := ioformat.NewCompressedReader(path)
	if err := r.Open(); err != nil {
		logger.Warn("announcements file unreadable, treating as empty", zap.String("path", path), zap.Error(err))
		return
	}
	defer r.Close()

	records, warnings := ioformat.ParseAnnouncements(r.Reader())
	for _, w := range warnings {
		logger.Warn("skipping malformed announcement row", zap.Error(w))
	}
	for _, rec := range records {
		g.SeedOrigin(rec.SeedASN, rec.Prefix, rec.ROVInvalid)
	}
}

func dumpRIBs(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return g.DumpRIBs(f)
}
