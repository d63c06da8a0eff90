package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"deal-radar/internal/config"
	"deal-radar/internal/engine"
	"deal-radar/internal/logger"
	"deal-radar/internal/store"
)

var version = "dev"

func main() {
	var (
		inputPath  = flag.String("input", "", "path to a request JSON file")
		batchDir   = flag.String("batch", "", "directory of request JSON files to evaluate concurrently")
		configPath = flag.String("config", "", "optional YAML config overriding defaults")
		dbPath     = flag.String("db", "", "optional SQLite snapshot database (comparables, metrics, history)")
		ingestPath = flag.String("ingest", "", "comparables JSON file to load into the snapshot database")
		category   = flag.String("category", "", "category for -ingest")
		pretty     = flag.Bool("pretty", false, "indent JSON output")
		debug      = flag.Bool("debug", false, "enable debug logging")
		ver        = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *ver {
		fmt.Println(version)
		return
	}

	logger.SetDebug(*debug)
	logger.Banner(version)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("Config", "%v", err)
		os.Exit(1)
	}

	var snapshot *store.Store
	if *dbPath != "" {
		snapshot, err = store.Open(*dbPath)
		if err != nil {
			logger.Error("DB", "Failed to open snapshot database: %v", err)
			os.Exit(1)
		}
		defer snapshot.Close()
	}

	switch {
	case *ingestPath != "":
		if snapshot == nil || *category == "" {
			logger.Error("Ingest", "-ingest requires -db and -category")
			os.Exit(1)
		}
		if err := ingest(snapshot, *category, *ingestPath); err != nil {
			logger.Error("Ingest", "%v", err)
			os.Exit(1)
		}
	case *batchDir != "":
		if err := runBatch(cfg, snapshot, *batchDir, *pretty); err != nil {
			logger.Error("Batch", "%v", err)
			os.Exit(1)
		}
	case *inputPath != "":
		if err := runSingle(cfg, snapshot, *inputPath, *pretty); err != nil {
			logger.Error("Eval", "%v", err)
			os.Exit(1)
		}
	default:
		logger.Error("CLI", "One of -input, -batch, or -ingest is required")
		flag.Usage()
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Info("Config", "Loaded %s", path)
	return cfg, nil
}

// loadRequest reads a request file and, when a snapshot database is
// available, fills in missing comparables and market metrics from it.
func loadRequest(snapshot *store.Store, path string) (*engine.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	req, err := engine.ParseRequest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if snapshot == nil {
		return req, nil
	}
	if len(req.Comparables) == 0 {
		comps, err := snapshot.LoadComparables(req.Category)
		if err != nil {
			return nil, err
		}
		req.Comparables = comps
		logger.Debug("DB", "Loaded %d comparables for %s", len(comps), req.Category)
	}
	if req.MarketMetrics == nil {
		metrics, err := snapshot.LoadMarketMetrics(req.Category)
		if err != nil {
			return nil, err
		}
		req.MarketMetrics = metrics
	}
	return req, nil
}

func printPayload(payload engine.DecisionPayload, pretty bool) error {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(payload)
}

func runSingle(cfg *config.Config, snapshot *store.Store, path string, pretty bool) error {
	req, err := loadRequest(snapshot, path)
	if err != nil {
		return err
	}

	eng := engine.New(cfg)
	payload := eng.Compute(req)

	logger.Section("Decision")
	logger.Stats("action", payload.Action)
	logger.Stats("deal score", payload.DealScore)
	logger.Stats("confidence", payload.TMV.Confidence)
	logger.Stats("samples", payload.TMV.SampleSize)

	if snapshot != nil {
		if err := snapshot.RecordDecision(time.Now().UTC().Format(time.RFC3339), req, payload); err != nil {
			logger.Warn("DB", "Failed to record decision: %v", err)
		}
	}
	return printPayload(payload, pretty)
}

// runBatch evaluates every *.json request in a directory concurrently
// and streams the payloads to stdout in completion order.
func runBatch(cfg *config.Config, snapshot *store.Store, dir string, pretty bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}

	eng := engine.New(cfg)
	var metrics *store.MetricsCache
	if snapshot != nil {
		metrics = store.NewMetricsCache(snapshot, 5*time.Minute)
	}

	var g errgroup.Group
	g.SetLimit(8)
	results := make(chan engine.DecisionPayload)

	done := make(chan error, 1)
	go func() {
		var printErr error
		for payload := range results {
			if err := printPayload(payload, pretty); err != nil && printErr == nil {
				printErr = err
			}
		}
		done <- printErr
	}()

	evaluated := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		evaluated++
		path := filepath.Join(dir, entry.Name())
		g.Go(func() error {
			req, err := loadRequest(snapshot, path)
			if err != nil {
				return err
			}
			if req.MarketMetrics == nil && metrics != nil {
				m, err := metrics.Get(req.Category)
				if err != nil {
					return err
				}
				req.MarketMetrics = m
			}
			payload := eng.Compute(req)
			if snapshot != nil {
				if err := snapshot.RecordDecision(time.Now().UTC().Format(time.RFC3339), req, payload); err != nil {
					logger.Warn("DB", "Failed to record decision for %s: %v", path, err)
				}
			}
			results <- payload
			return nil
		})
	}

	runErr := g.Wait()
	close(results)
	if err := <-done; err != nil && runErr == nil {
		runErr = err
	}
	logger.Success("Batch", "Evaluated %d requests", evaluated)
	return runErr
}

func ingest(snapshot *store.Store, category, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	var comps []engine.ComparableInput
	if err := json.Unmarshal(data, &comps); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	if err := snapshot.SaveComparables(category, comps); err != nil {
		return err
	}
	logger.Success("Ingest", "Stored %d comparables for %s", len(comps), category)
	return nil
}
