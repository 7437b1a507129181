package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/invozen/invoice-extractor/constants"
	"github.com/invozen/invoice-extractor/internal/async"
	"github.com/invozen/invoice-extractor/internal/common"
	"github.com/invozen/invoice-extractor/internal/export"
	"github.com/invozen/invoice-extractor/internal/fields"
	"github.com/invozen/invoice-extractor/internal/ingest"
	"github.com/invozen/invoice-extractor/internal/ocr"
	"github.com/invozen/invoice-extractor/internal/pipeline"
	"github.com/invozen/invoice-extractor/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory to process invoices from (required)")
		out     = flag.String("out", "", "output XLSX file path (optional, defaults to EXPORT_DIR with a timestamped name)")
		workers = flag.Int("workers", 0, "parallel workers (optional, overrides WORKERS; 1 = sequential)")
		dbURL   = flag.String("db", "", "results store DSN (optional, overrides DB_URL)")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		// no .env present is the normal case outside local development
		slog.Debug("no .env file loaded", "error", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *workers > 0 {
		cfg.Export.Workers = *workers
	}
	if *dbURL != "" {
		cfg.Database.DSN = *dbURL
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if *out == "" {
		*out = filepath.Join(cfg.Export.OutputDir, export.Filename(time.Now()))
	}

	ctx := context.Background()

	// Optional results store
	var store *repository.Store
	if cfg.Database.DSN != "" {
		var err error
		store, err = repository.Open(ctx, cfg.Database.DSN, cfg.Database.DialTimeout, logger)
		if err != nil {
			logger.Error("failed to open results store", "error", err)
			os.Exit(1)
		}
		defer func() {
			if cerr := store.Close(); cerr != nil {
				logger.Error("close results store", "error", cerr)
			}
		}()
	}

	// Stage documents
	ingestor := ingest.NewFSIngestor(logger)
	logger.Info("staging invoices", "dir", *dir)
	staged, failures, stats, err := ingestor.StageDirectory(ctx, *dir, true)
	if err != nil {
		logger.Error("failed to stage directory", "error", err)
		os.Exit(1)
	}
	logger.Info("staging complete",
		"staged", len(staged),
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"failed", stats.Failed,
		"deduplicated", stats.Deduplicated,
	)
	for _, f := range failures {
		logger.Warn("file not staged", "path", f.SourcePath, "error", f.Err)
	}
	if len(staged) == 0 {
		printError("No processable invoices found under %s\n", *dir)
		os.Exit(1)
	}

	// Build the per-document pipeline
	resolver := ocr.NewResolver(ocr.Config{
		Tesseract:          cfg.OCR.Tesseract,
		Pdftoppm:           cfg.OCR.Pdftoppm,
		TesseractLang:      cfg.OCR.TesseractLang,
		TessdataDir:        cfg.OCR.TessdataDir,
		DPI:                cfg.OCR.DPI,
		MaxPages:           cfg.OCR.MaxPages,
		TextLayerThreshold: cfg.OCR.TextLayerThreshold,
		ContrastFactor:     cfg.OCR.ContrastFactor,
	}, logger)
	extractor := fields.NewExtractor(logger)
	proc := pipeline.NewProcessor(resolver, extractor, logger)

	// Process, preserving upload order in the output rows
	results := async.NewResults(len(staged))
	queue := async.NewProcessorQueue(proc, results, logger,
		async.WithWorkers(cfg.Export.Workers),
		async.WithQueueSize(len(staged)),
		async.WithProcessTimeout(cfg.OCR.ProcessTimeout),
	)
	for i, sf := range staged {
		_ = queue.Enqueue(ctx, async.Job{Index: i, Path: sf.SourcePath, SubmittedAt: time.Now()})
	}
	queue.Shutdown(ctx)
	records := results.Records()

	ocrFailures := 0
	for _, rec := range records {
		if rec.Status != constants.StatusSuccess {
			ocrFailures++
		}
	}

	// Persist batch when a store is configured
	if store != nil {
		batchID := uuid.New()
		startedAt := time.Now().UTC()
		if err := store.CreateBatch(ctx, batchID, *dir, startedAt); err != nil {
			logger.Error("failed to persist batch", "error", err)
		} else {
			for _, rec := range records {
				if _, err := store.AddRecord(ctx, batchID, rec); err != nil {
					logger.Error("failed to persist record", "filename", rec.Filename(), "error", err)
				}
			}
			if err := store.FinishBatch(ctx, batchID, len(records), ocrFailures, time.Now().UTC()); err != nil {
				logger.Error("failed to finish batch", "error", err)
			}
			logger.Info("batch persisted", "batch_id", batchID, "records", len(records))
		}
	}

	// Export to XLSX
	exportService := export.NewService(logger)
	xlsxBytes, err := exportService.BuildXLSX(records)
	if err != nil {
		logger.Error("failed to build workbook", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
		logger.Error("failed to write output file", "path", *out, "error", err)
		os.Exit(1)
	}

	logger.Info("batch processing complete",
		"documents", len(records),
		"ocr_failures", ocrFailures,
		"output_file", *out,
	)

	fmt.Printf("Processed %d invoices\n", len(records))
	fmt.Printf("- OCR failures: %d\n", ocrFailures)
	fmt.Printf("- Output: %s\n", *out)
}
