package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/invozen/invoice-extractor/internal/common"
	"github.com/invozen/invoice-extractor/internal/fields"
	"github.com/invozen/invoice-extractor/internal/ocr"
	"github.com/invozen/invoice-extractor/internal/pipeline"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runextract <invoice-file>")
		os.Exit(2)
	}
	path := os.Args[1]
	if _, err := os.Stat(path); err != nil {
		logger.Error("cannot stat input file", "path", path, "error", err)
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.OCR.ProcessTimeout)
	defer cancel()

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
	proc := pipeline.NewProcessor(resolver, fields.NewExtractor(logger), logger)

	start := time.Now()
	rec := proc.ProcessFile(ctx, path)

	logger.Info("extraction finished",
		"filename", rec.Filename(),
		"status", string(rec.Status),
		"fields", rec.Fields.Len(),
		"needs_review", rec.NeedsReview,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	for _, w := range rec.Warnings {
		logger.Warn("extraction warning", "warning", w)
	}

	out, err := json.MarshalIndent(rec.Fields, "", "  ")
	if err != nil {
		logger.Error("marshal fields", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
