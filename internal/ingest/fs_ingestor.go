package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/invozen/invoice-extractor/constants"
)

// FSIngestor stages invoice documents from the local filesystem. Staging is
// in-memory for the lifetime of one batch: a document never outlives the run.
type FSIngestor struct {
	AllowedExts map[string]struct{} // lowercased sans '.'; nil -> default set
	logger      *slog.Logger
}

func NewFSIngestor(logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{logger: logger}
}

// StagePath validates and hashes a single file.
func (i *FSIngestor) StagePath(ctx context.Context, path string) (StagedFile, error) {
	var out StagedFile

	if err := ctx.Err(); err != nil {
		return out, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return out, fmt.Errorf("abs path: %w", err)
	}

	ext := constants.NormalizeExt(filepath.Ext(abs))
	format := constants.MapExtToFormat(ext)
	if ext == "" || !i.allowed(ext) || format == "" {
		return out, fmt.Errorf("unsupported or missing extension: %q", ext)
	}

	f, err := os.Open(abs)
	if err != nil {
		return out, fmt.Errorf("open: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			i.logger.Warn("close staged file", "path", abs, "error", cerr)
		}
	}()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return out, fmt.Errorf("hash: %w", err)
	}

	out = StagedFile{
		SourcePath: abs,
		Filename:   filepath.Base(abs),
		FileExt:    ext,
		Format:     format,
		FileSize:   size,
		HashHex:    hex.EncodeToString(h.Sum(nil)),
		StagedAt:   time.Now().UTC(),
	}
	return out, nil
}

// StageDirectory walks root, skips hidden entries if requested, and stages
// every file with an allowed extension. Files with identical content hashes
// are staged once; duplicates only bump the stats counter.
func (i *FSIngestor) StageDirectory(ctx context.Context, root string, skipHidden bool) ([]StagedFile, []Failure, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, nil, DirStats{}, errors.New("root path is required")
	}

	var staged []StagedFile
	var failures []Failure
	var stats DirStats
	seen := make(map[string]struct{})

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			failures = append(failures, Failure{SourcePath: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && IsHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !i.allowed(constants.NormalizeExt(filepath.Ext(path))) {
			return nil
		}
		stats.Matched++

		sf, err := i.StagePath(ctx, path)
		if err != nil {
			failures = append(failures, Failure{SourcePath: path, Err: err.Error()})
			stats.Failed++
			return nil
		}

		if _, dup := seen[sf.HashHex]; dup {
			stats.Deduplicated++
			i.logger.Info("duplicate content skipped", "path", path, "hash", sf.HashHex)
			return nil
		}
		seen[sf.HashHex] = struct{}{}

		staged = append(staged, sf)
		stats.Succeeded++
		return nil
	})
	if err != nil {
		return staged, failures, stats, fmt.Errorf("walk: %w", err)
	}
	return staged, failures, stats, nil
}

func (i *FSIngestor) allowed(ext string) bool {
	exts := i.AllowedExts
	if exts == nil {
		exts = constants.AllowedExtensions
	}
	_, ok := exts[ext]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
