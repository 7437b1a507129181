package ingest

import (
	"time"

	"github.com/invozen/invoice-extractor/constants"
)

// StagedFile is one document readied for processing.
type StagedFile struct {
	SourcePath string
	Filename   string
	FileExt    string
	Format     constants.Format
	FileSize   int64
	HashHex    string
	StagedAt   time.Time
}

// DirStats aggregates one directory walk.
type DirStats struct {
	Scanned      int
	Matched      int
	Succeeded    int
	Failed       int
	Deduplicated int
}

// Failure records a file that could not be staged.
type Failure struct {
	SourcePath string
	Err        string
}
