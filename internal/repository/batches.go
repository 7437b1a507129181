package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/invozen/invoice-extractor/internal/fields"
	"github.com/invozen/invoice-extractor/internal/pipeline"
)

// BatchRepository persists batch runs and their per-document records.
type BatchRepository interface {
	CreateBatch(ctx context.Context, id uuid.UUID, sourceDir string, startedAt time.Time) error
	FinishBatch(ctx context.Context, id uuid.UUID, documents, failures int, finishedAt time.Time) error
	AddRecord(ctx context.Context, batchID uuid.UUID, rec pipeline.Record) (uuid.UUID, error)
	ListRecords(ctx context.Context, batchID uuid.UUID) ([]StoredRecord, error)
}

// StoredRecord is one persisted per-document result.
type StoredRecord struct {
	ID          uuid.UUID
	BatchID     uuid.UUID
	Filename    string
	Status      string
	Fields      *fields.Map
	Warnings    []string
	NeedsReview bool
	CreatedAt   time.Time
}

func (s *Store) CreateBatch(ctx context.Context, id uuid.UUID, sourceDir string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO batches (id, source_dir, started_at) VALUES (?, ?, ?)`),
		id.String(), sourceDir, startedAt.UTC(),
	)
	if err != nil {
		s.logger.Error("failed to create batch", "batch_id", id, "error", err)
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

func (s *Store) FinishBatch(ctx context.Context, id uuid.UUID, documents, failures int, finishedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind(`UPDATE batches SET finished_at = ?, documents = ?, failures = ? WHERE id = ?`),
		finishedAt.UTC(), documents, failures, id.String(),
	)
	if err != nil {
		s.logger.Error("failed to finish batch", "batch_id", id, "error", err)
		return fmt.Errorf("finish batch: %w", err)
	}
	return nil
}

func (s *Store) AddRecord(ctx context.Context, batchID uuid.UUID, rec pipeline.Record) (uuid.UUID, error) {
	id := uuid.New()

	fieldsJSON, err := json.Marshal(rec.Fields)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal record fields: %w", err)
	}
	warningsJSON, err := json.Marshal(rec.Warnings)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal record warnings: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO records (id, batch_id, filename, status, fields_json, warnings, needs_review, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		id.String(), batchID.String(), rec.Filename(), string(rec.Status),
		string(fieldsJSON), string(warningsJSON), rec.NeedsReview, time.Now().UTC(),
	)
	if err != nil {
		s.logger.Error("failed to add record", "batch_id", batchID, "filename", rec.Filename(), "error", err)
		return uuid.Nil, fmt.Errorf("add record: %w", err)
	}
	return id, nil
}

func (s *Store) ListRecords(ctx context.Context, batchID uuid.UUID) ([]StoredRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT id, batch_id, filename, status, fields_json, warnings, needs_review, created_at
			FROM records WHERE batch_id = ? ORDER BY created_at, id`),
		batchID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []StoredRecord
	for rows.Next() {
		var (
			rec                   StoredRecord
			idStr, batchStr       string
			fieldsRaw, warningsRaw string
		)
		if err := rows.Scan(&idStr, &batchStr, &rec.Filename, &rec.Status,
			&fieldsRaw, &warningsRaw, &rec.NeedsReview, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if rec.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse record id: %w", err)
		}
		if rec.BatchID, err = uuid.Parse(batchStr); err != nil {
			return nil, fmt.Errorf("parse batch id: %w", err)
		}
		fm := fields.NewMap()
		if err := json.Unmarshal([]byte(fieldsRaw), fm); err != nil {
			return nil, fmt.Errorf("decode record fields: %w", err)
		}
		rec.Fields = fm
		if warningsRaw != "" {
			if err := json.Unmarshal([]byte(warningsRaw), &rec.Warnings); err != nil {
				return nil, fmt.Errorf("decode record warnings: %w", err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
