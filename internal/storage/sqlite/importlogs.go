package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/cashbook/internal/models"
)

// AppendImportLog persists one import attempt, assigning ID and CreatedAt.
// The log is append-only; there is no update or delete path.
func (s *SQLiteStore) AppendImportLog(ctx context.Context, entry *models.ImportLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO import_logs
		 (id, owner_id, created_at, source_filename, detected_layout, status, created_count, updated_count, skipped_count, failed_count, error_detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.OwnerID, entry.CreatedAt, entry.SourceFilename, entry.DetectedLayout,
		entry.Status, entry.CreatedCount, entry.UpdatedCount, entry.SkippedCount, entry.FailedCount,
		entry.ErrorDetail,
	)
	if err != nil {
		return fmt.Errorf("failed to insert import log: %w", err)
	}
	return nil
}

// ListImportLogs returns the owner's import attempts, newest first.
func (s *SQLiteStore) ListImportLogs(ctx context.Context, ownerID string) ([]models.ImportLogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, created_at, source_filename, detected_layout, status, created_count, updated_count, skipped_count, failed_count, error_detail
		 FROM import_logs WHERE owner_id = ? ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list import logs: %w", err)
	}
	defer rows.Close()

	var entries []models.ImportLogEntry
	for rows.Next() {
		var e models.ImportLogEntry
		err := rows.Scan(&e.ID, &e.OwnerID, &e.CreatedAt, &e.SourceFilename, &e.DetectedLayout,
			&e.Status, &e.CreatedCount, &e.UpdatedCount, &e.SkippedCount, &e.FailedCount, &e.ErrorDetail)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate import logs: %w", err)
	}
	return entries, nil
}
