// Package importer implements the backup import entry point: layout
// detection, parsing, reconciliation against the owner's dataset, and audit
// logging. One call processes one workbook for one owner to completion.
package importer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mmynk/cashbook/internal/metrics"
	"github.com/mmynk/cashbook/internal/models"
	"github.com/mmynk/cashbook/internal/storage"
	"github.com/mmynk/cashbook/internal/workbook"
)

// Keep log entries bounded even when thousands of rows fail.
const maxErrorDetail = 4000

// Importer runs backup imports. It serializes imports per owner so that the
// read-decide-write reconciliation never races a concurrent import for the
// same dataset.
type Importer struct {
	store storage.Store
	locks sync.Map // ownerID -> *sync.Mutex
}

// New creates an Importer backed by the given store.
func New(store storage.Store) *Importer {
	return &Importer{store: store}
}

func (imp *Importer) ownerLock(ownerID string) *sync.Mutex {
	mu, _ := imp.locks.LoadOrStore(ownerID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Import processes one uploaded workbook for one owner. The call is
// fail-soft: it always writes exactly one audit log entry. Only two problems
// surface as errors — workbook.ErrCorruptFile and
// workbook.ErrUnrecognizedLayout (plus storage failures); every row-level
// problem is captured inside the returned entry instead.
func (imp *Importer) Import(ctx context.Context, ownerID, filename string, data []byte, overwrite bool) (*models.ImportLogEntry, error) {
	mu := imp.ownerLock(ownerID)
	mu.Lock()
	defer mu.Unlock()

	started := time.Now()
	entry := &models.ImportLogEntry{
		OwnerID:        ownerID,
		SourceFilename: filename,
		Status:         models.ImportStatusFailed,
	}

	f, err := workbook.Open(data)
	if err != nil {
		return imp.finish(ctx, entry, started, err)
	}
	defer f.Close()

	layout, err := workbook.Detect(f)
	if err != nil {
		return imp.finish(ctx, entry, started, err)
	}
	entry.DetectedLayout = layout

	var batch *workbook.Batch
	switch layout {
	case workbook.LayoutLegacyYearly:
		batch = workbook.ParseLegacy(f)
	default:
		batch = workbook.ParseModern(f)
	}

	res, err := newReconciler(imp.store, ownerID, overwrite).reconcile(ctx, batch)
	if err != nil {
		return imp.finish(ctx, entry, started, err)
	}

	entry.CreatedCount = res.created
	entry.UpdatedCount = res.updated
	entry.SkippedCount = res.skipped
	entry.FailedCount = res.failed + len(batch.Failures)

	reasons := make([]string, 0, entry.FailedCount)
	for _, f := range batch.Failures {
		reasons = append(reasons, f.String())
	}
	reasons = append(reasons, res.reasons...)
	entry.ErrorDetail = clip(strings.Join(reasons, "\n"))

	applied := entry.CreatedCount + entry.UpdatedCount + entry.SkippedCount
	switch {
	case entry.FailedCount == 0:
		entry.Status = models.ImportStatusSuccess
	case applied > 0:
		entry.Status = models.ImportStatusPartial
	default:
		entry.Status = models.ImportStatusFailed
	}

	return imp.finish(ctx, entry, started, nil)
}

// History returns the owner's import attempts, newest first.
func (imp *Importer) History(ctx context.Context, ownerID string) ([]models.ImportLogEntry, error) {
	return imp.store.ListImportLogs(ctx, ownerID)
}

// finish records the audit entry and surfaces callErr (if any) to the caller.
// The entry is returned in both cases so the caller can show the outcome.
func (imp *Importer) finish(ctx context.Context, entry *models.ImportLogEntry, started time.Time, callErr error) (*models.ImportLogEntry, error) {
	if callErr != nil {
		entry.Status = models.ImportStatusFailed
		entry.ErrorDetail = clip(callErr.Error())
	}

	if err := imp.store.AppendImportLog(ctx, entry); err != nil {
		slog.Error("Failed to record import log", "owner_id", entry.OwnerID, "error", err)
		if callErr == nil {
			callErr = err
		}
	}

	metrics.ImportObserved(entry.DetectedLayout, entry.Status,
		entry.CreatedCount, entry.UpdatedCount, entry.SkippedCount, entry.FailedCount,
		time.Since(started))

	if callErr != nil {
		level := slog.LevelWarn
		if !errors.Is(callErr, workbook.ErrCorruptFile) && !errors.Is(callErr, workbook.ErrUnrecognizedLayout) {
			level = slog.LevelError
		}
		slog.Log(ctx, level, "Import failed",
			"owner_id", entry.OwnerID,
			"filename", entry.SourceFilename,
			"error", callErr,
		)
		return entry, callErr
	}

	slog.Info("Import finished",
		"owner_id", entry.OwnerID,
		"filename", entry.SourceFilename,
		"layout", entry.DetectedLayout,
		"status", entry.Status,
		"created", entry.CreatedCount,
		"updated", entry.UpdatedCount,
		"skipped", entry.SkippedCount,
		"failed", entry.FailedCount,
	)
	return entry, nil
}

func clip(s string) string {
	if len(s) <= maxErrorDetail {
		return s
	}
	return s[:maxErrorDetail]
}
