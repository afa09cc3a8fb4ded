package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mmynk/cashbook/internal/exporter"
	"github.com/mmynk/cashbook/internal/importer"
	"github.com/mmynk/cashbook/internal/middleware"
	"github.com/mmynk/cashbook/internal/models"
	"github.com/mmynk/cashbook/internal/workbook"
)

// Uploaded workbooks larger than this are rejected outright.
const maxUploadBytes = 32 << 20

// BackupService handles workbook import, export and import history.
type BackupService struct {
	importer *importer.Importer
	exporter *exporter.Exporter
}

// NewBackupService creates a new backup service.
func NewBackupService(imp *importer.Importer, exp *exporter.Exporter) *BackupService {
	return &BackupService{importer: imp, exporter: exp}
}

type importResponse struct {
	Status         string `json:"status"`
	DetectedLayout string `json:"detected_layout,omitempty"`
	SourceFilename string `json:"source_filename"`
	CreatedCount   int    `json:"created_count"`
	UpdatedCount   int    `json:"updated_count"`
	SkippedCount   int    `json:"skipped_count"`
	FailedCount    int    `json:"failed_count"`
	ErrorDetail    string `json:"error_detail,omitempty"`
}

// Import handles POST /api/v1/backup/import. The workbook arrives as a
// multipart "file" field; "overwrite" is an optional boolean form value.
func (s *BackupService) Import(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	overwrite := false
	if raw := r.FormValue("overwrite"); raw != "" {
		overwrite, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid overwrite value %q", raw))
			return
		}
	}

	entry, err := s.importer.Import(r.Context(), ownerID, header.Filename, data, overwrite)
	if err != nil {
		switch {
		case errors.Is(err, workbook.ErrCorruptFile), errors.Is(err, workbook.ErrUnrecognizedLayout):
			writeJSON(w, http.StatusUnprocessableEntity, toImportResponse(entry))
		default:
			slog.Error("Import request failed", "owner_id", ownerID, "error", err)
			writeError(w, http.StatusInternalServerError, "import failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, toImportResponse(entry))
}

// Export handles GET /api/v1/backup/export, streaming the workbook as an
// attachment.
func (s *BackupService) Export(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	data, filename, err := s.exporter.Export(r.Context(), ownerID)
	if err != nil {
		slog.Error("Export request failed", "owner_id", ownerID, "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Warn("Failed to stream export", "owner_id", ownerID, "error", err)
	}
}

// History handles GET /api/v1/backup/imports, newest attempts first.
func (s *BackupService) History(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	entries, err := s.importer.History(r.Context(), ownerID)
	if err != nil {
		slog.Error("Import history request failed", "owner_id", ownerID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load import history")
		return
	}

	responses := make([]importResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, toImportResponse(&entries[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

func toImportResponse(entry *models.ImportLogEntry) importResponse {
	return importResponse{
		Status:         entry.Status,
		DetectedLayout: entry.DetectedLayout,
		SourceFilename: entry.SourceFilename,
		CreatedCount:   entry.CreatedCount,
		UpdatedCount:   entry.UpdatedCount,
		SkippedCount:   entry.SkippedCount,
		FailedCount:    entry.FailedCount,
		ErrorDetail:    entry.ErrorDetail,
	}
}
