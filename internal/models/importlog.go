package models

// Import outcome statuses.
const (
	ImportStatusSuccess = "success" // every row applied
	ImportStatusPartial = "partial" // some rows applied, some failed
	ImportStatusFailed  = "failed"  // nothing applied
)

// ImportLogEntry records one import attempt, successful or not. Entries are
// append-only: exactly one is written per call to the import entry point.
type ImportLogEntry struct {
	// ID is the unique identifier for the log entry (UUID format).
	ID string

	// OwnerID is the user the import targeted.
	OwnerID string

	// CreatedAt is the Unix timestamp of the attempt.
	CreatedAt int64

	// SourceFilename is the name of the uploaded file, as provided by the
	// caller.
	SourceFilename string

	// DetectedLayout is the workbook layout the detector settled on
	// ("modern_backup" or "legacy_yearly"), or "" when detection failed.
	DetectedLayout string

	// Status is one of the ImportStatus constants.
	Status string

	// Row outcome counts for the attempt.
	CreatedCount int
	UpdatedCount int
	SkippedCount int
	FailedCount  int

	// ErrorDetail holds the call-level error message, or the collected
	// row-level failure reasons (newline separated), or "" on full success.
	ErrorDetail string
}
