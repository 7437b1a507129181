package constants

// RecordStatus is the canonical per-document outcome written into every record.
type RecordStatus string

// Stable values (these exact strings appear in exported sheets).
const (
	StatusSuccess   RecordStatus = "Success"
	StatusOCRFailed RecordStatus = "OCR Failed"
)
