package constants

// DocumentStatus is the canonical processing status for rows in documents.
type DocumentStatus string

// Stable values (store these exact strings in DB).
const (
	StatusPending   DocumentStatus = "PENDING"   // uploaded, not yet processed
	StatusCompleted DocumentStatus = "COMPLETED" // pipeline finished, record stored
	StatusFailed    DocumentStatus = "FAILED"    // terminal failure (extraction or model call)
)
