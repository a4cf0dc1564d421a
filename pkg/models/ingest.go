package models

// RawRow is a single loosely-typed listing record handed to ingestion.
// Column-name variants are resolved by the deduplicator, not the source.
type RawRow map[string]any

// RowOutcome explains what happened to one row of an ingestion batch
type RowOutcome struct {
	Row    int    `json:"row"`
	Title  string `json:"title,omitempty"`
	Reason string `json:"reason"`
}

// IngestResult summarizes one ingestion batch
type IngestResult struct {
	Created        int          `json:"created"`
	Skipped        int          `json:"skipped"`
	Failed         int          `json:"failed"`
	CreatedIDs     []string     `json:"created_ids"`
	SkippedDetails []RowOutcome `json:"skipped_details"`
	FailureReasons []RowOutcome `json:"failure_reasons"`
}
