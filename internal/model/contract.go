package model

import "time"

// Clause is a key clause extracted from a contract by the language model.
// JSON names match what the model is prompted to return and what clients post back to /analyze/.
type Clause struct {
	Clause      string `json:"clause"`
	Description string `json:"description"`
}

// Contract represents an uploaded contract file and the clauses extracted from it.
// This is a pure domain model with no database-specific dependencies or tags.
type Contract struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	StoragePath  string    `json:"storage_path"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	Clauses      []Clause  `json:"clauses"`
	CreatedAt    time.Time `json:"created_at"`
}

// ContractAnalysis is a persisted compliance report for a stored contract.
type ContractAnalysis struct {
	ID                string    `json:"id"`
	ContractID        string    `json:"contract_id"`
	Report            Report    `json:"report"`
	SimilarDocumentID string    `json:"similar_document_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
