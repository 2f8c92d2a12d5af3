// Package vectorstore holds the reference contracts used for similarity search.
package vectorstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"complianceapi/internal/config"
	"complianceapi/internal/model"
)

// ErrMissingEmbedding is returned by Add when a document has no vector.
var ErrMissingEmbedding = errors.New("document has no embedding")

// Store is a named collection of embedded reference documents.
// Implementations are safe for concurrent use.
type Store interface {
	// EnsureCollection creates the collection (and any schema) when missing.
	EnsureCollection(ctx context.Context) error
	// Count returns the number of documents in the collection.
	Count(ctx context.Context) (int, error)
	// Add upserts documents by ID.
	Add(ctx context.Context, docs []model.ReferenceDocument) error
	// Query returns up to n documents nearest to embedding, most similar first.
	Query(ctx context.Context, embedding []float32, n int) ([]model.SimilarDocument, error)
}

// New builds the backend selected by cfg.Backend. db is only used by the pgvector backend.
func New(cfg config.VectorConfig, dim int, db *sql.DB) (Store, error) {
	switch cfg.Backend {
	case "chromem", "":
		return NewChromem(cfg.Collection, cfg.ChromemPath)
	case "pgvector":
		if db == nil {
			return nil, errors.New("pgvector backend requires a database connection")
		}
		return NewPGVector(db, cfg.Collection, dim), nil
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.Backend)
	}
}

func validate(docs []model.ReferenceDocument) error {
	for _, d := range docs {
		if d.ID == "" {
			return errors.New("document id is required")
		}
		if len(d.Embedding) == 0 {
			return fmt.Errorf("%w: %s", ErrMissingEmbedding, d.ID)
		}
	}
	return nil
}
