package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"complianceapi/internal/model"
)

// PGVector stores reference documents in PostgreSQL using the pgvector extension.
// Rows are scoped by collection name so several collections can share the table.
type PGVector struct {
	db         *sql.DB
	collection string
	dim        int
}

var _ Store = (*PGVector)(nil)

// NewPGVector creates a pgvector-backed store for vectors of size dim.
func NewPGVector(db *sql.DB, collection string, dim int) *PGVector {
	return &PGVector{db: db, collection: collection, dim: dim}
}

// EnsureCollection creates the extension, table and cosine index when missing.
func (s *PGVector) EnsureCollection(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS reference_documents (
				id TEXT NOT NULL,
				collection TEXT NOT NULL,
				content TEXT NOT NULL,
				metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
				embedding vector(%d) NOT NULL,
				PRIMARY KEY (collection, id)
			)`, s.dim),
		`CREATE INDEX IF NOT EXISTS reference_documents_embedding_idx
			ON reference_documents
			USING ivfflat (embedding vector_cosine_ops)
			WITH (lists = 100)`,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure reference_documents: %w", err)
		}
	}
	return nil
}

func (s *PGVector) Count(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM reference_documents WHERE collection = $1`
	var n int
	if err := s.db.QueryRowContext(ctx, q, s.collection).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Add upserts all documents in one transaction.
func (s *PGVector) Add(ctx context.Context, docs []model.ReferenceDocument) error {
	if len(docs) == 0 {
		return nil
	}
	if err := validate(docs); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
		INSERT INTO reference_documents (id, collection, content, metadata, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (collection, id) DO UPDATE SET
			content = EXCLUDED.content,
			metadata = EXCLUDED.metadata,
			embedding = EXCLUDED.embedding
	`
	for _, d := range docs {
		meta := d.Metadata
		if meta == nil {
			meta = map[string]string{}
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("encode metadata for %s: %w", d.ID, err)
		}
		if _, err := tx.ExecContext(ctx, q, d.ID, s.collection, d.Content, metaJSON, pgvector.NewVector(d.Embedding)); err != nil {
			return fmt.Errorf("upsert %s: %w", d.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Query orders by cosine distance and reports similarity as 1 - distance.
func (s *PGVector) Query(ctx context.Context, embedding []float32, n int) ([]model.SimilarDocument, error) {
	if n <= 0 || len(embedding) == 0 {
		return []model.SimilarDocument{}, nil
	}
	const q = `
		SELECT id, content, metadata, 1 - (embedding <=> $2) AS similarity
		FROM reference_documents
		WHERE collection = $1
		ORDER BY embedding <=> $2
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, q, s.collection, pgvector.NewVector(embedding), n)
	if err != nil {
		return nil, fmt.Errorf("query reference_documents: %w", err)
	}
	defer rows.Close()

	out := make([]model.SimilarDocument, 0, n)
	for rows.Next() {
		var (
			d          model.SimilarDocument
			metaJSON   []byte
			similarity float64
		)
		if err := rows.Scan(&d.ID, &d.Content, &metaJSON, &similarity); err != nil {
			return nil, err
		}
		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &d.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata for %s: %w", d.ID, err)
			}
		}
		d.Similarity = float32(similarity)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
