package vectorstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/philippgille/chromem-go"

	"complianceapi/internal/model"
)

// Chromem is an embedded store backed by chromem-go.
// It lives in memory, or under path when one is given.
type Chromem struct {
	db   *chromem.DB
	name string

	mu  sync.Mutex
	col *chromem.Collection
}

var _ Store = (*Chromem)(nil)

// NewChromem opens the database. An empty path keeps everything in memory.
func NewChromem(collection, path string) (*Chromem, error) {
	var (
		db  *chromem.DB
		err error
	)
	if path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("open chromem db: %w", err)
		}
	}
	return &Chromem{db: db, name: collection}, nil
}

func (s *Chromem) EnsureCollection(ctx context.Context) error {
	_, err := s.collection()
	return err
}

func (s *Chromem) collection() (*chromem.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.col != nil {
		return s.col, nil
	}
	// embeddings are always supplied by the caller, so no embedding func is set
	col, err := s.db.GetOrCreateCollection(s.name, map[string]string{"hnsw:space": "cosine"}, nil)
	if err != nil {
		return nil, fmt.Errorf("get or create collection %q: %w", s.name, err)
	}
	s.col = col
	return col, nil
}

func (s *Chromem) Count(ctx context.Context) (int, error) {
	col, err := s.collection()
	if err != nil {
		return 0, err
	}
	return col.Count(), nil
}

func (s *Chromem) Add(ctx context.Context, docs []model.ReferenceDocument) error {
	if len(docs) == 0 {
		return nil
	}
	if err := validate(docs); err != nil {
		return err
	}
	col, err := s.collection()
	if err != nil {
		return err
	}

	ids := make([]string, len(docs))
	embeddings := make([][]float32, len(docs))
	metadatas := make([]map[string]string, len(docs))
	contents := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
		// chromem normalizes vectors in place
		embeddings[i] = append([]float32(nil), d.Embedding...)
		metadatas[i] = d.Metadata
		contents[i] = d.Content
	}
	if err := col.Add(ctx, ids, embeddings, metadatas, contents); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return nil
}

func (s *Chromem) Query(ctx context.Context, embedding []float32, n int) ([]model.SimilarDocument, error) {
	col, err := s.collection()
	if err != nil {
		return nil, err
	}
	count := col.Count()
	if n > count {
		n = count
	}
	if n <= 0 || len(embedding) == 0 {
		return []model.SimilarDocument{}, nil
	}

	results, err := col.QueryEmbedding(ctx, append([]float32(nil), embedding...), n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}
	out := make([]model.SimilarDocument, 0, len(results))
	for _, r := range results {
		out = append(out, model.SimilarDocument{
			ID:         r.ID,
			Content:    r.Content,
			Metadata:   r.Metadata,
			Similarity: r.Similarity,
		})
	}
	return out, nil
}
