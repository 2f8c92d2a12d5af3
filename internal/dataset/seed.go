package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"complianceapi/internal/embedding"
	"complianceapi/internal/model"
	"complianceapi/internal/vectorstore"
)

// Dummy document added when the dataset cannot be loaded.
const (
	DummyID      = "dummy_1"
	DummyContent = "Sample contract document"
)

const defaultBatchSize = 32

// ErrEmptyDataset is returned by load when the CSV has a header but no rows.
var ErrEmptyDataset = errors.New("dataset has no rows")

// Seeder fills an empty vector collection from the reference dataset.
type Seeder struct {
	store       vectorstore.Store
	embedder    embedding.Embedder
	path        string
	concurrency int
	batchSize   int
	logger      *zap.Logger
}

// NewSeeder creates a seeder reading the CSV at path.
func NewSeeder(store vectorstore.Store, embedder embedding.Embedder, path string, concurrency int, logger *zap.Logger) *Seeder {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		store:       store,
		embedder:    embedder,
		path:        path,
		concurrency: concurrency,
		batchSize:   defaultBatchSize,
		logger:      logger,
	}
}

// InitializeCollection seeds the collection when it is empty and returns the number of documents added.
// A collection that already holds documents is left untouched.
func (s *Seeder) InitializeCollection(ctx context.Context) (int, error) {
	if err := s.store.EnsureCollection(ctx); err != nil {
		return 0, fmt.Errorf("ensure collection: %w", err)
	}
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count collection: %w", err)
	}
	if count > 0 {
		s.logger.Info("vector_collection_seed_skip", zap.String("reason", "collection already exists"), zap.Int("count", count))
		return 0, nil
	}

	rows, err := s.load()
	if err != nil {
		s.logger.Warn("dataset_load_failed", zap.String("path", s.path), zap.Error(err))
		return s.seedDummy(ctx)
	}

	start := time.Now()
	docs, err := s.embedRows(ctx, rows)
	if err != nil {
		return 0, err
	}
	if err := s.store.Add(ctx, docs); err != nil {
		return 0, fmt.Errorf("add documents: %w", err)
	}
	s.logger.Info("vector_collection_seeded",
		zap.Int("count", len(docs)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return len(docs), nil
}

func (s *Seeder) load() ([]model.ReferenceContract, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := LoadCSV(f)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	return rows, nil
}

// embedRows embeds rows in batches on up to s.concurrency goroutines.
// Each goroutine writes a disjoint range of docs.
func (s *Seeder) embedRows(ctx context.Context, rows []model.ReferenceContract) ([]model.ReferenceDocument, error) {
	docs := make([]model.ReferenceDocument, len(rows))
	for i, r := range rows {
		docs[i] = model.ReferenceDocument{ID: r.ID, Content: Document(r), Metadata: Metadata(r)}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for lo := 0; lo < len(docs); lo += s.batchSize {
		hi := min(lo+s.batchSize, len(docs))
		batch := docs[lo:hi]
		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, d := range batch {
				texts[i] = d.Content
			}
			vecs, err := s.embedder.Embed(gctx, texts)
			if err != nil {
				return fmt.Errorf("embed documents %s..%s: %w", batch[0].ID, batch[len(batch)-1].ID, err)
			}
			if len(vecs) != len(batch) {
				return fmt.Errorf("embed documents: got %d vectors for %d texts", len(vecs), len(batch))
			}
			for i := range batch {
				batch[i].Embedding = vecs[i]
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Seeder) seedDummy(ctx context.Context) (int, error) {
	vec, err := embedding.EmbedOne(ctx, s.embedder, DummyContent)
	if err != nil {
		return 0, fmt.Errorf("embed dummy document: %w", err)
	}
	doc := model.ReferenceDocument{
		ID:        DummyID,
		Content:   DummyContent,
		Metadata:  map[string]string{"source": "dummy"},
		Embedding: vec,
	}
	if err := s.store.Add(ctx, []model.ReferenceDocument{doc}); err != nil {
		return 0, fmt.Errorf("add dummy document: %w", err)
	}
	s.logger.Info("vector_collection_seeded", zap.Int("count", 1), zap.String("source", "dummy"))
	return 1, nil
}
