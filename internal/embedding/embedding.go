// Package embedding turns contract text into vectors for the reference similarity search.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"complianceapi/internal/config"
)

// Provider names accepted by New.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
	ProviderHash   = "hash"
)

// ErrDimensionMismatch is returned when a provider answers with vectors of an unexpected size.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Embedder produces one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// New selects the embedder named by cfg.Provider.
// hc is used by the HTTP-based providers and may be nil.
func New(ctx context.Context, cfg config.EmbeddingConfig, hc *http.Client) (Embedder, error) {
	switch cfg.Provider {
	case ProviderHash, "":
		return NewHash(cfg.Dim), nil
	case ProviderOpenAI:
		return NewOpenAI(cfg, hc), nil
	case ProviderOllama:
		return NewOllama(cfg, hc)
	case ProviderGemini:
		return NewGemini(ctx, cfg, hc)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// EmbedOne embeds a single text.
func EmbedOne(ctx context.Context, e Embedder, text string) ([]float32, error) {
	vecs, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(vecs))
	}
	return vecs[0], nil
}

func checkDims(vecs [][]float32, want int) error {
	if want <= 0 {
		return nil
	}
	for i, v := range vecs {
		if len(v) != want {
			return fmt.Errorf("%w: vector %d has %d values, want %d", ErrDimensionMismatch, i, len(v), want)
		}
	}
	return nil
}
