package embedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms/ollama"

	"complianceapi/internal/config"
)

// Ollama embeds through a local Ollama server via langchaingo.
type Ollama struct {
	llm *ollama.LLM
	dim int
}

// NewOllama connects to cfg.BaseURL (default http://localhost:11434) with cfg.Model.
func NewOllama(cfg config.EmbeddingConfig, hc *http.Client) (*Ollama, error) {
	model := cfg.Model
	if model == "" {
		model = "nomic-embed-text:latest"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	opts := []ollama.Option{ollama.WithModel(model), ollama.WithServerURL(baseURL)}
	if hc != nil {
		opts = append(opts, ollama.WithHTTPClient(hc))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ollama embedder: %w", err)
	}
	return &Ollama{llm: llm, dim: cfg.Dim}, nil
}

func (e *Ollama) Dimensions() int { return e.dim }

func (e *Ollama) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vecs, err := e.llm.CreateEmbedding(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: %w", err)
	}
	if err := checkDims(vecs, e.dim); err != nil {
		return nil, err
	}
	return vecs, nil
}
