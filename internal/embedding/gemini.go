package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"complianceapi/internal/config"
)

// Gemini embeds with the Google Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	dim    int
}

// NewGemini creates a Gemini embedder. cfg.APIKey is required.
func NewGemini(ctx context.Context, cfg config.EmbeddingConfig, hc *http.Client) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-embedding-001"
	}

	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if hc != nil {
		cc.HTTPClient = hc
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model, dim: cfg.Dim}, nil
}

func (e *Gemini) Dimensions() int { return e.dim }

func (e *Gemini) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	var ec *genai.EmbedContentConfig
	if e.dim > 0 {
		ec = &genai.EmbedContentConfig{OutputDimensionality: genai.Ptr(int32(e.dim))}
	}
	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, ec)
	if err != nil {
		return nil, fmt.Errorf("gemini embeddings: %w", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini embeddings: got %d vectors for %d inputs", len(result.Embeddings), len(texts))
	}

	out := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		out[i] = emb.Values
	}
	if err := checkDims(out, e.dim); err != nil {
		return nil, err
	}
	return out, nil
}
