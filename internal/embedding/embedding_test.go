package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complianceapi/internal/config"
)

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestHash_Deterministic(t *testing.T) {
	h := NewHash(64)
	assert.Equal(t, 64, h.Dimensions())

	a, err := h.Embed(context.Background(), []string{"Termination: 30 days notice", "Termination: 30 days notice"})
	require.NoError(t, err)
	require.Len(t, a, 2)
	assert.Len(t, a[0], 64)
	assert.Equal(t, a[0], a[1])
}

func TestHash_Normalized(t *testing.T) {
	vecs, err := NewHash(128).Embed(context.Background(), []string{"Governing law is the State of Delaware"})
	require.NoError(t, err)

	var norm float64
	for _, x := range vecs[0] {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestHash_SimilarTextsAreCloser(t *testing.T) {
	h := NewHash(384)
	vecs, err := h.Embed(context.Background(), []string{
		"Confidentiality: each party shall keep confidential information secret",
		"Confidential information must be kept secret by each party",
		"The supplier delivers widgets every Tuesday by truck",
	})
	require.NoError(t, err)

	assert.Greater(t, cosine(vecs[0], vecs[1]), cosine(vecs[0], vecs[2]))
}

func TestHash_EmptyInputs(t *testing.T) {
	h := NewHash(0)
	assert.Equal(t, 384, h.Dimensions())

	vecs, err := h.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)

	vecs, err = h.Embed(context.Background(), []string{"  ...  "})
	require.NoError(t, err)
	assert.Len(t, vecs[0], 384)
}

func TestHash_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHash(8).Embed(ctx, []string{"x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	e, err := New(context.Background(), config.EmbeddingConfig{Provider: "hash", Dim: 16}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Hash{}, e)
	assert.Equal(t, 16, e.Dimensions())

	e, err = New(context.Background(), config.EmbeddingConfig{Provider: "openai", Dim: 8, BaseURL: "http://localhost:1/v1/"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, e)

	e, err = New(context.Background(), config.EmbeddingConfig{Provider: "ollama", Dim: 8}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Ollama{}, e)

	_, err = New(context.Background(), config.EmbeddingConfig{Provider: "gemini"}, nil)
	assert.ErrorContains(t, err, "API key is required")

	_, err = New(context.Background(), config.EmbeddingConfig{Provider: "word2vec"}, nil)
	assert.ErrorContains(t, err, "unknown embedding provider")
}

func TestOpenAI_Embed(t *testing.T) {
	var got struct {
		Model      string   `json:"model"`
		Input      []string `json:"input"`
		Dimensions int      `json:"dimensions"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/embeddings"), r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		// answered out of order on purpose
		_, _ = w.Write([]byte(`{"object":"list","model":"m","usage":{"prompt_tokens":2,"total_tokens":2},"data":[
			{"object":"embedding","index":1,"embedding":[0,1,0]},
			{"object":"embedding","index":0,"embedding":[1,0,0]}
		]}`))
	}))
	defer srv.Close()

	e := NewOpenAI(config.EmbeddingConfig{Model: "text-embedding-3-small", BaseURL: srv.URL + "/v1/", APIKey: "k", Dim: 3}, nil)
	vecs, err := e.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)

	assert.Equal(t, [][]float32{{1, 0, 0}, {0, 1, 0}}, vecs)
	assert.Equal(t, "text-embedding-3-small", got.Model)
	assert.Equal(t, []string{"first", "second"}, got.Input)
	assert.Equal(t, 3, got.Dimensions)
}

func TestOpenAI_DimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","model":"m","usage":{"prompt_tokens":1,"total_tokens":1},"data":[
			{"object":"embedding","index":0,"embedding":[1,0]}
		]}`))
	}))
	defer srv.Close()

	e := NewOpenAI(config.EmbeddingConfig{BaseURL: srv.URL + "/v1/", APIKey: "k", Dim: 3}, nil)
	_, err := e.Embed(context.Background(), []string{"only"})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestEmbedOne(t *testing.T) {
	v, err := EmbedOne(context.Background(), NewHash(8), "clause")
	require.NoError(t, err)
	assert.Len(t, v, 8)
}
