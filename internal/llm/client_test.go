package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complianceapi/internal/config"
	"complianceapi/internal/model"
)

type capturedRequest struct {
	Model          string  `json:"model"`
	Temperature    float64 `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatResponse(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "llama3-8b-8192",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
	return string(b)
}

// newTestServer answers every chat completion with content and records the last request.
func newTestServer(t *testing.T, status int, content string, last *capturedRequest, auth *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		if auth != nil {
			*auth = r.Header.Get("Authorization")
		}
		body, _ := io.ReadAll(r.Body)
		if last != nil {
			require.NoError(t, json.Unmarshal(body, last))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
			return
		}
		_, _ = w.Write([]byte(chatResponse(content)))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(url string) config.LLMConfig {
	return config.LLMConfig{
		APIKey:              "gsk_test",
		APIURL:              url + "/openai/v1/chat/completions",
		Model:               "llama3-8b-8192",
		ClauseTemperature:   0,
		AnalysisTemperature: 0.1,
		TimeoutSec:          5,
		MaxRetries:          0,
		MaxInputChars:       24000,
	}
}

func TestGroqClient_ExtractClauses(t *testing.T) {
	var req capturedRequest
	var auth string
	srv := newTestServer(t, http.StatusOK,
		`{"clauses":[{"clause":" Termination ","description":" 30 days notice "},{"clause":"","description":"dropped"}]}`,
		&req, &auth)

	c := NewGroqClient(testConfig(srv.URL))
	clauses, err := c.ExtractClauses(context.Background(), "This Agreement may be terminated...")
	require.NoError(t, err)

	assert.Equal(t, []model.Clause{{Clause: "Termination", Description: "30 days notice"}}, clauses)
	assert.Equal(t, "Bearer gsk_test", auth)
	assert.Equal(t, "llama3-8b-8192", req.Model)
	assert.Equal(t, 0.0, req.Temperature)
	assert.Equal(t, "json_object", req.ResponseFormat.Type)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "Extract the key clauses")
	assert.Equal(t, "This Agreement may be terminated...", req.Messages[1].Content)
}

func TestGroqClient_ExtractClauses_InvalidJSON(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, "Sure! Here are the clauses: Termination", nil, nil)

	c := NewGroqClient(testConfig(srv.URL))
	_, err := c.ExtractClauses(context.Background(), "text")
	require.Error(t, err)
	assert.True(t, IsInvalidJSON(err))

	var llmErr *Error
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, OpExtractClauses, llmErr.Op)
	assert.Equal(t, "Sure! Here are the clauses: Termination", llmErr.Content)
}

func TestGroqClient_APIError(t *testing.T) {
	srv := newTestServer(t, http.StatusUnauthorized, "", nil, nil)

	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	c := NewGroqClient(testConfig(srv.URL), WithMetrics(metrics))
	_, err = c.ExtractClauses(context.Background(), "text")
	require.Error(t, err)
	assert.False(t, IsInvalidJSON(err))

	var llmErr *Error
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, OpExtractClauses, llmErr.Op)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(OpExtractClauses, "error")))
}

func TestGroqClient_AnalyzeContract(t *testing.T) {
	var req capturedRequest
	srv := newTestServer(t, http.StatusOK, `{
		"Score": "92",
		"Score_Reasoning": "Complete.",
		"Compliance_Level": "high",
		"Strengths": ["Clear termination", " "],
		"Improvement_Areas": null,
		"Legal_Risks": ["Jurisdiction"],
		"Recommendations": ["Add GDPR clause"],
		"Similar_Contract_Analysis": "Aligned with the reference."
	}`, &req, nil)

	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	c := NewGroqClient(testConfig(srv.URL), WithMetrics(metrics))
	report, err := c.AnalyzeContract(context.Background(), "Termination: 30 days", "")
	require.NoError(t, err)

	assert.Equal(t, 92, report.Score)
	assert.Equal(t, model.LevelHigh, report.ComplianceLevel)
	assert.Equal(t, "Complete.", report.ScoreReasoning)
	assert.Equal(t, []string{"Clear termination"}, report.Strengths)
	assert.Equal(t, []string{}, report.ImprovementAreas)
	assert.Equal(t, []string{"Jurisdiction"}, report.LegalRisks)

	assert.Equal(t, 0.1, req.Temperature)
	require.Len(t, req.Messages, 2)
	assert.Contains(t, req.Messages[0].Content, "contract analysis AI")
	assert.Equal(t, "Contract to analyze:\nTermination: 30 days\n\nSimilar contract:\nNo similar contract found", req.Messages[1].Content)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(OpAnalyzeContract, "success")))
}

func TestGroqClient_AnalyzeContract_InvalidJSON(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"Score": "excellent"}`, nil, nil)

	c := NewGroqClient(testConfig(srv.URL))
	_, err := c.AnalyzeContract(context.Background(), "x", "y")
	assert.True(t, IsInvalidJSON(err))
}

func TestGroqClient_RateLimitHonorsContext(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatResponse(`{"clauses":[]}`)))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.RequestsPerMinute = 1
	c := NewGroqClient(cfg)

	_, err := c.ExtractClauses(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.ExtractClauses(ctx, "second")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "second call must wait for the limiter, not hit the API")
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héllo", truncateRunes("héllo", 0))
	assert.Equal(t, "hé", truncateRunes("héllo", 2))
	assert.Equal(t, "héllo", truncateRunes("héllo", 5))
	assert.Equal(t, "héllo", truncateRunes("héllo", 10))
}
