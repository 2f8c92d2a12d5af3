// Package client talks to the compliance API the same way the web frontend does:
// upload a file for clause extraction, then post the clauses for analysis.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"complianceapi/internal/extract"
	"complianceapi/internal/model"
	"complianceapi/internal/service"
)

// DefaultBaseURL is where the API listens by default.
const DefaultBaseURL = "http://localhost:8000"

// ErrUnsupportedFile is returned before any request for files other than pdf, docx and txt.
var ErrUnsupportedFile = errors.New("only .pdf, .docx and .txt files are supported")

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s: %s", e.Status, e.Code, e.Message)
}

// Client is a small HTTP client for the compliance API.
type Client struct {
	baseURL string
	hc      *http.Client
}

// New returns a client for baseURL. hc may be nil.
func New(baseURL string, hc *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = &http.Client{Timeout: 2 * time.Minute}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), hc: hc}
}

// CheckFile rejects filenames whose extension the API cannot extract text from.
func CheckFile(filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".docx", ".txt":
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(filename))
	}
}

// UploadFile posts the file to /uploadfile/ and returns the extracted clauses.
func (c *Client) UploadFile(ctx context.Context, filename string, r io.Reader) (*service.ProcessResult, error) {
	if err := CheckFile(filename); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	h.Set("Content-Type", extract.DetectContentType(filename, ""))
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	var res service.ProcessResult
	if err := c.do(ctx, http.MethodPost, "/uploadfile/", mw.FormDataContentType(), &body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Analyze posts clauses to /analyze/ and returns the compliance report.
func (c *Client) Analyze(ctx context.Context, clauses []model.Clause) (*model.Report, error) {
	payload, err := json.Marshal(map[string]any{"clauses": clauses})
	if err != nil {
		return nil, fmt.Errorf("encode clauses: %w", err)
	}

	var report model.Report
	if err := c.do(ctx, http.MethodPost, "/analyze/", "application/json", bytes.NewReader(payload), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var env struct {
		RequestID string `json:"request_id"`
		Error     struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&env); err == nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.RequestID = env.RequestID
	}
	return apiErr
}
