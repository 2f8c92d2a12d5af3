package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the settings the server cannot start without.
// All problems are reported together.
func (c *AppConfig) Validate() error {
	var errs []error

	if c.LLM.APIKey == "" || c.LLM.APIURL == "" {
		errs = append(errs, ValidationError{
			Field:   "llm",
			Message: "GroqCloud API URL and API Key must be set in environment variables",
		})
	} else if _, err := url.ParseRequestURI(c.LLM.APIURL); err != nil {
		errs = append(errs, ValidationError{Field: "llm.api_url", Message: "invalid URL"})
	}

	if c.LLM.ClauseTemperature < 0 || c.LLM.ClauseTemperature > 2 {
		errs = append(errs, ValidationError{Field: "llm.clause_temperature", Message: "must be between 0 and 2"})
	}
	if c.LLM.AnalysisTemperature < 0 || c.LLM.AnalysisTemperature > 2 {
		errs = append(errs, ValidationError{Field: "llm.analysis_temperature", Message: "must be between 0 and 2"})
	}
	if c.LLM.MaxInputChars <= 0 {
		errs = append(errs, ValidationError{Field: "llm.max_input_chars", Message: "must be positive"})
	}

	switch c.Embedding.Provider {
	case "openai", "ollama", "gemini", "hash":
	default:
		errs = append(errs, ValidationError{Field: "embedding.provider", Message: fmt.Sprintf("unknown provider %q", c.Embedding.Provider)})
	}
	if c.Embedding.Dim <= 0 {
		errs = append(errs, ValidationError{Field: "embedding.dim", Message: "must be positive"})
	}

	switch c.Vector.Backend {
	case "chromem", "pgvector":
	default:
		errs = append(errs, ValidationError{Field: "vector.backend", Message: fmt.Sprintf("unknown backend %q", c.Vector.Backend)})
	}
	if c.Vector.Collection == "" {
		errs = append(errs, ValidationError{Field: "vector.collection", Message: "is required"})
	}

	if c.UploadMaxBytes <= 0 {
		errs = append(errs, ValidationError{Field: "upload_max_bytes", Message: "must be positive"})
	}
	if _, err := time.LoadLocation(c.LogTimezone); err != nil {
		errs = append(errs, ValidationError{Field: "log_timezone", Message: err.Error()})
	}

	return errors.Join(errs...)
}

// Location resolves LogTimezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.LogTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
