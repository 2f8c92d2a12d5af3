// Package service holds the contract upload and compliance analysis use cases.
package service

import "errors"

var (
	ErrIDRequired       = errors.New("id is required")
	ErrNotFound         = errors.New("contract not found")
	ErrReaderNil        = errors.New("reader is nil")
	ErrClausesRequired  = errors.New("at least one clause is required")
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrAnalysisFailed   = errors.New("analysis failed")
)
