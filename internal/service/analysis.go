package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"complianceapi/internal/embedding"
	"complianceapi/internal/llm"
	"complianceapi/internal/model"
	"complianceapi/internal/repository"
	"complianceapi/internal/vectorstore"
)

// AnalysisService produces compliance reports for clause lists and stored contracts.
type AnalysisService interface {
	// Analyze scores the clauses against the most similar reference contract.
	// Once the clauses are accepted it always returns a report; failures become fallback reports.
	Analyze(ctx context.Context, clauses []model.Clause) (*model.Report, error)

	// AnalyzeStored analyzes a stored contract's clauses and persists the report.
	AnalyzeStored(ctx context.Context, contractID string) (*model.ContractAnalysis, error)

	// LatestAnalysis returns the most recent persisted analysis of a contract.
	LatestAnalysis(ctx context.Context, contractID string) (*model.ContractAnalysis, error)
}

type analysisService struct {
	llm      llm.Client
	embedder embedding.Embedder
	vectors  vectorstore.Store
	repo     repository.ContractRepository
	logger   *zap.Logger
}

// NewAnalysisService wires the analysis pipeline. embedder and vectors may be nil,
// in which case every contract is analyzed without a similar contract.
func NewAnalysisService(client llm.Client, embedder embedding.Embedder, vectors vectorstore.Store, repo repository.ContractRepository, logger *zap.Logger) AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &analysisService{llm: client, embedder: embedder, vectors: vectors, repo: repo, logger: logger}
}

// ContractText renders clauses as "clause: description" lines.
func ContractText(clauses []model.Clause) string {
	lines := make([]string, len(clauses))
	for i, c := range clauses {
		lines[i] = c.Clause + ": " + c.Description
	}
	return strings.Join(lines, "\n")
}

func (s *analysisService) Analyze(ctx context.Context, clauses []model.Clause) (*model.Report, error) {
	if len(clauses) == 0 {
		return nil, ErrClausesRequired
	}
	report, _ := s.analyze(ctx, clauses)
	return report, nil
}

// analyze returns the report and the ID of the reference contract it was compared with.
func (s *analysisService) analyze(ctx context.Context, clauses []model.Clause) (*model.Report, string) {
	text := ContractText(clauses)
	similar := s.findSimilar(ctx, text)

	var similarContent string
	if similar != nil {
		similarContent = similar.Content
	}

	start := time.Now()
	report, err := s.llm.AnalyzeContract(ctx, text, similarContent)
	if err != nil {
		var llmErr *llm.Error
		switch {
		case llm.IsInvalidJSON(err):
			s.logger.Warn("analysis_parse_failed", zap.Error(err))
			report = model.ParseFailureReport()
		case errors.As(err, &llmErr):
			s.logger.Error("analysis_api_failed", zap.Error(err))
			report = model.APIFailureReport()
		default:
			s.logger.Error("analysis_failed", zap.Error(err))
			report = model.SystemFailureReport()
		}
		return report, ""
	}

	fields := []zap.Field{
		zap.Int("clauses", len(clauses)),
		zap.Int("score", report.Score),
		zap.String("compliance_level", report.ComplianceLevel),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	}
	similarID := ""
	if similar != nil {
		similarID = similar.ID
		fields = append(fields, zap.String("similar_document_id", similarID), zap.Float32("similarity", similar.Similarity))
	}
	s.logger.Info("contract_analyzed", fields...)
	return report, similarID
}

// findSimilar returns the nearest reference contract, or nil when there is none or the lookup failed.
func (s *analysisService) findSimilar(ctx context.Context, text string) *model.SimilarDocument {
	if s.embedder == nil || s.vectors == nil {
		return nil
	}
	vec, err := embedding.EmbedOne(ctx, s.embedder, text)
	if err != nil {
		s.logger.Warn("similar_contract_lookup_failed", zap.String("stage", "embed"), zap.Error(err))
		return nil
	}
	res, err := s.vectors.Query(ctx, vec, 1)
	if err != nil {
		s.logger.Warn("similar_contract_lookup_failed", zap.String("stage", "query"), zap.Error(err))
		return nil
	}
	if len(res) == 0 {
		return nil
	}
	return &res[0]
}

func (s *analysisService) AnalyzeStored(ctx context.Context, contractID string) (*model.ContractAnalysis, error) {
	if contractID == "" {
		return nil, ErrIDRequired
	}
	c, err := s.repo.FindByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(c.Clauses) == 0 {
		return nil, ErrClausesRequired
	}

	report, similarID := s.analyze(ctx, c.Clauses)
	if report.Failed() {
		// fallback reports are not persisted so LatestAnalysis keeps the last real one
		return nil, fmt.Errorf("%w: %s", ErrAnalysisFailed, strings.Join(report.ImprovementAreas, "; "))
	}

	stored, err := s.repo.SaveAnalysis(ctx, &model.ContractAnalysis{
		ID:                uuid.New().String(),
		ContractID:        c.ID,
		Report:            *report,
		SimilarDocumentID: similarID,
		CreatedAt:         time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}
	return stored, nil
}

func (s *analysisService) LatestAnalysis(ctx context.Context, contractID string) (*model.ContractAnalysis, error) {
	if contractID == "" {
		return nil, ErrIDRequired
	}
	a, err := s.repo.LatestAnalysis(ctx, contractID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, err
	}
	return a, nil
}
