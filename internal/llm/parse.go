package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"complianceapi/internal/model"
)

func parseClauses(content string) ([]model.Clause, error) {
	var payload struct {
		Clauses []model.Clause `json:"clauses"`
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	clauses := make([]model.Clause, 0, len(payload.Clauses))
	for _, cl := range payload.Clauses {
		cl.Clause = strings.TrimSpace(cl.Clause)
		cl.Description = strings.TrimSpace(cl.Description)
		if cl.Clause == "" {
			continue
		}
		clauses = append(clauses, cl)
	}
	return clauses, nil
}

// score accepts 85, 85.4 or "85".
type score float64

func (s *score) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		str = strings.TrimSuffix(strings.TrimSpace(str), "/100")
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return fmt.Errorf("score %q is not a number", str)
		}
		*s = score(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*s = score(f)
	return nil
}

type rawReport struct {
	Score                   score    `json:"Score"`
	ComplianceLevel         string   `json:"Compliance_Level"`
	ScoreReasoning          string   `json:"Score_Reasoning"`
	ComplianceReasoning     string   `json:"Compliance_Reasoning"`
	Strengths               []string `json:"Strengths"`
	ImprovementAreas        []string `json:"Improvement_Areas"`
	LegalRisks              []string `json:"Legal_Risks"`
	Recommendations         []string `json:"Recommendations"`
	SimilarContractAnalysis string   `json:"Similar_Contract_Analysis"`
}

func parseReport(content string) (*model.Report, error) {
	var raw rawReport
	if err := json.Unmarshal([]byte(stripFences(content)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return NormalizeReport(raw.toReport()), nil
}

func (r rawReport) toReport() *model.Report {
	return &model.Report{
		Score:                   int(math.Round(float64(r.Score))),
		ComplianceLevel:         r.ComplianceLevel,
		ScoreReasoning:          r.ScoreReasoning,
		ComplianceReasoning:     r.ComplianceReasoning,
		Strengths:               r.Strengths,
		ImprovementAreas:        r.ImprovementAreas,
		LegalRisks:              r.LegalRisks,
		Recommendations:         r.Recommendations,
		SimilarContractAnalysis: r.SimilarContractAnalysis,
	}
}

// NormalizeReport clamps the score, canonicalizes the compliance level and replaces nil lists.
func NormalizeReport(r *model.Report) *model.Report {
	if r.Score < 0 {
		r.Score = 0
	}
	if r.Score > 100 {
		r.Score = 100
	}

	level := strings.TrimSpace(r.ComplianceLevel)
	switch strings.ToLower(level) {
	case "high":
		level = model.LevelHigh
	case "medium":
		level = model.LevelMedium
	case "low":
		level = model.LevelLow
	}
	r.ComplianceLevel = level

	r.Strengths = cleanList(r.Strengths)
	r.ImprovementAreas = cleanList(r.ImprovementAreas)
	r.LegalRisks = cleanList(r.LegalRisks)
	r.Recommendations = cleanList(r.Recommendations)
	r.SimilarContractAnalysis = strings.TrimSpace(r.SimilarContractAnalysis)
	return r
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// stripFences removes a surrounding markdown code fence some models add despite JSON mode.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
