package model

// Compliance levels the analysis prompt asks for. LevelError marks a fallback report.
const (
	LevelHigh   = "High"
	LevelMedium = "Medium"
	LevelLow    = "Low"
	LevelError  = "Error"
)

// Report is the structured compliance analysis of a contract.
// Field names keep the keys the model is instructed to emit.
type Report struct {
	Score                   int      `json:"Score"`
	ComplianceLevel         string   `json:"Compliance_Level"`
	ScoreReasoning          string   `json:"Score_Reasoning,omitempty"`
	ComplianceReasoning     string   `json:"Compliance_Reasoning,omitempty"`
	Strengths               []string `json:"Strengths"`
	ImprovementAreas        []string `json:"Improvement_Areas"`
	LegalRisks              []string `json:"Legal_Risks"`
	Recommendations         []string `json:"Recommendations"`
	SimilarContractAnalysis string   `json:"Similar_Contract_Analysis"`
}

// Failed reports whether r is one of the fallback reports.
func (r Report) Failed() bool {
	return r.ComplianceLevel == LevelError
}

// FallbackReport builds the report returned when analysis could not complete.
func FallbackReport(improvement, risk string) *Report {
	return &Report{
		Score:                   0,
		ComplianceLevel:         LevelError,
		Strengths:               []string{},
		ImprovementAreas:        []string{improvement},
		LegalRisks:              []string{risk},
		Recommendations:         []string{"Please try again"},
		SimilarContractAnalysis: "Analysis failed",
	}
}

// ParseFailureReport is returned when the model answered with something that is not the expected JSON.
func ParseFailureReport() *Report {
	return FallbackReport("Could not parse analysis results", "Analysis failed - JSON parsing error")
}

// APIFailureReport is returned when the model could not be reached.
func APIFailureReport() *Report {
	return FallbackReport("API error occurred", "Analysis incomplete")
}

// SystemFailureReport is returned on any other failure during analysis.
func SystemFailureReport() *Report {
	return FallbackReport("System error occurred", "Analysis incomplete")
}
