// Package render prints uploaded-contract clauses and compliance reports to a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"complianceapi/internal/model"
)

// Messages shown when a report section is empty.
const (
	NoStrengths       = "No strengths identified"
	NoImprovements    = "No improvement areas identified"
	NoLegalRisks      = "No legal risks identified"
	NoRecommendations = "No recommendations provided"
	NoSimilarAnalysis = "No similar contract analysis available"
)

var (
	colorSuccess = lipgloss.Color("#8BC34A")
	colorWarning = lipgloss.Color("#FFC107")
	colorError   = lipgloss.Color("#e53935")
	colorInfo    = lipgloss.Color("#2196F3")
	colorMuted   = lipgloss.Color("#8a94a6")
)

type styles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	metric  lipgloss.Style
	note    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	danger  lipgloss.Style
	info    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Underline(true),
		heading: r.NewStyle().Bold(true),
		metric:  r.NewStyle().Bold(true).Foreground(colorInfo),
		note:    r.NewStyle().Italic(true).Foreground(colorMuted),
		success: r.NewStyle().Foreground(colorSuccess),
		warning: r.NewStyle().Foreground(colorWarning),
		danger:  r.NewStyle().Foreground(colorError),
		info:    r.NewStyle().Foreground(colorInfo),
	}
}

// Printer writes styled output to w. Colors are dropped when w is not a terminal.
type Printer struct {
	w io.Writer
	s styles
}

// New returns a Printer for w.
func New(w io.Writer) *Printer {
	return &Printer{w: w, s: newStyles(lipgloss.NewRenderer(w))}
}

func (p *Printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Title prints the application banner.
func (p *Printer) Title(text string) {
	p.line("%s", p.s.title.Render(text))
	p.line("")
}

// UploadedFile echoes the name of the file being checked.
func (p *Printer) UploadedFile(name string) {
	p.line("Uploaded file: %s", name)
}

// Clauses prints each extracted clause with its description.
func (p *Printer) Clauses(clauses []model.Clause) {
	p.line("")
	p.line("%s", p.s.heading.Render("Key Clauses"))
	for _, c := range clauses {
		p.line("  %s", p.s.metric.Render("▸ "+c.Clause))
		if c.Description != "" {
			p.line("    %s", c.Description)
		}
	}
}

// Report prints a compliance report section by section.
func (p *Printer) Report(r *model.Report) {
	if r == nil {
		r = &model.Report{}
	}

	p.line("")
	p.line("%s", strings.Repeat("─", 40))
	p.line("%s", p.s.heading.Render("Contract Analysis Results"))
	p.line("")

	p.line("Contract Score:   %s", p.s.metric.Render(fmt.Sprintf("%d/100", r.Score)))
	if r.ScoreReasoning != "" {
		p.line("  %s", p.s.note.Render(r.ScoreReasoning))
	}
	level := r.ComplianceLevel
	if level == "" {
		level = "N/A"
	}
	p.line("Compliance Level: %s", p.s.metric.Render(level))
	if r.ComplianceReasoning != "" {
		p.line("  %s", p.s.note.Render(r.ComplianceReasoning))
	}

	p.section("Contract Strengths", r.Strengths, p.s.success, NoStrengths)
	p.section("Areas for Improvement", r.ImprovementAreas, p.s.warning, NoImprovements)
	p.section("Legal Risks", r.LegalRisks, p.s.danger, NoLegalRisks)
	p.section("Recommendations", r.Recommendations, p.s.info, NoRecommendations)

	p.line("")
	p.line("%s", p.s.heading.Render("Similar Contract Analysis"))
	if r.SimilarContractAnalysis != "" && r.SimilarContractAnalysis != "Analysis failed" {
		p.line("  %s", r.SimilarContractAnalysis)
	} else {
		p.line("  %s", p.s.info.Render(NoSimilarAnalysis))
	}
}

func (p *Printer) section(title string, items []string, style lipgloss.Style, empty string) {
	p.line("")
	p.line("%s", p.s.heading.Render(title))
	if len(items) == 0 {
		p.line("  %s", p.s.info.Render(empty))
		return
	}
	for _, it := range items {
		p.line("  • %s", style.Render(it))
	}
}

// Error prints a failure message.
func (p *Printer) Error(msg string) {
	p.line("%s", p.s.danger.Render("Error: "+msg))
}
