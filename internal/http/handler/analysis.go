package handler

import (
	"github.com/gofiber/fiber/v2"

	"complianceapi/internal/model"
	"complianceapi/internal/service"
)

// AnalyzeRequest is the body of POST /analyze/.
type AnalyzeRequest struct {
	Clauses []model.Clause `json:"clauses"`
}

// AnalyzeClauses godoc
// @Summary Analyze extracted clauses for compliance
// @Description Scores the clauses against the most similar reference contract. Model failures return a fallback report with status 200.
// @Tags analysis
// @Accept json
// @Produce json
// @Param body body AnalyzeRequest true "clauses"
// @Success 200 {object} model.Report
// @Failure 400 {object} errorPayload
// @Router /analyze/ [post]
func AnalyzeClauses(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req AnalyzeRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		report, err := svc.Analyze(c.UserContext(), req.Clauses)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(report)
	}
}

// AnalyzeContract godoc
// @Summary Analyze a stored contract and keep the report
// @Tags analysis
// @Produce json
// @Param id path string true "contract id"
// @Success 201 {object} model.ContractAnalysis
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /contracts/{id}/analysis [post]
func AnalyzeContract(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := contractID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		analysis, err := svc.AnalyzeStored(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(analysis)
	}
}

// GetAnalysis godoc
// @Summary Latest analysis of a stored contract
// @Tags analysis
// @Produce json
// @Param id path string true "contract id"
// @Success 200 {object} model.ContractAnalysis
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /contracts/{id}/analysis [get]
func GetAnalysis(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := contractID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		analysis, err := svc.LatestAnalysis(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(analysis)
	}
}
