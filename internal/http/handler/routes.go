package handler

import (
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/swaggo/swag"

	"complianceapi/internal/service"
	"complianceapi/internal/vectorstore"
)

// Deps are the collaborators the HTTP routes call into.
type Deps struct {
	DB        *sql.DB
	Vectors   vectorstore.Store
	Contracts service.ContractService
	Analysis  service.AnalysisService
	// Swagger, when set, has its host and scheme filled per request.
	Swagger *swag.Spec
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB, d.Vectors))
	app.Get("/healthz", LivenessProbe())

	// Paths used by the original frontend keep their trailing slash.
	app.Post("/uploadfile/", UploadFile(d.Contracts))
	app.Post("/analyze/", AnalyzeClauses(d.Analysis))

	contracts := app.Group("/contracts")
	contracts.Get("/", ListContracts(d.Contracts))
	contracts.Post("/", UploadContract(d.Contracts))
	contracts.Get("/:id", GetContract(d.Contracts))
	contracts.Delete("/:id", DeleteContract(d.Contracts))
	contracts.Get("/:id/file", DownloadContract(d.Contracts))
	contracts.Get("/:id/download-url", ContractDownloadURL(d.Contracts))
	contracts.Post("/:id/analysis", AnalyzeContract(d.Analysis))
	contracts.Get("/:id/analysis", GetAnalysis(d.Analysis))

	if d.Swagger != nil {
		app.Get("/swagger/*", swaggerUI(d.Swagger))
	}
}

// swaggerUI serves the UI. doc.json is rendered from a per-request copy of spec
// carrying the host and scheme the caller used; the shared spec is never written.
func swaggerUI(spec *swag.Spec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Params("*") != "doc.json" {
			return swagger.HandlerDefault(c)
		}

		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		doc := *spec
		doc.Host = c.Get(fiber.HeaderHost)
		doc.Schemes = []string{scheme}

		c.Type("json")
		return c.SendString(doc.ReadDoc())
	}
}
