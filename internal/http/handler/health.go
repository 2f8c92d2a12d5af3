package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"complianceapi/internal/database"
	"complianceapi/internal/vectorstore"
)

const healthTimeout = 2 * time.Second

// HealthCheck godoc
// @Summary Readiness check
// @Description Pings the database and counts the reference contracts in the vector collection.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(db *sql.DB, vectors vectorstore.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		if err := database.Ping(ctx, db); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}

		res := fiber.Map{"status": "healthy"}
		if vectors != nil {
			n, err := vectors.Count(ctx)
			if err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
			res["reference_contracts"] = n
		}
		return c.Status(fiber.StatusOK).JSON(res)
	}
}

// LivenessProbe godoc
// @Summary Liveness probe
// @Tags health
// @Success 200
// @Router /healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
