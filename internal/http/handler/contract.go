package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"complianceapi/internal/service"
)

// UploadFile godoc
// @Summary Upload a contract and extract its key clauses
// @Description Accepts a PDF, DOCX or TXT file in the multipart field "file".
// @Tags contracts
// @Accept mpfd
// @Produce json
// @Param file formData file true "contract file"
// @Success 200 {object} service.ProcessResult
// @Failure 400 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /uploadfile/ [post]
func UploadFile(svc service.ContractService) fiber.Handler {
	return processUpload(svc, fiber.StatusOK)
}

// UploadContract godoc
// @Summary Upload a contract
// @Tags contracts
// @Accept mpfd
// @Produce json
// @Param file formData file true "contract file"
// @Success 201 {object} service.ProcessResult
// @Failure 400 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /contracts [post]
func UploadContract(svc service.ContractService) fiber.Handler {
	return processUpload(svc, fiber.StatusCreated)
}

func processUpload(svc service.ContractService, status int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		res, err := svc.Process(c.UserContext(), f, fh.Filename, fh.Header.Get("Content-Type"), fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(status).JSON(res)
	}
}

// ListContracts godoc
// @Summary List uploaded contracts
// @Tags contracts
// @Produce json
// @Param limit query int false "page size" default(10)
// @Param offset query int false "offset" default(0)
// @Success 200 {object} service.ContractListResult
// @Failure 400 {object} errorPayload
// @Router /contracts [get]
func ListContracts(svc service.ContractService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetContract godoc
// @Summary Get a contract
// @Tags contracts
// @Produce json
// @Param id path string true "contract id"
// @Success 200 {object} model.Contract
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /contracts/{id} [get]
func GetContract(svc service.ContractService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := contractID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		contract, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(contract)
	}
}

// DeleteContract godoc
// @Summary Delete a contract
// @Tags contracts
// @Param id path string true "contract id"
// @Success 204
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /contracts/{id} [delete]
func DeleteContract(svc service.ContractService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := contractID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DownloadContract godoc
// @Summary Download the original contract file
// @Tags contracts
// @Produce octet-stream
// @Param id path string true "contract id"
// @Success 200 {file} file
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /contracts/{id}/file [get]
func DownloadContract(svc service.ContractService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := contractID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, contract, err := svc.Open(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, contract.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", downloadName(contract.OriginalName, contract.Filename)))
		// fasthttp closes rc once the body is written
		return c.SendStream(rc, int(contract.Size))
	}
}

// ContractDownloadURL godoc
// @Summary Pre-signed download URL for the contract file
// @Tags contracts
// @Produce json
// @Param id path string true "contract id"
// @Param expires query int false "lifetime in seconds" default(900)
// @Success 200 {object} map[string]any
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /contracts/{id}/download-url [get]
func ContractDownloadURL(svc service.ContractService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := contractID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		secs, err := strconv.Atoi(c.Query("expires", "900"))
		if err != nil || secs <= 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_EXPIRES", "invalid expires")
		}
		expiry := service.MaxDownloadExpiry
		if secs < int(service.MaxDownloadExpiry/time.Second) {
			expiry = time.Duration(secs) * time.Second
		}

		url, err := svc.DownloadURL(c.UserContext(), id, expiry)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url, "expires_in": int(expiry.Seconds())})
	}
}

func downloadName(original, stored string) string {
	if original != "" {
		return original
	}
	return stored
}

func contractID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}
