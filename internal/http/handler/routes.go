package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docextract/internal/service"
)

// RegisterRoutes attaches the HTTP surface to the provided Fiber app.
func RegisterRoutes(app *fiber.App, svc service.ExtractionService) {
	app.Get("/", Index())
	app.Post("/extract", ExtractDocument(svc))
	app.Get("/api/health", HealthCheck())
	app.Get("/healthz", LivenessProbe())
}

// Index serves the landing page with the upload form.
func Index() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendFile("./static/index.html")
	}
}

// ExtractDocument handles the multipart upload and returns the per-page
// extraction results.
func ExtractDocument(svc service.ExtractionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "No file uploaded")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "Cannot open uploaded file")
		}
		defer f.Close()

		results, err := svc.Extract(c.UserContext(), f, fh.Filename)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUnsupportedType):
				return writeError(c, fiber.StatusBadRequest, "Unsupported file type. Use PNG, JPEG, or PDF")
			case errors.Is(err, service.ErrPDFConversion):
				return writeError(c, fiber.StatusInternalServerError, "Failed to convert PDF")
			default:
				return writeError(c, fiber.StatusInternalServerError, err.Error())
			}
		}
		return c.Status(fiber.StatusOK).JSON(results)
	}
}

// HealthCheck reports the fixed status payload. It intentionally performs no
// dependency checks: the OCR engine and the language-model client have no
// cheap liveness probes.
func HealthCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
			"services": fiber.Map{
				"ocr": "active",
				"ai":  "active",
			},
		})
	}
}

// LivenessProbe is a bare liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
