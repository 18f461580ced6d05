package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// errorPayload is the wire shape of every error response.
type errorPayload struct {
	Error string `json:"error"`
}

// writeError writes the standardized {"error": ...} response body.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorPayload{Error: message})
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses. Unanticipated errors surface as 500 with the error's message.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := err.Error()

		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
			message = fe.Message
		}
		return writeError(c, status, message)
	}
}
