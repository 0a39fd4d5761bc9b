package utils

import "github.com/gofiber/fiber/v2"

// Envelope is the wire shape the spreadsheet backend speaks and the app
// expects back from the proxy: status discriminates, data is optional.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// SendSuccess sends a success envelope with optional data.
func SendSuccess(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Status: "success",
		Data:   data,
	})
}

// SendError sends an error envelope with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(Envelope{
		Status:  "error",
		Message: message,
	})
}
