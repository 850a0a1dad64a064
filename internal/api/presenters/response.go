package presenters

import (
	"Compliance-Shield/domain"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status    bool   `json:"status"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, status int, message string) error {
	return c.Status(status).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse marks the response retryable when resubmitting the same
// request unchanged may succeed.
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
		res.Retryable = domain.IsRetryable(err)
	}
	return c.Status(status).JSON(res)
}
