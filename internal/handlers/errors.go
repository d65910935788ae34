package handlers

import (
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ai-interviewer/internal/models"
)

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// parseAndValidate decodes the JSON body into req and checks its validate tags.
// On failure it has already written the 400 response and returns false.
func parseAndValidate(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := getValidator().Struct(req); err != nil {
		details := map[string]string{}
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			for _, fe := range ve {
				details[strings.ToLower(fe.Namespace())] = fe.Tag()
			}
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": details,
		})
	}

	return true, nil
}

// writeError maps service errors to status codes. Messages of unexpected
// errors are logged, never returned.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidArgument):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrEvaluationFailure):
		log.Printf("❌ %s %s: %v\n", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to evaluate interview"})
	default:
		log.Printf("❌ %s %s: %v\n", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
