package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ai-interviewer/internal/repositories"
)

type EvaluationHandler struct {
	evalRepo repositories.EvaluationRepository
}

func NewEvaluationHandler(evalRepo repositories.EvaluationRepository) *EvaluationHandler {
	return &EvaluationHandler{
		evalRepo: evalRepo,
	}
}

// HandleGet handles GET /api/evaluations/:id, returning the stored record
// including the submitted answers.
func (h *EvaluationHandler) HandleGet(c *fiber.Ctx) error {
	evaluation, err := h.evalRepo.FindByEvaluationID(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(evaluation)
}
