package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

type UserHandler struct {
	userRepo repositories.UserRepository
	evalRepo repositories.EvaluationRepository
}

func NewUserHandler(userRepo repositories.UserRepository, evalRepo repositories.EvaluationRepository) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
		evalRepo: evalRepo,
	}
}

// HandleUpsert handles POST /api/users
func (h *UserHandler) HandleUpsert(c *fiber.Ctx) error {
	var req models.UpsertUserRequest
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	user := &models.User{
		ExternalAuthID: req.ExternalAuthID,
		Email:          req.Email,
		Name:           req.Name,
	}
	if err := h.userRepo.Upsert(user); err != nil {
		return writeError(c, err)
	}

	return c.JSON(user)
}

// HandleGet handles GET /api/users/:id
func (h *UserHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	user, err := h.userRepo.FindByID(id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(user)
}

// HandleListEvaluations handles GET /api/users/:id/evaluations
func (h *UserHandler) HandleListEvaluations(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if _, err := h.userRepo.FindByID(id); err != nil {
		return writeError(c, err)
	}

	evals, err := h.evalRepo.ListByUser(id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"evaluations": evals,
	})
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s format", models.ErrInvalidArgument, name)
	}
	return id, nil
}
