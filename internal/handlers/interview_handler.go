package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/services"
)

type InterviewHandler struct {
	interviewService services.InterviewService
}

func NewInterviewHandler(interviewService services.InterviewService) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
	}
}

// HandleInitialize handles POST /api/interview/initialize
func (h *InterviewHandler) HandleInitialize(c *fiber.Ctx) error {
	var req models.InitializeRequest
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	resp, err := h.interviewService.Initialize(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(resp)
}

// HandleSubmit handles POST /api/interview/submit. With ?async=true the
// evaluation is queued and 202 is returned right away.
func (h *InterviewHandler) HandleSubmit(c *fiber.Ctx) error {
	var req models.SubmitRequest
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	if c.QueryBool("async") {
		resp, err := h.interviewService.SubmitAsync(c.UserContext(), req)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(resp)
	}

	result, err := h.interviewService.Submit(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(result)
}

// HandleGetResult handles GET /api/interview/results/:id
func (h *InterviewHandler) HandleGetResult(c *fiber.Ctx) error {
	resp, err := h.interviewService.GetResult(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	switch models.EvaluationStatus(resp.Status) {
	case models.StatusQueued, models.StatusProcessing:
		return c.Status(fiber.StatusAccepted).JSON(resp)
	case models.StatusFailed:
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}

	return c.JSON(resp)
}

// HandleGetSession handles GET /api/interview/sessions/:id
func (h *InterviewHandler) HandleGetSession(c *fiber.Ctx) error {
	session, err := h.interviewService.GetSession(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(models.SessionInfoResponse{
		SessionID:      session.ID,
		Role:           session.Role,
		QuestionsCount: len(session.Questions),
		CreatedAt:      session.CreatedAt,
	})
}

// HandleTransition handles POST /api/interview/transition
func (h *InterviewHandler) HandleTransition(c *fiber.Ctx) error {
	var req models.TransitionRequest
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	return c.JSON(models.TransitionResponse{
		Text: h.interviewService.GenerateTransition(c.UserContext(), req),
	})
}
