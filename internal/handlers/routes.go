package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler. Nil members leave their routes
// unregistered.
type Handlers struct {
	Interview  *InterviewHandler
	Speech     *SpeechHandler
	User       *UserHandler
	Resume     *ResumeHandler
	Evaluation *EvaluationHandler
}

// Register mounts the API under /api.
func (h Handlers) Register(app fiber.Router) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	if h.Interview != nil {
		interview := api.Group("/interview")
		interview.Post("/initialize", h.Interview.HandleInitialize)
		interview.Post("/submit", h.Interview.HandleSubmit)
		interview.Post("/transition", h.Interview.HandleTransition)
		interview.Get("/results/:id", h.Interview.HandleGetResult)
		interview.Get("/sessions/:id", h.Interview.HandleGetSession)
	}

	if h.Speech != nil {
		api.Post("/speak", h.Speech.HandleSpeak)
	}

	if h.User != nil {
		api.Post("/users", h.User.HandleUpsert)
		api.Get("/users/:id", h.User.HandleGet)
		api.Get("/users/:id/evaluations", h.User.HandleListEvaluations)
	}

	if h.Resume != nil {
		api.Post("/resumes", h.Resume.HandleUpload)
		api.Get("/resumes/:id", h.Resume.HandleGet)
	}

	if h.Evaluation != nil {
		api.Get("/evaluations/:id", h.Evaluation.HandleGet)
	}
}
