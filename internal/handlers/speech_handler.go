package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/services"
)

type SpeechHandler struct {
	speechService services.SpeechService
}

func NewSpeechHandler(speechService services.SpeechService) *SpeechHandler {
	return &SpeechHandler{
		speechService: speechService,
	}
}

// HandleSpeak handles POST /api/speak
func (h *SpeechHandler) HandleSpeak(c *fiber.Ctx) error {
	var req models.SpeakRequest
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	audio, err := h.speechService.SynthesizeSpeech(c.UserContext(), req.Text)
	if err != nil {
		if errors.Is(err, models.ErrInvalidArgument) {
			return writeError(c, err)
		}

		log.Printf("❌ Speech synthesis failed: %v\n", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "Failed to synthesize speech",
			"status":  fiber.StatusBadGateway,
			"details": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "audio/wav")
	return c.Send(audio)
}
