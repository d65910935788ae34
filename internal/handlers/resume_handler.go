package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
	"alfredoptarigan/ai-interviewer/internal/services"
)

type ResumeHandler struct {
	resumeRepo     repositories.ResumeRepository
	userRepo       repositories.UserRepository
	storageService services.StorageService
	resumeParser   services.ResumeParser
	maxFileSize    int64
}

func NewResumeHandler(
	resumeRepo repositories.ResumeRepository,
	userRepo repositories.UserRepository,
	storageService services.StorageService,
	resumeParser services.ResumeParser,
	maxFileSize int64,
) *ResumeHandler {
	return &ResumeHandler{
		resumeRepo:     resumeRepo,
		userRepo:       userRepo,
		storageService: storageService,
		resumeParser:   resumeParser,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /api/resumes (multipart: resume, user_id)
func (h *ResumeHandler) HandleUpload(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.FormValue("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required and must be a valid id",
		})
	}

	if _, err := h.userRepo.FindByID(userID); err != nil {
		return writeError(c, err)
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No resume uploaded. Please upload a PDF, DOCX or text file as 'resume'.",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	stored, err := h.storageService.SaveResume(file)
	if err != nil {
		return writeError(c, err)
	}

	content, err := h.resumeParser.ExtractText(stored.Path, stored.ContentType)
	if err != nil {
		h.cleanup(stored.Filename)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to extract resume text: %v", err),
		})
	}

	resume := models.Resume{
		ID:           uuid.New(),
		UserID:       userID,
		FileURL:      stored.Filename,
		OriginalName: file.Filename,
		ContentType:  stored.ContentType,
		Content:      content,
		UploadedAt:   time.Now(),
	}

	if err := h.resumeRepo.Create(&resume); err != nil {
		h.cleanup(stored.Filename)
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toUploadResponse(&resume))
}

// HandleGet handles GET /api/resumes/:id
func (h *ResumeHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	resume, err := h.resumeRepo.FindByID(id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(toUploadResponse(resume))
}

func (h *ResumeHandler) cleanup(filename string) {
	if err := h.storageService.DeleteFile(filename); err != nil {
		log.Printf("⚠️  Failed to remove %s: %v\n", filename, err)
	}
}

func toUploadResponse(r *models.Resume) models.UploadResponse {
	return models.UploadResponse{
		ID:           r.ID.String(),
		UserID:       r.UserID.String(),
		FileURL:      r.FileURL,
		OriginalName: r.OriginalName,
		ContentType:  r.ContentType,
		Content:      r.Content,
		UploadedAt:   r.UploadedAt,
	}
}
