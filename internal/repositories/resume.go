package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/ai-interviewer/internal/models"
)

type ResumeRepository interface {
	Create(resume *models.Resume) error
	FindByID(id uuid.UUID) (*models.Resume, error)
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) Create(resume *models.Resume) error {
	if err := r.db.Create(resume).Error; err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

func (r *resumeRepository) FindByID(id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.Where("id = ?", id).First(&resume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("resume %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &resume, nil
}
