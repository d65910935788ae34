package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/ai-interviewer/internal/models"
)

type EvaluationRepository interface {
	Create(eval *models.Evaluation) error
	FindByEvaluationID(evaluationID string) (*models.Evaluation, error)
	ListByUser(userID uuid.UUID) ([]models.Evaluation, error)
	ClaimQueued(evaluationID string) (bool, error)
	UpdateStatus(evaluationID string, status models.EvaluationStatus) error
	UpdateResult(evaluationID string, result *models.EvaluationResult) error
	UpdateError(evaluationID string, errorMsg string) error
	FindPendingJobs(limit int) ([]models.Evaluation, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

// Create fails with ErrConflict when the session already has an evaluation.
func (r *evaluationRepository) Create(eval *models.Evaluation) error {
	if err := r.db.Create(eval).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: session %s already has an evaluation", models.ErrConflict, eval.SessionID)
		}
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

func (r *evaluationRepository) FindByEvaluationID(evaluationID string) (*models.Evaluation, error) {
	var eval models.Evaluation
	if err := r.db.Where("evaluation_id = ?", evaluationID).First(&eval).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("evaluation %s: %w", evaluationID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find evaluation: %w", err)
	}
	return &eval, nil
}

func (r *evaluationRepository) ListByUser(userID uuid.UUID) ([]models.Evaluation, error) {
	var evals []models.Evaluation
	err := r.db.
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&evals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return evals, nil
}

// ClaimQueued moves a queued evaluation to processing. It reports false when
// another worker got there first.
func (r *evaluationRepository) ClaimQueued(evaluationID string) (bool, error) {
	result := r.db.Model(&models.Evaluation{}).
		Where("evaluation_id = ? AND status = ?", evaluationID, models.StatusQueued).
		Updates(map[string]interface{}{
			"status":     models.StatusProcessing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to claim evaluation: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *evaluationRepository) UpdateStatus(evaluationID string, status models.EvaluationStatus) error {
	return r.update(evaluationID, "status", map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
}

func (r *evaluationRepository) UpdateResult(evaluationID string, result *models.EvaluationResult) error {
	var holder models.Evaluation
	if err := holder.SetResults(result); err != nil {
		return err
	}

	now := time.Now()
	return r.update(evaluationID, "result", map[string]interface{}{
		"status":       models.StatusCompleted,
		"results":      holder.Results,
		"completed_at": now,
		"updated_at":   now,
	})
}

func (r *evaluationRepository) UpdateError(evaluationID string, errorMsg string) error {
	return r.update(evaluationID, "error", map[string]interface{}{
		"status":        models.StatusFailed,
		"error_message": errorMsg,
		"updated_at":    time.Now(),
	})
}

func (r *evaluationRepository) FindPendingJobs(limit int) ([]models.Evaluation, error) {
	var evals []models.Evaluation
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&evals).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return evals, nil
}

func (r *evaluationRepository) update(evaluationID, what string, updates map[string]interface{}) error {
	result := r.db.Model(&models.Evaluation{}).
		Where("evaluation_id = ?", evaluationID).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update %s: %w", what, result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("evaluation %s: %w", evaluationID, models.ErrNotFound)
	}

	return nil
}
