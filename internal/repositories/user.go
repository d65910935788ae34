package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/ai-interviewer/internal/models"
)

type UserRepository interface {
	Upsert(user *models.User) error
	FindByID(id uuid.UUID) (*models.User, error)
	FindByExternalAuthID(externalAuthID string) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Upsert inserts the user or refreshes email and name of the existing record
// with the same external auth id. user is reloaded with the stored row.
func (r *userRepository) Upsert(user *models.User) error {
	user.UpdatedAt = time.Now()

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_auth_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: email %s is already registered", models.ErrConflict, user.Email)
		}
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	stored, err := r.FindByExternalAuthID(user.ExternalAuthID)
	if err != nil {
		return err
	}
	*user = *stored

	return nil
}

func (r *userRepository) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindByExternalAuthID(externalAuthID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("external_auth_id = ?", externalAuthID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", externalAuthID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
