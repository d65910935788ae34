package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type EvaluationStatus string

const (
	StatusQueued     EvaluationStatus = "queued"
	StatusProcessing EvaluationStatus = "processing"
	StatusCompleted  EvaluationStatus = "completed"
	StatusFailed     EvaluationStatus = "failed"
)

// Evaluation is the stored record of one submitted interview. SessionID is
// unique, so a session can own at most one evaluation.
type Evaluation struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EvaluationID  string           `gorm:"type:text;uniqueIndex;not null" json:"evaluation_id"`
	SessionID     string           `gorm:"type:text;uniqueIndex;not null" json:"session_id"`
	Role          string           `gorm:"type:text;not null" json:"role"`
	InterviewData datatypes.JSON   `gorm:"type:jsonb" json:"interview_data"`
	SubmittedAt   time.Time        `gorm:"not null" json:"submitted_at"`
	Status        EvaluationStatus `gorm:"not null;default:'queued'" json:"status"`
	Results       datatypes.JSON   `gorm:"type:jsonb" json:"results,omitempty"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
	ErrorMessage  *string          `gorm:"type:text" json:"error_message,omitempty"`
	UserID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	CreatedAt     time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}

func (e *Evaluation) SetInterviewData(answers []Answer) error {
	raw, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("failed to encode interview data: %w", err)
	}
	e.InterviewData = datatypes.JSON(raw)
	return nil
}

func (e *Evaluation) DecodeInterviewData() ([]Answer, error) {
	var answers []Answer
	if len(e.InterviewData) == 0 {
		return answers, nil
	}
	if err := json.Unmarshal(e.InterviewData, &answers); err != nil {
		return nil, fmt.Errorf("failed to decode interview data: %w", err)
	}
	return answers, nil
}

func (e *Evaluation) SetResults(result *EvaluationResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	e.Results = datatypes.JSON(raw)
	return nil
}

// DecodeResults returns nil without error while the evaluation has no results.
func (e *Evaluation) DecodeResults() (*EvaluationResult, error) {
	if len(e.Results) == 0 {
		return nil, nil
	}
	var result EvaluationResult
	if err := json.Unmarshal(e.Results, &result); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	return &result, nil
}
