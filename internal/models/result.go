package models

import "time"

type InitializeRequest struct {
	Role          string `json:"role" validate:"required,oneof=SDE 'Data Scientist' 'Product Manager'"`
	ResumeContent string `json:"resume_content" validate:"required"`
}

type InitializeResponse struct {
	SessionID    string       `json:"session_id"`
	IntroMessage string       `json:"intro_message"`
	Questions    []Question   `json:"questions"`
	Transitions  []Transition `json:"transitions"`
}

type SubmitRequest struct {
	SessionID     string   `json:"session_id" validate:"required,uuid"`
	UserID        string   `json:"userId" validate:"required"`
	Role          string   `json:"role,omitempty" validate:"omitempty,oneof=SDE 'Data Scientist' 'Product Manager'"`
	InterviewData []Answer `json:"interview_data" validate:"required,min=1,dive"`
}

type SubmitAsyncResponse struct {
	EvaluationID string `json:"evaluation_id"`
	Message      string `json:"message"`
}

type ResultResponse struct {
	EvaluationID string            `json:"evaluation_id"`
	Status       string            `json:"status"`
	Result       *EvaluationResult `json:"result,omitempty"`
	ErrorMessage *string           `json:"error_message,omitempty"`
}

type SessionInfoResponse struct {
	SessionID      string    `json:"session_id"`
	Role           string    `json:"role"`
	QuestionsCount int       `json:"questions_count"`
	CreatedAt      time.Time `json:"created_at"`
}

type TransitionRequest struct {
	Answer         string `json:"answer"`
	QuestionNumber int    `json:"question_number" validate:"gte=0"`
	TotalQuestions int    `json:"total_questions" validate:"gte=0"`
	IsIntro        bool   `json:"is_intro"`
}

type TransitionResponse struct {
	Text string `json:"text"`
}

type SpeakRequest struct {
	Text string `json:"text" validate:"required"`
}

type UpsertUserRequest struct {
	ExternalAuthID string  `json:"external_auth_id" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Name           *string `json:"name,omitempty"`
}

type UploadResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	FileURL      string    `json:"file_url"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	Content      string    `json:"content"`
	UploadedAt   time.Time `json:"uploaded_at"`
}
