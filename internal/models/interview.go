package models

import "time"

const (
	RoleSDE            = "SDE"
	RoleDataScientist  = "Data Scientist"
	RoleProductManager = "Product Manager"
)

// Roles lists the roles an interview can be initialized for.
var Roles = []string{RoleSDE, RoleDataScientist, RoleProductManager}

// IntroQuestionID marks the answer given to the introduction prompt. Real
// questions are numbered from 1.
const IntroQuestionID = 0

const QuestionsPerInterview = 5

// Analytics category values.
const (
	PaceSlow   = "Slow"
	PaceNormal = "Normal"
	PaceFast   = "Fast"

	DepthLow    = "Low"
	DepthMedium = "Medium"
	DepthHigh   = "High"

	ClarityNeedsImprovement = "Needs Improvement"
	ClarityFair             = "Fair"
	ClarityGood             = "Good"
	ClarityExcellent        = "Excellent"

	CategoryUnknown = "Unknown"
)

type Question struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

type Transition struct {
	Text string `json:"text"`
}

// InterviewSession is created once by initialize and never modified.
type InterviewSession struct {
	ID           string       `json:"session_id"`
	Role         string       `json:"role"`
	IntroMessage string       `json:"intro_message"`
	Questions    []Question   `json:"questions"`
	Transitions  []Transition `json:"transitions"`
	CreatedAt    time.Time    `json:"created_at"`
}

type Answer struct {
	QuestionID     int     `json:"question_id" validate:"gte=0"`
	QuestionText   string  `json:"question_text"`
	AnswerText     string  `json:"answer_text"`
	AnswerDuration float64 `json:"answer_duration" validate:"gte=0"`
}

func (a Answer) IsIntro() bool {
	return a.QuestionID == IntroQuestionID
}

type QuestionAnalysis struct {
	QuestionID   int      `json:"question_id"`
	Score        float64  `json:"score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

type Analytics struct {
	TotalDuration        string   `json:"total_duration"`
	AverageResponseTime  float64  `json:"average_response_time"`
	SpeakingPace         string   `json:"speaking_pace"`
	TechnicalDepth       string   `json:"technical_depth"`
	CommunicationClarity string   `json:"communication_clarity"`
	ConsistencyScore     *float64 `json:"consistency_score,omitempty"`
}

type EvaluationResult struct {
	OverallScore     float64            `json:"overall_score"`
	OverallFeedback  string             `json:"overall_feedback"`
	QuestionAnalysis []QuestionAnalysis `json:"question_analysis"`
	Analytics        Analytics          `json:"analytics"`
	Recommendations  []string           `json:"recommendations"`
}
