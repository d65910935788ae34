package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"alfredoptarigan/ai-interviewer/internal/models"
)

const (
	singleAnswerErrorFeedback = "Unable to evaluate this response due to a technical issue."
	singleAnswerErrorItem     = "Technical evaluation error occurred"
	overallFeedbackFallback   = "Thank you for completing the interview. Your responses demonstrated good engagement with the questions and relevant experience for the role."

	defaultWordsPerMinute    = 120.0
	singleAnswerConsistency  = 10.0
	fallbackConsistency      = 7.0
	defaultOverallScore      = 5.0
	maxRecommendations       = 5
	topImprovementsForPrompt = 3
)

type EvaluatorService interface {
	EvaluateCompleteInterview(ctx context.Context, answers []models.Answer, role string) (*models.EvaluationResult, error)
}

type evaluatorService struct {
	geminiService GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewEvaluatorService(geminiService GeminiService, maxRetries int) EvaluatorService {
	return &evaluatorService{
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// ImprovementCount is one improvement string and how often it was mentioned.
type ImprovementCount struct {
	Text  string
	Count int
}

// EvaluateCompleteInterview scores every non-introduction answer in order and
// aggregates the results. Individual AI steps degrade to fixed defaults; only
// a failure of the orchestration itself is returned as ErrEvaluationFailure.
func (e *evaluatorService) EvaluateCompleteInterview(ctx context.Context, answers []models.Answer, role string) (result *models.EvaluationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Evaluation panicked: %v\n", r)
			result = nil
			err = fmt.Errorf("%w: %v", models.ErrEvaluationFailure, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEvaluationFailure, err)
	}

	scored := ScoredAnswers(answers)
	log.Printf("🤖 Evaluating %d answers for role %s\n", len(scored), role)

	analyses := make([]models.QuestionAnalysis, 0, len(scored))
	scores := make([]float64, 0, len(scored))
	for _, answer := range scored {
		analysis := e.evaluateSingleAnswer(ctx, answer, role)
		analyses = append(analyses, analysis)
		scores = append(scores, analysis.Score)
	}

	analytics := CalculateAnalytics(scored, scores)
	consistency := e.analyzeConsistency(ctx, scored)
	analytics.ConsistencyScore = &consistency

	overall := CalculateOverallScore(scores, analytics)
	feedback := e.generateOverallFeedback(ctx, role, scores, analytics)
	recommendations := e.generateRecommendations(ctx, role, analyses, analytics)

	return &models.EvaluationResult{
		OverallScore:     Round1(overall),
		OverallFeedback:  feedback,
		QuestionAnalysis: analyses,
		Analytics:        analytics,
		Recommendations:  recommendations,
	}, nil
}

// ScoredAnswers drops the introduction answer, which is never scored.
func ScoredAnswers(answers []models.Answer) []models.Answer {
	scored := make([]models.Answer, 0, len(answers))
	for _, a := range answers {
		if !a.IsIntro() {
			scored = append(scored, a)
		}
	}
	return scored
}

func (e *evaluatorService) evaluateSingleAnswer(ctx context.Context, answer models.Answer, role string) models.QuestionAnalysis {
	fallback := AnswerAssessment{
		Score:        defaultAnswerScore,
		Feedback:     singleAnswerErrorFeedback,
		Strengths:    []string{},
		Improvements: []string{singleAnswerErrorItem},
	}

	assessment := WithFallback("evaluate_answer", func() (AnswerAssessment, error) {
		prompt := e.promptBuilder.BuildAnswerEvaluationPrompt(answer.QuestionText, answer.AnswerText, role)
		response, err := e.geminiService.GenerateTextWithRetry(ctx, prompt, 0.3, e.maxRetries)
		if err != nil {
			return AnswerAssessment{}, err
		}
		return ParseAnswerAssessment(response), nil
	}, fallback)

	return models.QuestionAnalysis{
		QuestionID:   answer.QuestionID,
		Score:        assessment.Score,
		Feedback:     assessment.Feedback,
		Strengths:    assessment.Strengths,
		Improvements: assessment.Improvements,
	}
}

func unknownAnalytics() models.Analytics {
	return models.Analytics{
		TotalDuration:        "Unable to calculate",
		AverageResponseTime:  0,
		SpeakingPace:         models.CategoryUnknown,
		TechnicalDepth:       models.CategoryUnknown,
		CommunicationClarity: models.CategoryUnknown,
	}
}

// CalculateAnalytics derives the heuristic categories from answer durations,
// word counts and per-answer scores. It needs one score per answer.
func CalculateAnalytics(answers []models.Answer, scores []float64) models.Analytics {
	if len(answers) == 0 || len(scores) != len(answers) {
		return unknownAnalytics()
	}

	var totalDuration float64
	var totalWords int
	var wpms []float64
	for _, a := range answers {
		totalDuration += a.AnswerDuration
		words := len(strings.Fields(a.AnswerText))
		totalWords += words
		if a.AnswerDuration > 0 {
			wpms = append(wpms, float64(words)/a.AnswerDuration*60)
		}
	}

	avgWPM := defaultWordsPerMinute
	if len(wpms) > 0 {
		avgWPM = mean(wpms)
	}
	avgScore := mean(scores)
	avgWords := float64(totalWords) / float64(len(answers))

	if math.IsNaN(totalDuration) || math.IsInf(totalDuration, 0) {
		return unknownAnalytics()
	}

	return models.Analytics{
		TotalDuration:        FormatDuration(totalDuration),
		AverageResponseTime:  Round1(totalDuration / float64(len(answers))),
		SpeakingPace:         speakingPace(avgWPM),
		TechnicalDepth:       technicalDepth(avgScore),
		CommunicationClarity: communicationClarity(avgWords, avgScore),
	}
}

// FormatDuration renders seconds as "M minutes S seconds".
func FormatDuration(seconds float64) string {
	minutes := int(seconds / 60)
	remainder := int(math.Mod(seconds, 60))
	return fmt.Sprintf("%d minutes %d seconds", minutes, remainder)
}

func speakingPace(wpm float64) string {
	switch {
	case wpm < 100:
		return models.PaceSlow
	case wpm > 180:
		return models.PaceFast
	default:
		return models.PaceNormal
	}
}

func technicalDepth(avgScore float64) string {
	switch {
	case avgScore >= 8:
		return models.DepthHigh
	case avgScore >= 6:
		return models.DepthMedium
	default:
		return models.DepthLow
	}
}

func communicationClarity(avgWords, avgScore float64) string {
	switch {
	case avgWords >= 50 && avgScore >= 7:
		return models.ClarityExcellent
	case avgWords >= 30 && avgScore >= 6:
		return models.ClarityGood
	case avgWords >= 20:
		return models.ClarityFair
	default:
		return models.ClarityNeedsImprovement
	}
}

func (e *evaluatorService) analyzeConsistency(ctx context.Context, answers []models.Answer) float64 {
	if len(answers) < 2 {
		return singleAnswerConsistency
	}

	return WithFallback("analyze_consistency", func() (float64, error) {
		response, err := e.geminiService.GenerateTextWithRetry(ctx, e.promptBuilder.BuildConsistencyPrompt(answers), 0.2, e.maxRetries)
		if err != nil {
			return 0, err
		}
		return ParseConsistencyScore(response)
	}, fallbackConsistency)
}

// CalculateOverallScore blends the mean answer score with the clarity and
// consistency modifiers and clamps the result to [0,10].
func CalculateOverallScore(scores []float64, analytics models.Analytics) float64 {
	if len(scores) == 0 {
		return defaultOverallScore
	}

	modifier := 0.0
	switch analytics.CommunicationClarity {
	case models.ClarityExcellent:
		modifier += 0.5
	case models.ClarityGood:
		modifier += 0.2
	case models.ClarityNeedsImprovement:
		modifier -= 0.3
	}

	if c := analytics.ConsistencyScore; c != nil {
		switch {
		case *c >= 8:
			modifier += 0.3
		case *c <= 5:
			modifier -= 0.2
		}
	}

	return Clamp(mean(scores)+modifier, 0, 10)
}

func (e *evaluatorService) generateOverallFeedback(ctx context.Context, role string, scores []float64, analytics models.Analytics) string {
	if len(scores) == 0 {
		return overallFeedbackFallback
	}

	return WithFallback("generate_overall_feedback", func() (string, error) {
		prompt := e.promptBuilder.BuildOverallFeedbackPrompt(role, mean(scores), analytics)
		response, err := e.geminiService.GenerateTextWithRetry(ctx, prompt, 0.5, e.maxRetries)
		if err != nil {
			return "", err
		}
		feedback := strings.TrimSpace(response)
		if feedback == "" {
			return "", errEmptyResult("overall feedback")
		}
		return feedback, nil
	}, overallFeedbackFallback)
}

func fallbackRecommendations(role string) []string {
	return []string{
		fmt.Sprintf("Continue developing your %s skills through hands-on projects", strings.ToLower(role)),
		"Practice explaining technical concepts clearly and concisely",
		"Review fundamental concepts relevant to your target role",
	}
}

func (e *evaluatorService) generateRecommendations(ctx context.Context, role string, analyses []models.QuestionAnalysis, analytics models.Analytics) []string {
	return WithFallback("generate_recommendations", func() ([]string, error) {
		top := TopImprovements(analyses, topImprovementsForPrompt)
		prompt := e.promptBuilder.BuildRecommendationsPrompt(role, top, analytics)
		response, err := e.geminiService.GenerateTextWithRetry(ctx, prompt, 0.5, e.maxRetries)
		if err != nil {
			return nil, err
		}

		recommendations := ParseNumberedLines(response, maxRecommendations)
		if len(recommendations) == 0 {
			return nil, errEmptyResult("recommendations")
		}
		return recommendations, nil
	}, fallbackRecommendations(role))
}

// TopImprovements ranks improvement strings by exact-match frequency. Ties keep
// the order in which the strings were first seen.
func TopImprovements(analyses []models.QuestionAnalysis, n int) []ImprovementCount {
	index := make(map[string]int)
	var counts []ImprovementCount
	for _, a := range analyses {
		for _, imp := range a.Improvements {
			if i, ok := index[imp]; ok {
				counts[i].Count++
				continue
			}
			index[imp] = len(counts)
			counts = append(counts, ImprovementCount{Text: imp, Count: 1})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
