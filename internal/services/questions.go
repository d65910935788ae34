package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/models"
)

const introFallbackTemplate = "Welcome to your %s interview! I'm excited to learn more about your background and experience. Please start by introducing yourself and telling me a bit about your professional journey."

type QuestionService interface {
	GenerateQuestions(ctx context.Context, sessionID, resumeText, role string) []string
	GenerateIntroMessage(ctx context.Context, role string) string
}

type questionService struct {
	geminiService GeminiService
	indexer       ResumeIndexer
	bank          *config.QuestionBank
	promptBuilder *PromptBuilder
	maxRetries    int
}

// NewQuestionService builds the generator. indexer may be nil, in which case
// the raw resume text is used as prompt context.
func NewQuestionService(
	geminiService GeminiService,
	indexer ResumeIndexer,
	bank *config.QuestionBank,
	maxRetries int,
) QuestionService {
	return &questionService{
		geminiService: geminiService,
		indexer:       indexer,
		bank:          bank,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// GenerateQuestions always returns exactly five questions.
func (q *questionService) GenerateQuestions(ctx context.Context, sessionID, resumeText, role string) []string {
	fallback := q.bank.FallbackQuestions(role)
	if strings.TrimSpace(resumeText) == "" {
		log.Printf("⚠️  Empty resume for session %s, using %s fallback questions\n", sessionID, role)
		return fallback
	}

	return WithFallback("generate_questions", func() ([]string, error) {
		resumeContext := q.resumeContext(ctx, sessionID, resumeText, role)
		prompt := q.promptBuilder.BuildQuestionsPrompt(resumeContext, role)

		log.Printf("🤖 Generating questions for session %s (%s)\n", sessionID, role)
		response, err := q.geminiService.GenerateTextWithRetry(ctx, prompt, 0.7, q.maxRetries)
		if err != nil {
			return nil, err
		}

		questions := ParseNumberedLines(response, models.QuestionsPerInterview)
		if len(questions) == 0 {
			return nil, errEmptyResult("questions")
		}
		if len(questions) < models.QuestionsPerInterview {
			questions = append(questions, fallback[len(questions):]...)
		}

		return questions, nil
	}, fallback)
}

func (q *questionService) GenerateIntroMessage(ctx context.Context, role string) string {
	fallback := fmt.Sprintf(introFallbackTemplate, role)

	return WithFallback("generate_intro", func() (string, error) {
		response, err := q.geminiService.GenerateTextWithRetry(ctx, q.promptBuilder.BuildIntroPrompt(role), 0.7, q.maxRetries)
		if err != nil {
			return "", err
		}

		intro := strings.TrimSpace(response)
		if intro == "" {
			return "", errEmptyResult("intro message")
		}
		return intro, nil
	}, fallback)
}

// resumeContext prefers the retrieved resume chunks for the role and falls
// back to a truncated copy of the raw resume.
func (q *questionService) resumeContext(ctx context.Context, sessionID, resumeText, role string) string {
	raw := truncateRunes(resumeText, rawResumeContextSize)
	if q.indexer == nil {
		return raw
	}

	if _, err := q.indexer.Index(ctx, sessionID, resumeText); err != nil {
		log.Printf("⚠️  Failed to index resume for session %s: %v\n", sessionID, err)
		return raw
	}

	retrieved, err := q.indexer.RetrieveContext(ctx, sessionID, q.bank.SearchQueries(role))
	if err != nil {
		log.Printf("⚠️  Failed to retrieve resume context for session %s: %v\n", sessionID, err)
		return raw
	}
	if strings.TrimSpace(retrieved) == "" {
		return raw
	}

	return retrieved
}
