package services

import (
	"context"
	"strings"

	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/models"
)

const (
	introTransitionFallback  = "Thank you for that introduction. Now let's dive into some questions about your experience."
	middleTransitionFallback = "Great answer. Let's continue with the next question."
	finalTransitionFallback  = "Excellent! That concludes our interview questions. Thank you for your time today."
)

type TransitionService interface {
	GenerateTransitions(ctx context.Context, count int) []string
	GenerateDynamicTransition(ctx context.Context, req models.TransitionRequest) string
}

type transitionService struct {
	geminiService GeminiService
	bank          *config.QuestionBank
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewTransitionService(geminiService GeminiService, bank *config.QuestionBank, maxRetries int) TransitionService {
	return &transitionService{
		geminiService: geminiService,
		bank:          bank,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// GenerateTransitions returns exactly count phrases.
func (t *transitionService) GenerateTransitions(ctx context.Context, count int) []string {
	if count <= 0 {
		return []string{}
	}

	fallback := cycle(t.bank.Transitions.Fallback, count, nil)

	return WithFallback("generate_transitions", func() ([]string, error) {
		response, err := t.geminiService.GenerateTextWithRetry(ctx, t.promptBuilder.BuildTransitionsPrompt(count), 0.8, t.maxRetries)
		if err != nil {
			return nil, err
		}

		transitions := ParseNumberedLines(response, count)
		return cycle(t.bank.Transitions.Padding, count, transitions), nil
	}, fallback)
}

// GenerateDynamicTransition reacts to the answer just given.
func (t *transitionService) GenerateDynamicTransition(ctx context.Context, req models.TransitionRequest) string {
	fallback := middleTransitionFallback
	switch {
	case req.IsIntro:
		fallback = introTransitionFallback
	case req.QuestionNumber == req.TotalQuestions:
		fallback = finalTransitionFallback
	}

	return WithFallback("generate_dynamic_transition", func() (string, error) {
		response, err := t.geminiService.GenerateTextWithRetry(ctx, t.promptBuilder.BuildDynamicTransitionPrompt(req), 0.8, t.maxRetries)
		if err != nil {
			return "", err
		}

		text := strings.TrimSpace(response)
		if text == "" {
			return "", errEmptyResult("transition")
		}
		return text, nil
	}, fallback)
}

// cycle pads head to count entries by repeating pool from its start, then
// truncates to count.
func cycle(pool []string, count int, head []string) []string {
	out := make([]string, 0, count)
	out = append(out, head...)
	for i := 0; len(out) < count && len(pool) > 0; i++ {
		out = append(out, pool[i%len(pool)])
	}
	if len(out) > count {
		out = out[:count]
	}
	return out
}
