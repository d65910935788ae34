package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"alfredoptarigan/ai-interviewer/internal/models"
)

func TestGenerateTransitions_NonPositiveCount(t *testing.T) {
	gemini := failingGemini()
	svc := NewTransitionService(gemini, testBank(), 1)

	require.Empty(t, svc.GenerateTransitions(context.Background(), 0))
	require.Empty(t, svc.GenerateTransitions(context.Background(), -2))
	require.Zero(t, gemini.calls())
}

func TestGenerateTransitions_AlwaysCountEntries(t *testing.T) {
	bank := testBank()
	cases := map[string]struct {
		gemini *fakeGemini
		count  int
		want   []string
	}{
		"truncated": {
			gemini: routedGemini(map[string]string{markerTransitions: "1. a\n2. b\n3. c\n4. d"}),
			count:  2,
			want:   []string{"a", "b"},
		},
		"padded from the start of the padding list": {
			gemini: routedGemini(map[string]string{markerTransitions: "Okay, next one.\n\n"}),
			count:  3,
			want:   []string{"Okay, next one.", bank.Transitions.Padding[0], bank.Transitions.Padding[1]},
		},
		"failure cycles the fallback list": {
			gemini: failingGemini(),
			count:  7,
			want: []string{
				bank.Transitions.Fallback[0], bank.Transitions.Fallback[1], bank.Transitions.Fallback[2],
				bank.Transitions.Fallback[3], bank.Transitions.Fallback[4], bank.Transitions.Fallback[0],
				bank.Transitions.Fallback[1],
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := NewTransitionService(tc.gemini, bank, 1).GenerateTransitions(context.Background(), tc.count)
			require.Equal(t, tc.want, got)
			require.Len(t, got, tc.count)
		})
	}
}

func TestGenerateTransitions_PaddingCycles(t *testing.T) {
	bank := testBank()
	count := len(bank.Transitions.Padding) + 2
	gemini := routedGemini(map[string]string{markerTransitions: "only one"})

	got := NewTransitionService(gemini, bank, 1).GenerateTransitions(context.Background(), count)

	require.Len(t, got, count)
	require.Equal(t, bank.Transitions.Padding[0], got[len(got)-1])
}

func TestGenerateDynamicTransition_Fallbacks(t *testing.T) {
	svc := NewTransitionService(failingGemini(), testBank(), 1)
	ctx := context.Background()

	require.Equal(t, introTransitionFallback,
		svc.GenerateDynamicTransition(ctx, models.TransitionRequest{Answer: "I'm Sam", IsIntro: true}))
	require.Equal(t, middleTransitionFallback,
		svc.GenerateDynamicTransition(ctx, models.TransitionRequest{Answer: "x", QuestionNumber: 2, TotalQuestions: 5}))
	require.Equal(t, finalTransitionFallback,
		svc.GenerateDynamicTransition(ctx, models.TransitionRequest{Answer: "x", QuestionNumber: 5, TotalQuestions: 5}))
}

func TestGenerateDynamicTransition_UsesAnswer(t *testing.T) {
	gemini := &fakeGemini{respond: func(string) (string, error) { return " Thanks Sam, let's begin. ", nil }}
	svc := NewTransitionService(gemini, testBank(), 1)

	got := svc.GenerateDynamicTransition(context.Background(), models.TransitionRequest{Answer: "I'm Sam, a backend engineer", IsIntro: true})

	require.Equal(t, "Thanks Sam, let's begin.", got)
	require.Contains(t, gemini.prompts[0], "I'm Sam, a backend engineer")
}
