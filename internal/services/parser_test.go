package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumberedLines(t *testing.T) {
	text := "\n 1. First\n2) Second\n\n- Third\n10. Tenth\n   \n3.   \nPlain"

	require.Equal(t, []string{"First", "Second", "Third", "Tenth", "Plain"}, ParseNumberedLines(text, 0))
	require.Equal(t, []string{"First", "Second"}, ParseNumberedLines(text, 2))
	require.Empty(t, ParseNumberedLines(" \n\n", 5))
}

func TestParseAnswerAssessment(t *testing.T) {
	text := `
   SCORE: 7.5
FEEDBACK:   Clear and structured answer.
STRENGTHS: Structure |  Examples | 
IMPROVEMENTS: None
`
	got := ParseAnswerAssessment(text)

	require.Equal(t, 7.5, got.Score)
	require.Equal(t, "Clear and structured answer.", got.Feedback)
	require.Equal(t, []string{"Structure", "Examples"}, got.Strengths)
	require.Empty(t, got.Improvements)
}

func TestParseAnswerAssessment_ClampsAndDefaults(t *testing.T) {
	cases := map[string]struct {
		text  string
		score float64
	}{
		"too high":      {"SCORE: 15", 10},
		"negative":      {"SCORE: -3", 0},
		"bracketed":     {"SCORE: [8]", 8},
		"out of ten":    {"SCORE: 6/10", 6},
		"garbage":       {"SCORE: great", 5},
		"missing":       {"FEEDBACK: fine", 5},
		"empty":         {"", 5},
		"not a number":  {"SCORE: NaN", 5},
		"infinite":      {"SCORE: +Inf", 5},
		"lowercase key": {"score: 9", 5},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := ParseAnswerAssessment(tc.text)
			assert.Equal(t, tc.score, got.Score)
			assert.GreaterOrEqual(t, got.Score, 0.0)
			assert.LessOrEqual(t, got.Score, 10.0)
			assert.NotNil(t, got.Strengths)
			assert.NotNil(t, got.Improvements)
		})
	}

	require.Equal(t, "Unable to generate detailed feedback.", ParseAnswerAssessment("SCORE: 4").Feedback)
	require.Equal(t, "Unable to generate detailed feedback.", ParseAnswerAssessment("FEEDBACK:   ").Feedback)
}

func TestParseConsistencyScore(t *testing.T) {
	score, err := ParseConsistencyScore("  8.5 - mostly consistent")
	require.NoError(t, err)
	require.Equal(t, 8.5, score)

	score, err = ParseConsistencyScore("12")
	require.NoError(t, err)
	require.Equal(t, 10.0, score)

	_, err = ParseConsistencyScore("Consistent: 8")
	require.Error(t, err)

	_, err = ParseConsistencyScore("   ")
	require.Error(t, err)
}

func TestRound1(t *testing.T) {
	require.Equal(t, 8.8, Round1(8.8000000001))
	require.Equal(t, 6.3, Round1(6.25))
	require.Equal(t, 0.0, Round1(0.04))
}
