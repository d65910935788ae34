package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	defaultAnswerScore    = 5.0
	defaultAnswerFeedback = "Unable to generate detailed feedback."
)

// listMarkers are stripped from the start of every parsed line ("1. ", "- ", "3) ").
const listMarkers = "1234567890.-) "

// AnswerAssessment is the structured form of a per-answer evaluation reply.
type AnswerAssessment struct {
	Score        float64
	Feedback     string
	Strengths    []string
	Improvements []string
}

// ParseNumberedLines returns one entry per non-blank line with list markers
// removed. A limit <= 0 keeps every line.
func ParseNumberedLines(text string, limit int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(strings.TrimLeft(line, listMarkers))
		if line == "" {
			continue
		}
		out = append(out, line)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// ParseAnswerAssessment scans a SCORE/FEEDBACK/STRENGTHS/IMPROVEMENTS reply.
// Missing or malformed sections keep their defaults and the score is always
// clamped to [0,10].
func ParseAnswerAssessment(text string) AnswerAssessment {
	assessment := AnswerAssessment{
		Score:        defaultAnswerScore,
		Feedback:     defaultAnswerFeedback,
		Strengths:    []string{},
		Improvements: []string{},
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SCORE:"):
			if score, err := parseScore(valueAfterPrefix(line)); err == nil {
				assessment.Score = Clamp(score, 0, 10)
			}
		case strings.HasPrefix(line, "FEEDBACK:"):
			if feedback := valueAfterPrefix(line); feedback != "" {
				assessment.Feedback = feedback
			}
		case strings.HasPrefix(line, "STRENGTHS:"):
			assessment.Strengths = parsePipeList(valueAfterPrefix(line))
		case strings.HasPrefix(line, "IMPROVEMENTS:"):
			assessment.Improvements = parsePipeList(valueAfterPrefix(line))
		}
	}

	return assessment
}

// ParseConsistencyScore reads the first whitespace-delimited token as a
// number in [0,10].
func ParseConsistencyScore(text string) (float64, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty consistency response")
	}

	score, err := parseScore(fields[0])
	if err != nil {
		return 0, fmt.Errorf("invalid consistency score %q: %w", fields[0], err)
	}

	return Clamp(score, 0, 10), nil
}

func valueAfterPrefix(line string) string {
	_, value, _ := strings.Cut(line, ":")
	return strings.TrimSpace(value)
}

func parseScore(raw string) (float64, error) {
	raw = strings.Trim(strings.TrimSpace(raw), "[]*")
	raw = strings.TrimSuffix(raw, "/10")
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("score is not finite")
	}
	return score, nil
}

func parsePipeList(raw string) []string {
	items := []string{}
	if raw == "" || raw == "None" {
		return items
	}
	for _, item := range strings.Split(raw, "|") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
