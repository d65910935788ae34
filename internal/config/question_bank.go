package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"alfredoptarigan/ai-interviewer/internal/models"
)

//go:embed question_bank.yaml
var defaultQuestionBank []byte

// QuestionBank holds the static content used whenever the LLM cannot be
// reached: per-role questions, retrieval queries and transition phrases.
type QuestionBank struct {
	Roles       map[string]RoleBank `yaml:"roles"`
	Generic     RoleBank            `yaml:"generic"`
	Transitions TransitionBank      `yaml:"transitions"`
}

type RoleBank struct {
	Keywords      []string `yaml:"keywords"`
	SearchQueries []string `yaml:"search_queries"`
	Questions     []string `yaml:"questions"`
}

type TransitionBank struct {
	Padding  []string `yaml:"padding"`
	Fallback []string `yaml:"fallback"`
}

// LoadQuestionBank reads the bank from path, or the embedded default when path
// is empty.
func LoadQuestionBank(path string) (*QuestionBank, error) {
	data := defaultQuestionBank
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read question bank %s: %w", path, err)
		}
		data = raw
	}

	return ParseQuestionBank(data)
}

func ParseQuestionBank(data []byte) (*QuestionBank, error) {
	var bank QuestionBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}

	if err := validateQuestionBank(&bank); err != nil {
		return nil, fmt.Errorf("invalid question bank: %w", err)
	}

	return &bank, nil
}

func validateQuestionBank(bank *QuestionBank) error {
	for _, role := range models.Roles {
		rb, ok := bank.Roles[role]
		if !ok {
			return fmt.Errorf("role %q is missing", role)
		}
		if len(rb.Questions) != models.QuestionsPerInterview {
			return fmt.Errorf("role %q must have %d questions, got %d",
				role, models.QuestionsPerInterview, len(rb.Questions))
		}
	}

	if len(bank.Generic.Questions) != models.QuestionsPerInterview {
		return fmt.Errorf("generic bank must have %d questions, got %d",
			models.QuestionsPerInterview, len(bank.Generic.Questions))
	}

	if len(bank.Transitions.Padding) == 0 {
		return fmt.Errorf("transitions.padding must not be empty")
	}

	if len(bank.Transitions.Fallback) == 0 {
		return fmt.Errorf("transitions.fallback must not be empty")
	}

	return nil
}

// FallbackQuestions returns a copy of the role's questions, or the generic
// questions for an unknown role.
func (b *QuestionBank) FallbackQuestions(role string) []string {
	rb, ok := b.Roles[role]
	if !ok {
		rb = b.Generic
	}
	return append([]string(nil), rb.Questions...)
}

func (b *QuestionBank) SearchQueries(role string) []string {
	rb, ok := b.Roles[role]
	if !ok || len(rb.SearchQueries) == 0 {
		return append([]string(nil), b.Generic.SearchQueries...)
	}
	return append([]string(nil), rb.SearchQueries...)
}

// InferRole picks the role whose keywords occur most often in text. Ties go
// to the earlier role in models.Roles; no hit at all yields Product Manager.
func (b *QuestionBank) InferRole(text string) string {
	text = strings.ToLower(text)

	best, bestHits := models.RoleProductManager, 0
	for _, role := range models.Roles {
		hits := 0
		for _, kw := range b.Roles[role].Keywords {
			hits += strings.Count(text, strings.ToLower(kw))
		}
		if hits > bestHits {
			best, bestHits = role, hits
		}
	}

	return best
}
