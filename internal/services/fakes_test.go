package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/models"
)

var errLLMDown = errors.New("llm unavailable")

// fakeGemini answers prompts through respond and records every call.
type fakeGemini struct {
	mu      sync.Mutex
	respond func(prompt string) (string, error)
	embed   func(text string) ([]float32, error)
	prompts []string
	embeds  []string
}

func (f *fakeGemini) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.embeds = append(f.embeds, text)
	f.mu.Unlock()

	if f.embed == nil {
		return []float32{float32(len(text))}, nil
	}
	return f.embed(text)
}

func (f *fakeGemini) GenerateText(_ context.Context, prompt string, _ float32) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	respond := f.respond
	f.mu.Unlock()

	if respond == nil {
		return "", errLLMDown
	}
	return respond(prompt)
}

func (f *fakeGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, _ int) (string, error) {
	return f.GenerateText(ctx, prompt, temperature)
}

func (f *fakeGemini) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func failingGemini() *fakeGemini {
	return &fakeGemini{}
}

// routedGemini picks the reply by a distinctive phrase of each prompt.
func routedGemini(routes map[string]string) *fakeGemini {
	return &fakeGemini{respond: func(prompt string) (string, error) {
		for marker, reply := range routes {
			if strings.Contains(prompt, marker) {
				return reply, nil
			}
		}
		return "", errLLMDown
	}}
}

const (
	markerAnswer          = "Evaluate this answer on a scale"
	markerConsistency     = "Analyze the consistency"
	markerFeedback        = "Generate overall interview feedback"
	markerRecommendations = "actionable recommendations"
	markerQuestions       = "generate exactly 5 specific interview questions"
	markerIntro           = "Generate a warm, professional greeting"
	markerTransitions     = "smooth, natural transition phrases"
)

func testBank() *config.QuestionBank {
	bank, err := config.LoadQuestionBank("")
	if err != nil {
		panic(err)
	}
	return bank
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]*models.InterviewSession
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]*models.InterviewSession{}}
}

func (m *memorySessions) Save(_ context.Context, s *models.InterviewSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memorySessions) Get(_ context.Context, id string) (*models.InterviewSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memorySessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

type memoryUsers struct {
	users []models.User
}

func (m *memoryUsers) Upsert(u *models.User) error {
	for i := range m.users {
		if m.users[i].ExternalAuthID == u.ExternalAuthID {
			m.users[i].Email = u.Email
			m.users[i].Name = u.Name
			*u = m.users[i]
			return nil
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.users = append(m.users, *u)
	return nil
}

func (m *memoryUsers) FindByID(id uuid.UUID) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			cp := u
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memoryUsers) FindByExternalAuthID(ext string) (*models.User, error) {
	for _, u := range m.users {
		if u.ExternalAuthID == ext {
			cp := u
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

type memoryEvaluations struct {
	mu    sync.Mutex
	evals map[string]*models.Evaluation
}

func newMemoryEvaluations() *memoryEvaluations {
	return &memoryEvaluations{evals: map[string]*models.Evaluation{}}
}

func (m *memoryEvaluations) Create(e *models.Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.evals {
		if existing.SessionID == e.SessionID {
			return models.ErrConflict
		}
	}
	cp := *e
	m.evals[e.EvaluationID] = &cp
	return nil
}

func (m *memoryEvaluations) FindByEvaluationID(id string) (*models.Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.evals[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memoryEvaluations) ListByUser(userID uuid.UUID) ([]models.Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Evaluation
	for _, e := range m.evals {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memoryEvaluations) ClaimQueued(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.evals[id]
	if !ok || e.Status != models.StatusQueued {
		return false, nil
	}
	e.Status = models.StatusProcessing
	return true, nil
}

func (m *memoryEvaluations) UpdateStatus(id string, status models.EvaluationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.evals[id]
	if !ok {
		return models.ErrNotFound
	}
	e.Status = status
	return nil
}

func (m *memoryEvaluations) UpdateResult(id string, result *models.EvaluationResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.evals[id]
	if !ok {
		return models.ErrNotFound
	}
	if err := e.SetResults(result); err != nil {
		return err
	}
	e.Status = models.StatusCompleted
	return nil
}

func (m *memoryEvaluations) UpdateError(id string, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.evals[id]
	if !ok {
		return models.ErrNotFound
	}
	e.Status = models.StatusFailed
	e.ErrorMessage = &msg
	return nil
}

func (m *memoryEvaluations) FindPendingJobs(limit int) ([]models.Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Evaluation
	for _, e := range m.evals {
		if e.Status == models.StatusQueued && len(out) < limit {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memoryEvaluations) status(id string) models.EvaluationStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evals[id].Status
}
