package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/observability"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

type InterviewService interface {
	Initialize(ctx context.Context, req models.InitializeRequest) (*models.InitializeResponse, error)
	GetSession(ctx context.Context, sessionID string) (*models.InterviewSession, error)
	GenerateTransition(ctx context.Context, req models.TransitionRequest) string
	Submit(ctx context.Context, req models.SubmitRequest) (*models.EvaluationResult, error)
	SubmitAsync(ctx context.Context, req models.SubmitRequest) (*models.SubmitAsyncResponse, error)
	GetResult(ctx context.Context, evaluationID string) (*models.ResultResponse, error)
}

// JobQueue accepts evaluation ids for background processing.
type JobQueue interface {
	EnqueueJob(evaluationID string)
}

type interviewService struct {
	questions   QuestionService
	transitions TransitionService
	processor   EvaluationProcessor
	sessions    repositories.SessionRepository
	users       repositories.UserRepository
	evalRepo    repositories.EvaluationRepository
	bank        *config.QuestionBank
	queue       JobQueue
}

func NewInterviewService(
	questions QuestionService,
	transitions TransitionService,
	processor EvaluationProcessor,
	sessions repositories.SessionRepository,
	users repositories.UserRepository,
	evalRepo repositories.EvaluationRepository,
	bank *config.QuestionBank,
	queue JobQueue,
) InterviewService {
	return &interviewService{
		questions:   questions,
		transitions: transitions,
		processor:   processor,
		sessions:    sessions,
		users:       users,
		evalRepo:    evalRepo,
		bank:        bank,
		queue:       queue,
	}
}

func (s *interviewService) Initialize(ctx context.Context, req models.InitializeRequest) (*models.InitializeResponse, error) {
	sessionID := uuid.NewString()
	log.Printf("🔄 Initializing %s interview session %s\n", req.Role, sessionID)

	texts := s.questions.GenerateQuestions(ctx, sessionID, req.ResumeContent, req.Role)
	intro := s.questions.GenerateIntroMessage(ctx, req.Role)
	transitionTexts := s.transitions.GenerateTransitions(ctx, len(texts))

	questions := make([]models.Question, 0, len(texts))
	for i, text := range texts {
		questions = append(questions, models.Question{ID: i + 1, Text: text})
	}

	transitions := make([]models.Transition, 0, len(transitionTexts))
	for _, text := range transitionTexts {
		transitions = append(transitions, models.Transition{Text: text})
	}

	session := &models.InterviewSession{
		ID:           sessionID,
		Role:         req.Role,
		IntroMessage: intro,
		Questions:    questions,
		Transitions:  transitions,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	log.Printf("✅ Session %s ready with %d questions\n", sessionID, len(questions))

	return &models.InitializeResponse{
		SessionID:    session.ID,
		IntroMessage: session.IntroMessage,
		Questions:    session.Questions,
		Transitions:  session.Transitions,
	}, nil
}

func (s *interviewService) GetSession(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	return s.sessions.Get(ctx, sessionID)
}

func (s *interviewService) GenerateTransition(ctx context.Context, req models.TransitionRequest) string {
	return s.transitions.GenerateDynamicTransition(ctx, req)
}

// Submit evaluates the interview synchronously and stores the outcome.
func (s *interviewService) Submit(ctx context.Context, req models.SubmitRequest) (*models.EvaluationResult, error) {
	eval, err := s.createEvaluation(ctx, req, models.StatusProcessing)
	if err != nil {
		return nil, err
	}

	return s.processor.Evaluate(ctx, eval.EvaluationID, req.InterviewData, eval.Role)
}

// SubmitAsync stores a queued evaluation and hands it to the worker.
func (s *interviewService) SubmitAsync(ctx context.Context, req models.SubmitRequest) (*models.SubmitAsyncResponse, error) {
	eval, err := s.createEvaluation(ctx, req, models.StatusQueued)
	if err != nil {
		return nil, err
	}

	if s.queue != nil {
		s.queue.EnqueueJob(eval.EvaluationID)
	}

	return &models.SubmitAsyncResponse{
		EvaluationID: eval.EvaluationID,
		Message:      "Interview submitted. Evaluation is in progress.",
	}, nil
}

func (s *interviewService) GetResult(ctx context.Context, evaluationID string) (*models.ResultResponse, error) {
	eval, err := s.evalRepo.FindByEvaluationID(evaluationID)
	if err != nil {
		return nil, err
	}

	resp := &models.ResultResponse{
		EvaluationID: eval.EvaluationID,
		Status:       string(eval.Status),
		ErrorMessage: eval.ErrorMessage,
	}

	if eval.Status == models.StatusCompleted {
		result, err := eval.DecodeResults()
		if err != nil {
			return nil, err
		}
		resp.Result = result
	}

	return resp, nil
}

func (s *interviewService) createEvaluation(ctx context.Context, req models.SubmitRequest, status models.EvaluationStatus) (*models.Evaluation, error) {
	user, err := s.resolveUser(req.UserID)
	if err != nil {
		return nil, err
	}

	eval := &models.Evaluation{
		EvaluationID: uuid.NewString(),
		SessionID:    req.SessionID,
		Role:         s.resolveRole(ctx, req),
		SubmittedAt:  time.Now().UTC(),
		Status:       status,
		UserID:       user.ID,
	}
	if err := eval.SetInterviewData(req.InterviewData); err != nil {
		return nil, err
	}

	if err := s.evalRepo.Create(eval); err != nil {
		return nil, err
	}

	log.Printf("📥 Evaluation %s created for session %s (%s, %s)\n", eval.EvaluationID, eval.SessionID, eval.Role, status)
	return eval, nil
}

// resolveUser accepts either the identity provider's id or our own user id.
func (s *interviewService) resolveUser(userID string) (*models.User, error) {
	user, err := s.users.FindByExternalAuthID(userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	id, parseErr := uuid.Parse(userID)
	if parseErr != nil {
		return nil, err
	}

	return s.users.FindByID(id)
}

// resolveRole prefers the explicit role, then the stored session, then the
// keywords of the asked questions.
func (s *interviewService) resolveRole(ctx context.Context, req models.SubmitRequest) string {
	if req.Role != "" {
		return req.Role
	}

	session, err := s.sessions.Get(ctx, req.SessionID)
	if err == nil && session.Role != "" {
		return session.Role
	}
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		log.Printf("⚠️  Failed to load session %s for role lookup: %v\n", req.SessionID, err)
	}

	return s.InferRole(req.InterviewData)
}

func (s *interviewService) InferRole(answers []models.Answer) string {
	texts := make([]string, 0, len(answers))
	for _, a := range ScoredAnswers(answers) {
		texts = append(texts, a.QuestionText)
	}
	return s.bank.InferRole(strings.Join(texts, "\n"))
}

// EvaluationProcessor runs the evaluator for a stored evaluation and records
// the outcome on it.
type EvaluationProcessor interface {
	Evaluate(ctx context.Context, evaluationID string, answers []models.Answer, role string) (*models.EvaluationResult, error)
	ProcessEvaluation(ctx context.Context, evaluationID string) error
}

type evaluationProcessor struct {
	evaluator EvaluatorService
	evalRepo  repositories.EvaluationRepository
}

func NewEvaluationProcessor(evaluator EvaluatorService, evalRepo repositories.EvaluationRepository) EvaluationProcessor {
	return &evaluationProcessor{
		evaluator: evaluator,
		evalRepo:  evalRepo,
	}
}

func (p *evaluationProcessor) Evaluate(ctx context.Context, evaluationID string, answers []models.Answer, role string) (*models.EvaluationResult, error) {
	result, err := p.evaluator.EvaluateCompleteInterview(ctx, answers, role)
	if err != nil {
		if updateErr := p.evalRepo.UpdateError(evaluationID, err.Error()); updateErr != nil {
			log.Printf("❌ Failed to mark evaluation %s as failed: %v\n", evaluationID, updateErr)
		}
		observability.ObserveEvaluation(string(models.StatusFailed), 0)

		if !errors.Is(err, models.ErrEvaluationFailure) {
			err = fmt.Errorf("%w: %v", models.ErrEvaluationFailure, err)
		}
		return nil, err
	}

	if err := p.evalRepo.UpdateResult(evaluationID, result); err != nil {
		return nil, fmt.Errorf("failed to save results: %w", err)
	}
	observability.ObserveEvaluation(string(models.StatusCompleted), result.OverallScore)

	log.Printf("✅ Evaluation %s completed with overall score %.1f\n", evaluationID, result.OverallScore)
	return result, nil
}

// ProcessEvaluation claims a queued evaluation and evaluates it. Evaluations
// already claimed elsewhere are skipped.
func (p *evaluationProcessor) ProcessEvaluation(ctx context.Context, evaluationID string) error {
	claimed, err := p.evalRepo.ClaimQueued(evaluationID)
	if err != nil {
		return err
	}
	if !claimed {
		log.Printf("⚠️  Evaluation %s is no longer queued, skipping\n", evaluationID)
		return nil
	}

	eval, err := p.evalRepo.FindByEvaluationID(evaluationID)
	if err != nil {
		return err
	}

	answers, err := eval.DecodeInterviewData()
	if err != nil {
		if updateErr := p.evalRepo.UpdateError(evaluationID, err.Error()); updateErr != nil {
			log.Printf("❌ Failed to mark evaluation %s as failed: %v\n", evaluationID, updateErr)
		}
		return err
	}

	_, err = p.Evaluate(ctx, evaluationID, answers, eval.Role)
	return err
}
