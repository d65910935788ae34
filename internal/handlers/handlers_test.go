package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/ai-interviewer/internal/models"
)

type fakeInterviewService struct {
	initReq     models.InitializeRequest
	submitted   []models.SubmitRequest
	async       bool
	submitErr   error
	result      *models.ResultResponse
	resultErr   error
	session     *models.InterviewSession
	transitions []models.TransitionRequest
}

func (f *fakeInterviewService) Initialize(_ context.Context, req models.InitializeRequest) (*models.InitializeResponse, error) {
	f.initReq = req
	return &models.InitializeResponse{
		SessionID:    "11111111-1111-1111-1111-111111111111",
		IntroMessage: "Welcome!",
		Questions:    []models.Question{{ID: 1, Text: "Q1"}},
		Transitions:  []models.Transition{{Text: "T1"}},
	}, nil
}

func (f *fakeInterviewService) GetSession(_ context.Context, id string) (*models.InterviewSession, error) {
	if f.session == nil || f.session.ID != id {
		return nil, fmt.Errorf("session %s: %w", id, models.ErrNotFound)
	}
	return f.session, nil
}

func (f *fakeInterviewService) GenerateTransition(_ context.Context, req models.TransitionRequest) string {
	f.transitions = append(f.transitions, req)
	return "Let's continue."
}

func (f *fakeInterviewService) Submit(_ context.Context, req models.SubmitRequest) (*models.EvaluationResult, error) {
	f.submitted = append(f.submitted, req)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &models.EvaluationResult{OverallScore: 8.8, OverallFeedback: "Great", Recommendations: []string{"Keep going"}}, nil
}

func (f *fakeInterviewService) SubmitAsync(_ context.Context, req models.SubmitRequest) (*models.SubmitAsyncResponse, error) {
	f.async = true
	f.submitted = append(f.submitted, req)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &models.SubmitAsyncResponse{EvaluationID: "eval-1", Message: "queued"}, nil
}

func (f *fakeInterviewService) GetResult(_ context.Context, _ string) (*models.ResultResponse, error) {
	return f.result, f.resultErr
}

type fakeSpeech struct {
	audio []byte
	err   error
}

func (f *fakeSpeech) SynthesizeSpeech(_ context.Context, text string) ([]byte, error) {
	return f.audio, f.err
}

func newTestApp(svc *fakeInterviewService, speech *fakeSpeech) *fiber.App {
	app := fiber.New()
	Handlers{
		Interview: NewInterviewHandler(svc),
		Speech:    NewSpeechHandler(speech),
	}.Register(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 && resp.Header.Get("Content-Type") != "audio/wav" {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return resp, decoded
}

func validSubmit() map[string]interface{} {
	return map[string]interface{}{
		"session_id": uuid.NewString(),
		"userId":     "auth|123",
		"interview_data": []map[string]interface{}{
			{"question_id": 1, "question_text": "Q1", "answer_text": "A1", "answer_duration": 12.5},
		},
	}
}

func TestInitialize(t *testing.T) {
	svc := &fakeInterviewService{}
	app := newTestApp(svc, &fakeSpeech{})

	resp, body := doJSON(t, app, http.MethodPost, "/api/interview/initialize", map[string]string{
		"role": "Data Scientist", "resume_content": "Python, SQL",
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "11111111-1111-1111-1111-111111111111", body["session_id"])
	require.Equal(t, "Welcome!", body["intro_message"])
	require.Len(t, body["questions"], 1)
	require.Equal(t, models.RoleDataScientist, svc.initReq.Role)
}

func TestInitialize_Validation(t *testing.T) {
	app := newTestApp(&fakeInterviewService{}, &fakeSpeech{})

	for name, body := range map[string]interface{}{
		"unknown role":   map[string]string{"role": "Astronaut", "resume_content": "x"},
		"missing resume": map[string]string{"role": "SDE"},
	} {
		t.Run(name, func(t *testing.T) {
			resp, decoded := doJSON(t, app, http.MethodPost, "/api/interview/initialize", body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Equal(t, "Validation failed", decoded["error"])
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/interview/initialize", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmit_Sync(t *testing.T) {
	svc := &fakeInterviewService{}
	app := newTestApp(svc, &fakeSpeech{})

	resp, body := doJSON(t, app, http.MethodPost, "/api/interview/submit", validSubmit())

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 8.8, body["overall_score"])
	require.False(t, svc.async)
	require.Equal(t, 12.5, svc.submitted[0].InterviewData[0].AnswerDuration)
}

func TestSubmit_Async(t *testing.T) {
	svc := &fakeInterviewService{}
	app := newTestApp(svc, &fakeSpeech{})

	resp, body := doJSON(t, app, http.MethodPost, "/api/interview/submit?async=true", validSubmit())

	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Equal(t, "eval-1", body["evaluation_id"])
	require.True(t, svc.async)
}

func TestSubmit_Validation(t *testing.T) {
	app := newTestApp(&fakeInterviewService{}, &fakeSpeech{})

	cases := map[string]func(map[string]interface{}){
		"bad session id": func(b map[string]interface{}) { b["session_id"] = "not-a-uuid" },
		"missing user":   func(b map[string]interface{}) { delete(b, "userId") },
		"no answers":     func(b map[string]interface{}) { b["interview_data"] = []interface{}{} },
		"bad role":       func(b map[string]interface{}) { b["role"] = "Chef" },
		"negative duration": func(b map[string]interface{}) {
			b["interview_data"] = []map[string]interface{}{{"question_id": 1, "answer_duration": -1}}
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			body := validSubmit()
			mutate(body)
			resp, _ := doJSON(t, app, http.MethodPost, "/api/interview/submit", body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestSubmit_ErrorMapping(t *testing.T) {
	cases := map[string]struct {
		err  error
		code int
	}{
		"unknown user":      {fmt.Errorf("user x: %w", models.ErrNotFound), http.StatusNotFound},
		"duplicate session": {fmt.Errorf("%w: dup", models.ErrConflict), http.StatusConflict},
		"evaluation failed": {fmt.Errorf("%w: boom", models.ErrEvaluationFailure), http.StatusInternalServerError},
		"database down":     {errors.New("pq: connection refused"), http.StatusInternalServerError},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			app := newTestApp(&fakeInterviewService{submitErr: tc.err}, &fakeSpeech{})
			resp, body := doJSON(t, app, http.MethodPost, "/api/interview/submit", validSubmit())
			require.Equal(t, tc.code, resp.StatusCode)
			require.NotContains(t, body["error"], "pq:")
		})
	}
}

func TestGetResult_StatusCodes(t *testing.T) {
	msg := "evaluation failure: boom"
	cases := map[string]struct {
		result *models.ResultResponse
		err    error
		code   int
	}{
		"queued":     {result: &models.ResultResponse{Status: "queued"}, code: http.StatusAccepted},
		"processing": {result: &models.ResultResponse{Status: "processing"}, code: http.StatusAccepted},
		"completed":  {result: &models.ResultResponse{Status: "completed", Result: &models.EvaluationResult{OverallScore: 7}}, code: http.StatusOK},
		"failed":     {result: &models.ResultResponse{Status: "failed", ErrorMessage: &msg}, code: http.StatusInternalServerError},
		"missing":    {err: fmt.Errorf("evaluation x: %w", models.ErrNotFound), code: http.StatusNotFound},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			app := newTestApp(&fakeInterviewService{result: tc.result, resultErr: tc.err}, &fakeSpeech{})
			resp, _ := doJSON(t, app, http.MethodGet, "/api/interview/results/abc", nil)
			require.Equal(t, tc.code, resp.StatusCode)
		})
	}
}

func TestGetSession(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := &fakeInterviewService{session: &models.InterviewSession{
		ID: "s1", Role: models.RoleSDE, Questions: make([]models.Question, 5), CreatedAt: created,
	}}
	app := newTestApp(svc, &fakeSpeech{})

	resp, body := doJSON(t, app, http.MethodGet, "/api/interview/sessions/s1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "SDE", body["role"])
	require.Equal(t, 5.0, body["questions_count"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/interview/sessions/other", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTransition(t *testing.T) {
	svc := &fakeInterviewService{}
	app := newTestApp(svc, &fakeSpeech{})

	resp, body := doJSON(t, app, http.MethodPost, "/api/interview/transition", map[string]interface{}{
		"answer": "I'm Sam", "question_number": 0, "total_questions": 5, "is_intro": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Let's continue.", body["text"])
	require.True(t, svc.transitions[0].IsIntro)
}

func TestSpeak(t *testing.T) {
	app := newTestApp(&fakeInterviewService{}, &fakeSpeech{audio: []byte("RIFFdata")})

	resp, _ := doJSON(t, app, http.MethodPost, "/api/speak", map[string]string{"text": "Hello"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "audio/wav", resp.Header.Get("Content-Type"))
}

func TestSpeak_Errors(t *testing.T) {
	app := newTestApp(&fakeInterviewService{}, &fakeSpeech{err: fmt.Errorf("%w: quota exceeded", models.ErrUpstream)})

	resp, body := doJSON(t, app, http.MethodPost, "/api/speak", map[string]string{"text": "Hello"})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Equal(t, 502.0, body["status"])
	require.Contains(t, body["details"], "quota exceeded")
	require.NotEmpty(t, body["error"])

	resp, _ = doJSON(t, app, http.MethodPost, "/api/speak", map[string]string{"text": ""})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	app := newTestApp(&fakeInterviewService{}, &fakeSpeech{})

	resp, body := doJSON(t, app, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "healthy", body["status"])
}
