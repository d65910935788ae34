package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"alfredoptarigan/ai-interviewer/internal/models"
)

const (
	DefaultPollInterval = 2 * time.Second
	DefaultMaxPolls     = 90
)

// ErrStillProcessing is returned by GetResult while the evaluation is queued
// or running.
var ErrStillProcessing = errors.New("evaluation still processing")

// APIError is a non-success answer from the interview API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	maxPolls     uint64
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPolling sets how often and how many times WaitForResult asks for a
// result before giving up.
func WithPolling(interval time.Duration, maxPolls uint64) Option {
	return func(c *Client) {
		c.pollInterval = interval
		c.maxPolls = maxPolls
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 120 * time.Second},
		pollInterval: DefaultPollInterval,
		maxPolls:     DefaultMaxPolls,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Initialize(ctx context.Context, req models.InitializeRequest) (*models.InitializeResponse, error) {
	var resp models.InitializeResponse
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/interview/initialize", req, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Submit(ctx context.Context, req models.SubmitRequest) (*models.EvaluationResult, error) {
	var resp models.EvaluationResult
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/interview/submit", req, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SubmitAsync(ctx context.Context, req models.SubmitRequest) (*models.SubmitAsyncResponse, error) {
	var resp models.SubmitAsyncResponse
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/interview/submit?async=true", req, &resp, http.StatusAccepted); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetResult fetches an evaluation once. It returns ErrStillProcessing while
// the server answers 202.
func (c *Client) GetResult(ctx context.Context, evaluationID string) (*models.ResultResponse, error) {
	var resp models.ResultResponse
	status, err := c.doJSON(ctx, http.MethodGet, "/api/interview/results/"+url.PathEscape(evaluationID), nil, &resp,
		http.StatusOK, http.StatusAccepted)
	if err != nil {
		return nil, err
	}
	if status == http.StatusAccepted {
		return &resp, ErrStillProcessing
	}
	return &resp, nil
}

// WaitForResult polls at a fixed interval until the evaluation completes, the
// context ends or the poll budget is spent.
func (c *Client) WaitForResult(ctx context.Context, evaluationID string) (*models.EvaluationResult, error) {
	var result *models.EvaluationResult

	op := func() error {
		resp, err := c.GetResult(ctx, evaluationID)
		if errors.Is(err, ErrStillProcessing) {
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		if resp.Result == nil {
			return backoff.Permanent(fmt.Errorf("evaluation %s completed without a result", evaluationID))
		}
		result = resp.Result
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(c.pollInterval), c.maxPolls), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, fmt.Errorf("failed to wait for evaluation %s: %w", evaluationID, err)
	}
	return result, nil
}

// Speak returns the WAV audio for text.
func (c *Client) Speak(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(models.SpeakRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpResp, err := c.send(ctx, http.MethodPost, "/api/speak", body)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, newAPIError(httpResp.StatusCode, raw)
	}
	return raw, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}, accept ...int) (int, error) {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return 0, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	httpResp, err := c.send(ctx, method, path, body)
	if err != nil {
		return 0, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return httpResp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	for _, code := range accept {
		if httpResp.StatusCode == code {
			if err := json.Unmarshal(raw, out); err != nil {
				return code, fmt.Errorf("failed to decode response: %w", err)
			}
			return code, nil
		}
	}

	return httpResp.StatusCode, newAPIError(httpResp.StatusCode, raw)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	return resp, nil
}

func newAPIError(status int, raw []byte) *APIError {
	var payload struct {
		Error        string `json:"error"`
		ErrorMessage string `json:"error_message"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &payload) == nil {
		switch {
		case payload.ErrorMessage != "":
			msg = payload.ErrorMessage
		case payload.Error != "":
			msg = payload.Error
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}
