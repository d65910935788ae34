package flow

import (
	"context"
	"errors"
	"fmt"
	"log"

	"alfredoptarigan/ai-interviewer/internal/models"
)

// Player speaks a prompt and returns once playback has finished.
type Player interface {
	Play(ctx context.Context, text string) error
}

// Controls are the candidate's inputs around a recording.
type Controls interface {
	WaitStart(ctx context.Context) error
	WaitStop(ctx context.Context) error
	Retry(message string)
}

// Submitter receives the finished interview.
type Submitter interface {
	Submit(ctx context.Context, req models.SubmitRequest) error
}

const emptyTranscriptMessage = "We didn't catch an answer. Please try again."

// Runner drives a Machine through one interview.
type Runner struct {
	player    Player
	recorder  *Recorder
	controls  Controls
	submitter Submitter
	userID    string
	role      string

	// OnState, when set, is called after every state change.
	OnState func(Machine)
}

func NewRunner(player Player, recorder *Recorder, controls Controls, submitter Submitter, userID, role string) *Runner {
	return &Runner{
		player:    player,
		recorder:  recorder,
		controls:  controls,
		submitter: submitter,
		userID:    userID,
		role:      role,
	}
}

// Run plays the session to the end and hands the answers to the submitter.
// The returned machine is in the submitting state on success.
func (r *Runner) Run(ctx context.Context, session models.InitializeResponse) (Machine, error) {
	m := New(session)
	r.notify(m)

	for m.State != StateSubmitting {
		var err error
		switch {
		case m.Playing():
			m, err = r.play(ctx, m)
		case m.Recording():
			m, err = r.record(ctx, m)
		case m.State == StateCompleted:
			m, err = r.submit(ctx, m)
		default:
			err = fmt.Errorf("unhandled state %s", m.State)
		}
		if err != nil {
			return m, err
		}
		r.notify(m)
	}

	return m, nil
}

func (r *Runner) play(ctx context.Context, m Machine) (Machine, error) {
	var ev Event = PlaybackFinished{}
	if err := r.player.Play(ctx, m.Prompt()); err != nil {
		if ctx.Err() != nil {
			return m, ctx.Err()
		}
		log.Printf("⚠️  Playback failed in %s: %v\n", m.State, err)
		ev = PlaybackFailed{Err: err}
	}
	return m.Apply(ev)
}

// record runs one recording period. An empty transcript leaves the machine
// where it was and the candidate is asked again.
func (r *Runner) record(ctx context.Context, m Machine) (Machine, error) {
	if err := r.controls.WaitStart(ctx); err != nil {
		return m, err
	}

	m, err := m.Apply(StartCapture{})
	if err != nil {
		return m, err
	}
	if err := r.recorder.Start(ctx); err != nil {
		return m, err
	}

	waitErr := r.controls.WaitStop(ctx)
	transcript, duration := r.recorder.Stop()
	if waitErr != nil {
		return m, waitErr
	}

	if m, err = m.Apply(StopCapture{}); err != nil {
		return m, err
	}

	next, err := m.Apply(Confirm{Transcript: transcript, Duration: duration})
	if errors.Is(err, ErrEmptyTranscript) {
		r.controls.Retry(emptyTranscriptMessage)
		return m, nil
	}
	return next, err
}

func (r *Runner) submit(ctx context.Context, m Machine) (Machine, error) {
	m, err := m.Apply(Submit{})
	if err != nil {
		return m, err
	}

	req := models.SubmitRequest{
		SessionID:     m.Session.SessionID,
		UserID:        r.userID,
		Role:          r.role,
		InterviewData: m.Submission(),
	}
	if err := r.submitter.Submit(ctx, req); err != nil {
		return m, fmt.Errorf("failed to submit interview: %w", err)
	}
	return m, nil
}

func (r *Runner) notify(m Machine) {
	if r.OnState != nil {
		r.OnState(m)
	}
}
