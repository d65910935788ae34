package flow

import (
	"errors"
	"fmt"
	"strings"

	"alfredoptarigan/ai-interviewer/internal/models"
)

type State string

const (
	StateIntroPlaying      State = "intro-playing"
	StateIntroRecording    State = "intro-recording"
	StateTransitionPlaying State = "transition-playing"
	StateQuestionPlaying   State = "question-playing"
	StateQuestionRecording State = "question-recording"
	StateCompleted         State = "completed"
	StateSubmitting        State = "submitting"
)

var (
	ErrEmptyTranscript = errors.New("transcript is empty")
	ErrUnexpectedEvent = errors.New("event not allowed in current state")
)

// Event drives the machine from one state to the next.
type Event interface {
	eventName() string
}

// PlaybackFinished is sent once the prompt of a playing state has been heard.
type PlaybackFinished struct{}

// PlaybackFailed advances exactly like PlaybackFinished.
type PlaybackFailed struct {
	Err error
}

type StartCapture struct{}

type StopCapture struct{}

// Confirm accepts the transcript of the current recording. Duration is in
// seconds.
type Confirm struct {
	Transcript string
	Duration   float64
}

type Submit struct{}

func (PlaybackFinished) eventName() string { return "playback-finished" }
func (PlaybackFailed) eventName() string   { return "playback-failed" }
func (StartCapture) eventName() string     { return "start-capture" }
func (StopCapture) eventName() string      { return "stop-capture" }
func (Confirm) eventName() string          { return "confirm" }
func (Submit) eventName() string           { return "submit" }

// Machine is the whole client-side interview state. Apply never mutates the
// receiver, so every value can be kept and compared.
type Machine struct {
	Session   models.InitializeResponse
	State     State
	Index     int
	Capturing bool
	Intro     *models.Answer
	Answers   []models.Answer
}

func New(session models.InitializeResponse) Machine {
	return Machine{
		Session: session,
		State:   StateIntroPlaying,
	}
}

func (m Machine) Apply(ev Event) (Machine, error) {
	switch e := ev.(type) {
	case PlaybackFinished, PlaybackFailed:
		return m.playbackDone(ev)
	case StartCapture:
		if !m.Recording() {
			return m, m.unexpected(ev)
		}
		m.Capturing = true
		return m, nil
	case StopCapture:
		if !m.Recording() {
			return m, m.unexpected(ev)
		}
		m.Capturing = false
		return m, nil
	case Confirm:
		return m.confirm(e)
	case Submit:
		if m.State != StateCompleted {
			return m, m.unexpected(ev)
		}
		m.State = StateSubmitting
		return m, nil
	default:
		return m, m.unexpected(ev)
	}
}

func (m Machine) playbackDone(ev Event) (Machine, error) {
	switch m.State {
	case StateIntroPlaying:
		m.State = StateIntroRecording
	case StateTransitionPlaying:
		m.State = StateQuestionPlaying
	case StateQuestionPlaying:
		m.State = StateQuestionRecording
	default:
		return m, m.unexpected(ev)
	}
	return m, nil
}

func (m Machine) confirm(e Confirm) (Machine, error) {
	if !m.Recording() {
		return m, m.unexpected(e)
	}

	transcript := strings.TrimSpace(e.Transcript)
	if transcript == "" {
		return m, ErrEmptyTranscript
	}
	duration := e.Duration
	if duration < 0 {
		duration = 0
	}

	m.Capturing = false

	if m.State == StateIntroRecording {
		m.Intro = &models.Answer{
			QuestionID:     models.IntroQuestionID,
			QuestionText:   m.Session.IntroMessage,
			AnswerText:     transcript,
			AnswerDuration: duration,
		}
		return m.enterQuestion(0), nil
	}

	q := m.Session.Questions[m.Index]
	answers := make([]models.Answer, len(m.Answers), len(m.Answers)+1)
	copy(answers, m.Answers)
	m.Answers = append(answers, models.Answer{
		QuestionID:     q.ID,
		QuestionText:   q.Text,
		AnswerText:     transcript,
		AnswerDuration: duration,
	})

	return m.enterQuestion(m.Index + 1), nil
}

// enterQuestion moves to question i, through its transition when there is one.
func (m Machine) enterQuestion(i int) Machine {
	if i >= len(m.Session.Questions) {
		m.State = StateCompleted
		return m
	}

	m.Index = i
	if m.transitionText(i) != "" {
		m.State = StateTransitionPlaying
	} else {
		m.State = StateQuestionPlaying
	}
	return m
}

func (m Machine) transitionText(i int) string {
	if i < 0 || i >= len(m.Session.Transitions) {
		return ""
	}
	return strings.TrimSpace(m.Session.Transitions[i].Text)
}

// Recording reports whether the machine is waiting for an answer.
func (m Machine) Recording() bool {
	return m.State == StateIntroRecording || m.State == StateQuestionRecording
}

// Playing reports whether the machine is waiting for a prompt to be heard.
func (m Machine) Playing() bool {
	switch m.State {
	case StateIntroPlaying, StateTransitionPlaying, StateQuestionPlaying:
		return true
	}
	return false
}

// Prompt is the text to be spoken in a playing state.
func (m Machine) Prompt() string {
	switch m.State {
	case StateIntroPlaying:
		return m.Session.IntroMessage
	case StateTransitionPlaying:
		return m.transitionText(m.Index)
	case StateQuestionPlaying:
		return m.Session.Questions[m.Index].Text
	}
	return ""
}

// Submission returns the answers to real questions. The intro answer is never
// part of it.
func (m Machine) Submission() []models.Answer {
	out := make([]models.Answer, 0, len(m.Answers))
	for _, a := range m.Answers {
		if !a.IsIntro() {
			out = append(out, a)
		}
	}
	return out
}

func (m Machine) unexpected(ev Event) error {
	return fmt.Errorf("%w: %s in %s", ErrUnexpectedEvent, ev.eventName(), m.State)
}
