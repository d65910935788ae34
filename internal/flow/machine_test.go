package flow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"alfredoptarigan/ai-interviewer/internal/models"
)

func testSession(questions int) models.InitializeResponse {
	s := models.InitializeResponse{
		SessionID:    "7b0c2f7e-3c1f-4d7e-9a55-0a4f3c1d2e11",
		IntroMessage: "Welcome! Tell me about yourself.",
	}
	for i := 1; i <= questions; i++ {
		s.Questions = append(s.Questions, models.Question{ID: i, Text: "Question " + string(rune('0'+i))})
		s.Transitions = append(s.Transitions, models.Transition{Text: "Next up."})
	}
	return s
}

func mustApply(t *testing.T, m Machine, events ...Event) Machine {
	t.Helper()
	for _, ev := range events {
		var err error
		m, err = m.Apply(ev)
		require.NoError(t, err, "%T in %s", ev, m.State)
	}
	return m
}

func TestMachine_FullInterview(t *testing.T) {
	m := New(testSession(2))
	require.Equal(t, StateIntroPlaying, m.State)
	require.Equal(t, "Welcome! Tell me about yourself.", m.Prompt())

	m = mustApply(t, m, PlaybackFinished{})
	require.Equal(t, StateIntroRecording, m.State)

	m = mustApply(t, m, StartCapture{})
	require.True(t, m.Capturing)
	m = mustApply(t, m, StopCapture{}, Confirm{Transcript: "  I'm Sam  ", Duration: 20})
	require.Equal(t, StateTransitionPlaying, m.State)
	require.Equal(t, 0, m.Index)
	require.NotNil(t, m.Intro)
	require.Equal(t, models.IntroQuestionID, m.Intro.QuestionID)
	require.Equal(t, "I'm Sam", m.Intro.AnswerText)
	require.Empty(t, m.Answers)

	m = mustApply(t, m, PlaybackFinished{})
	require.Equal(t, StateQuestionPlaying, m.State)
	require.Equal(t, "Question 1", m.Prompt())

	m = mustApply(t, m, PlaybackFailed{Err: errors.New("speaker unplugged")})
	require.Equal(t, StateQuestionRecording, m.State)

	m = mustApply(t, m, StartCapture{}, StopCapture{}, Confirm{Transcript: "first", Duration: 30})
	require.Equal(t, StateTransitionPlaying, m.State)
	require.Equal(t, 1, m.Index)

	m = mustApply(t, m, PlaybackFinished{}, PlaybackFinished{}, StartCapture{}, StopCapture{}, Confirm{Transcript: "second", Duration: 40})
	require.Equal(t, StateCompleted, m.State)

	m = mustApply(t, m, Submit{})
	require.Equal(t, StateSubmitting, m.State)

	require.Equal(t, []models.Answer{
		{QuestionID: 1, QuestionText: "Question 1", AnswerText: "first", AnswerDuration: 30},
		{QuestionID: 2, QuestionText: "Question 2", AnswerText: "second", AnswerDuration: 40},
	}, m.Submission())
}

func TestMachine_EmptyTranscriptKeepsState(t *testing.T) {
	m := mustApply(t, New(testSession(1)),
		PlaybackFinished{}, StartCapture{}, Confirm{Transcript: "hi", Duration: 1},
		PlaybackFinished{}, PlaybackFinished{}, StartCapture{}, StopCapture{})
	require.Equal(t, StateQuestionRecording, m.State)

	for _, transcript := range []string{"", "   ", "\n\t"} {
		next, err := m.Apply(Confirm{Transcript: transcript, Duration: 5})
		require.ErrorIs(t, err, ErrEmptyTranscript)
		require.Equal(t, m, next)
		require.Equal(t, StateQuestionRecording, next.State)
		require.Empty(t, next.Answers)
	}
}

func TestMachine_EmptyIntroTranscript(t *testing.T) {
	m := mustApply(t, New(testSession(1)), PlaybackFinished{})

	next, err := m.Apply(Confirm{Transcript: ""})
	require.ErrorIs(t, err, ErrEmptyTranscript)
	require.Equal(t, StateIntroRecording, next.State)
	require.Nil(t, next.Intro)
}

func TestMachine_MissingTransitionSkipsToQuestion(t *testing.T) {
	session := testSession(3)
	session.Transitions = []models.Transition{{Text: "Let's start."}, {Text: " "}}

	m := mustApply(t, New(session), PlaybackFinished{}, Confirm{Transcript: "intro", Duration: 1})
	require.Equal(t, StateTransitionPlaying, m.State)
	require.Equal(t, "Let's start.", m.Prompt())

	m = mustApply(t, m, PlaybackFinished{}, PlaybackFinished{}, Confirm{Transcript: "a1", Duration: 1})
	require.Equal(t, StateQuestionPlaying, m.State, "blank transition is skipped")
	require.Equal(t, 1, m.Index)

	m = mustApply(t, m, PlaybackFinished{}, Confirm{Transcript: "a2", Duration: 1})
	require.Equal(t, StateQuestionPlaying, m.State, "absent transition is skipped")
	require.Equal(t, 2, m.Index)
}

func TestMachine_NoQuestionsCompletesAfterIntro(t *testing.T) {
	m := mustApply(t, New(testSession(0)), PlaybackFinished{}, Confirm{Transcript: "intro", Duration: 3})
	require.Equal(t, StateCompleted, m.State)
	require.Empty(t, m.Submission())
}

func TestMachine_UnexpectedEvents(t *testing.T) {
	m := New(testSession(1))

	cases := []Event{StartCapture{}, StopCapture{}, Confirm{Transcript: "x"}, Submit{}}
	for _, ev := range cases {
		next, err := m.Apply(ev)
		require.ErrorIs(t, err, ErrUnexpectedEvent, "%T", ev)
		require.Equal(t, m, next)
	}

	recording := mustApply(t, m, PlaybackFinished{})
	_, err := recording.Apply(PlaybackFinished{})
	require.ErrorIs(t, err, ErrUnexpectedEvent)
}

func TestMachine_ApplyDoesNotAliasAnswers(t *testing.T) {
	m := mustApply(t, New(testSession(3)),
		PlaybackFinished{}, Confirm{Transcript: "intro", Duration: 1},
		PlaybackFinished{}, PlaybackFinished{}, Confirm{Transcript: "a1", Duration: 1},
		PlaybackFinished{}, PlaybackFinished{})

	a := mustApply(t, m, Confirm{Transcript: "branch a", Duration: 1})
	b := mustApply(t, m, Confirm{Transcript: "branch b", Duration: 1})

	require.Len(t, m.Answers, 1)
	require.Equal(t, "branch a", a.Answers[1].AnswerText)
	require.Equal(t, "branch b", b.Answers[1].AnswerText)
}

func TestMachine_NegativeDurationClamped(t *testing.T) {
	m := mustApply(t, New(testSession(1)), PlaybackFinished{}, Confirm{Transcript: "intro", Duration: -4})
	require.Equal(t, 0.0, m.Intro.AnswerDuration)
}

func TestMachine_SubmissionSkipsIntroAnswers(t *testing.T) {
	m := New(testSession(1))
	m.Answers = []models.Answer{
		{QuestionID: models.IntroQuestionID, AnswerText: "intro"},
		{QuestionID: 1, AnswerText: "real"},
	}
	require.Equal(t, []models.Answer{{QuestionID: 1, AnswerText: "real"}}, m.Submission())
}
