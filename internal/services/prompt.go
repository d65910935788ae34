package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/ai-interviewer/internal/models"
)

const answerPreviewLength = 200

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildQuestionsPrompt creates prompt for resume-based question generation
func (pb *PromptBuilder) BuildQuestionsPrompt(resumeContext, role string) string {
	return fmt.Sprintf(`Based on the candidate's resume content and the role of %s, generate exactly 5 specific interview questions.

Resume content:
%s

Role: %s

Generate 5 specific questions that:
1. Reference specific points from their resume content
2. Are highly relevant to the %s role
3. Allow the candidate to elaborate on their experience
4. Help assess their skills and expertise for this specific role
5. Are personalized based on their background

Return only the questions, one per line, numbered 1-5.`,
		role, resumeContext, role, role)
}

// BuildIntroPrompt creates prompt for the interviewer's greeting
func (pb *PromptBuilder) BuildIntroPrompt(role string) string {
	return fmt.Sprintf(`You are an AI interviewer conducting a %s interview.
Generate a warm, professional greeting that:
1. Welcomes the candidate
2. Briefly explains what will happen in the interview
3. Encourages them to relax and be themselves
4. Asks them to introduce themselves

Keep it conversational and friendly, around 2-3 sentences.`, role)
}

// BuildTransitionsPrompt creates prompt for the phrases spoken between questions
func (pb *PromptBuilder) BuildTransitionsPrompt(count int) string {
	return fmt.Sprintf(`Generate %d smooth, natural transition phrases for an AI interview.
These phrases will be used between questions to maintain conversational flow. Do not give the candidate any feedback in your transitions.
Keep it like a normal conversation between a recruiter and a candidate, e.g. "ok, let's move on to the next question", not "great answer, let's move on".

Requirements:
1. Keep them brief (1-2 sentences)
2. Sound natural and encouraging
3. Vary the phrasing to avoid repetition
4. Maintain professional but friendly tone
5. Include acknowledgment and smooth segue

Return exactly %d transitions, one per line.`, count, count)
}

// BuildDynamicTransitionPrompt creates prompt for a transition that reacts to the last answer
func (pb *PromptBuilder) BuildDynamicTransitionPrompt(req models.TransitionRequest) string {
	if req.IsIntro {
		return fmt.Sprintf(`The candidate just introduced themselves with: "%s"

Generate a brief, warm transition that:
1. Acknowledges something specific from their introduction
2. Transitions smoothly to the technical questions
3. Keeps them comfortable and engaged

Keep it to 1-2 sentences and natural.`, req.Answer)
	}

	progress := fmt.Sprintf("question %d of %d", req.QuestionNumber, req.TotalQuestions)
	if req.QuestionNumber == req.TotalQuestions {
		return fmt.Sprintf(`This was the final question (%s). The candidate answered: "%s"

Generate a brief closing transition that:
1. Thanks them for their time
2. Indicates the interview is complete
3. Sounds warm and professional

Keep it to 1-2 sentences.`, progress, req.Answer)
	}

	return fmt.Sprintf(`We're on %s. The candidate just answered: "%s"

Generate a brief transition that:
1. Briefly acknowledges their answer (without detailed feedback)
2. Smoothly moves to the next question
3. Maintains positive momentum

Keep it to 1-2 sentences and conversational.`, progress, req.Answer)
}

// BuildAnswerEvaluationPrompt creates prompt for scoring one answer
func (pb *PromptBuilder) BuildAnswerEvaluationPrompt(question, answer, role string) string {
	return fmt.Sprintf(`You are evaluating a %s interview answer. Provide a detailed assessment.

Question: %s
Answer: %s

Evaluate this answer on a scale of 0-10 and provide:
1. A numeric score (0-10)
2. Detailed feedback (2-3 sentences)
3. Key strengths (list up to 3)
4. Areas for improvement (list up to 3)

Format your response as:
SCORE: [number]
FEEDBACK: [detailed feedback]
STRENGTHS: [strength1] | [strength2] | [strength3]
IMPROVEMENTS: [improvement1] | [improvement2] | [improvement3]

If any section has fewer items, just list what applies.`, role, question, answer)
}

// BuildConsistencyPrompt creates prompt for the cross-answer consistency rating
func (pb *PromptBuilder) BuildConsistencyPrompt(answers []models.Answer) string {
	previews := make([]string, 0, len(answers))
	for i, a := range answers {
		previews = append(previews, fmt.Sprintf("Q%d: %s... A: %s...",
			i+1, a.QuestionText, truncateRunes(a.AnswerText, answerPreviewLength)))
	}

	return fmt.Sprintf(`Analyze the consistency across these interview answers. Look for:
1. Consistent technical knowledge level
2. Consistent communication style
3. Logical flow between related topics
4. No contradictory statements

Answers:
%s

Rate the consistency on a scale of 0-10 where:
- 10: Highly consistent, well-aligned responses
- 7-9: Mostly consistent with minor variations
- 4-6: Some inconsistencies but generally coherent
- 1-3: Notable inconsistencies or contradictions
- 0: Major contradictions or incoherent

Respond with just the number (0-10).`, strings.Join(previews, "\n"))
}

// BuildOverallFeedbackPrompt creates prompt for the interview-level summary
func (pb *PromptBuilder) BuildOverallFeedbackPrompt(role string, averageScore float64, analytics models.Analytics) string {
	return fmt.Sprintf(`Generate overall interview feedback for a %s candidate.

Interview Summary:
- Average Score: %.1f/10
- Total Duration: %s
- Communication Clarity: %s
- Technical Depth: %s
- Speaking Pace: %s

Provide 2-3 sentences of constructive overall feedback that:
1. Acknowledges their strengths
2. Provides encouraging but honest assessment
3. Gives a sense of their readiness for the role

Be professional, constructive, and encouraging.`,
		role, averageScore, analytics.TotalDuration, analytics.CommunicationClarity,
		analytics.TechnicalDepth, analytics.SpeakingPace)
}

// BuildRecommendationsPrompt creates prompt for actionable next steps
func (pb *PromptBuilder) BuildRecommendationsPrompt(role string, top []ImprovementCount, analytics models.Analytics) string {
	lines := make([]string, 0, len(top))
	for _, imp := range top {
		lines = append(lines, fmt.Sprintf("- %s (mentioned %d times)", imp.Text, imp.Count))
	}

	return fmt.Sprintf(`Generate 3-5 specific, actionable recommendations for a %s candidate based on their interview performance.

Key improvement areas mentioned:
%s

Analytics:
- Communication Clarity: %s
- Technical Depth: %s
- Speaking Pace: %s

Provide specific, actionable recommendations that:
1. Address the most common improvement areas
2. Are relevant to the %s role
3. Include concrete steps they can take
4. Are encouraging and constructive

Return as a simple list, one recommendation per line.`,
		role, strings.Join(lines, "\n"), analytics.CommunicationClarity,
		analytics.TechnicalDepth, analytics.SpeakingPace, role)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
