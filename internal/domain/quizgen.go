package domain

import (
	"context"
)

// QuestionGenerator defines the interface for producing question candidates
// for a domain via an external generative model. One call produces exactly
// QuestionsPerQuiz candidates or a DomainError describing why it could not.
type QuestionGenerator interface {
	// GenerateQuestions asks the model for numQuestions multiple-choice
	// questions about the given domain. Implementations must bound the call
	// with the context's deadline and distinguish provider outages
	// (GENERATION_UNAVAILABLE) from contract violations in the model output
	// (GENERATION_FORMAT_INVALID).
	GenerateQuestions(ctx context.Context, domain string, numQuestions int) ([]GeneratedQuestion, error)
}
