package domain

import "context"

// QuizRepository defines the interface for quiz persistence.
//
// Lookups return (nil, nil) when no row exists; an error always means the
// store itself failed. Callers rely on that distinction to tell "generate
// lazily" apart from "abort the request".
type QuizRepository interface {
	// GetQuizByDomain retrieves the quiz for a domain key, or nil if none exists.
	GetQuizByDomain(ctx context.Context, domain string) (*Quiz, error)

	// CreateQuiz persists a new quiz and fills in its generated ID and timestamps.
	CreateQuiz(ctx context.Context, quiz *Quiz) error

	// GetQuestionsByQuizID returns the persisted questions of a quiz ordered
	// by question_order ascending. An empty slice means not yet generated.
	GetQuestionsByQuizID(ctx context.Context, quizID string) ([]Question, error)

	// InsertQuestions persists a batch of questions for a quiz. The batch is
	// written atomically; either all rows become visible or none do. A second
	// insert for the same quiz fails with ErrDuplicateQuestions.
	InsertQuestions(ctx context.Context, questions []Question) error
}

// DuplicateError signals that an insert lost a uniqueness race: another
// writer already persisted rows for the same key.
type DuplicateError string

func (e DuplicateError) Error() string {
	return string(e)
}

// ErrDuplicateQuestions is returned by InsertQuestions when another caller
// already inserted the question set for the quiz. The loser should re-read
// the winner's rows rather than surface an error.
const ErrDuplicateQuestions = DuplicateError("repository: questions already exist for quiz")

// ErrDuplicateQuiz is returned by CreateQuiz when a quiz for the domain
// already exists.
const ErrDuplicateQuiz = DuplicateError("repository: quiz already exists for domain")

// TransactionManager runs a function within a store transaction. The
// transaction is threaded through the context; repository methods pick it up
// transparently.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
