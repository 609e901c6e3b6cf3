package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"placement-quiz/internal/domain"
	"placement-quiz/internal/repository/models"
	"placement-quiz/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for a unique constraint failure.
const uniqueViolation = pq.ErrorCode("23505")

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// GetQuizByDomain implements domain.QuizRepository.
// A missing row is reported as (nil, nil); only store failures return an error.
func (a *QuizDatabaseAdapter) GetQuizByDomain(ctx context.Context, quizDomain string) (*domain.Quiz, error) {
	var modelQuiz models.Quiz
	query := `SELECT id, domain, title, created_at, updated_at FROM quizzes WHERE domain = $1`

	err := GetExecutor(ctx, a.db).GetContext(ctx, &modelQuiz, query, quizDomain)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by domain %q: %w", quizDomain, err)
	}
	return toDomainQuiz(&modelQuiz), nil
}

// CreateQuiz implements domain.QuizRepository.
// The generated ID and timestamps are written back into the given quiz.
func (a *QuizDatabaseAdapter) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if quiz == nil {
		return fmt.Errorf("cannot create nil quiz")
	}
	modelQuiz := toModelQuiz(quiz)
	modelQuiz.ID = util.NewULID()
	modelQuiz.CreatedAt = time.Now()
	modelQuiz.UpdatedAt = modelQuiz.CreatedAt

	query := `INSERT INTO quizzes (id, domain, title, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		modelQuiz.ID,
		modelQuiz.Domain,
		modelQuiz.Title,
		modelQuiz.CreatedAt,
		modelQuiz.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateQuiz
		}
		return fmt.Errorf("failed to create quiz for domain %q: %w", quiz.Domain, err)
	}

	quiz.ID = modelQuiz.ID
	quiz.CreatedAt = modelQuiz.CreatedAt
	quiz.UpdatedAt = modelQuiz.UpdatedAt
	return nil
}

// GetQuestionsByQuizID implements domain.QuizRepository.
// Questions come back ordered by question_order ascending; an empty slice
// means the quiz has not been generated yet.
func (a *QuizDatabaseAdapter) GetQuestionsByQuizID(ctx context.Context, quizID string) ([]domain.Question, error) {
	var modelQuestions []models.QuizQuestion
	query := `SELECT id, quiz_id, question, options, correct_answer, question_order, created_at, updated_at FROM quiz_questions WHERE quiz_id = $1 ORDER BY question_order ASC`

	err := GetExecutor(ctx, a.db).SelectContext(ctx, &modelQuestions, query, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions for quiz %s: %w", quizID, err)
	}

	questions := make([]domain.Question, 0, len(modelQuestions))
	for i := range modelQuestions {
		questions = append(questions, *toDomainQuestion(&modelQuestions[i]))
	}
	return questions, nil
}

// InsertQuestions implements domain.QuizRepository.
// Rows are inserted one statement at a time against the executor from the
// context, so a surrounding transaction makes the batch atomic. A unique
// violation on (quiz_id, question_order) surfaces as ErrDuplicateQuestions.
func (a *QuizDatabaseAdapter) InsertQuestions(ctx context.Context, questions []domain.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("cannot insert empty question batch")
	}

	query := `INSERT INTO quiz_questions (id, quiz_id, question, options, correct_answer, question_order, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	executor := GetExecutor(ctx, a.db)
	now := time.Now()
	for i := range questions {
		q := &questions[i]
		modelQuestion := toModelQuestion(q)
		modelQuestion.ID = util.NewULID()
		modelQuestion.CreatedAt = now
		modelQuestion.UpdatedAt = now

		_, err := executor.ExecContext(ctx, query,
			modelQuestion.ID,
			modelQuestion.QuizID,
			modelQuestion.Question,
			modelQuestion.Options,
			modelQuestion.CorrectAnswer,
			modelQuestion.QuestionOrder,
			modelQuestion.CreatedAt,
			modelQuestion.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateQuestions
			}
			return fmt.Errorf("failed to insert question %d for quiz %s: %w", q.QuestionOrder, q.QuizID, err)
		}

		q.ID = modelQuestion.ID
		q.CreatedAt = modelQuestion.CreatedAt
		q.UpdatedAt = modelQuestion.UpdatedAt
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// Helper functions for model conversion

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	if m == nil {
		return nil
	}
	return &domain.Quiz{
		ID:        m.ID,
		Domain:    m.Domain,
		Title:     m.Title,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toModelQuiz(d *domain.Quiz) *models.Quiz {
	if d == nil {
		return nil
	}
	return &models.Quiz{
		ID:        d.ID,
		Domain:    d.Domain,
		Title:     d.Title,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toDomainQuestion(m *models.QuizQuestion) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		ID:            m.ID,
		QuizID:        m.QuizID,
		Question:      m.Question,
		Options:       map[string]string(m.Options),
		CorrectAnswer: m.CorrectAnswer,
		QuestionOrder: m.QuestionOrder,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toModelQuestion(d *domain.Question) *models.QuizQuestion {
	if d == nil {
		return nil
	}
	return &models.QuizQuestion{
		ID:            d.ID,
		QuizID:        d.QuizID,
		Question:      d.Question,
		Options:       models.OptionMap(d.Options),
		CorrectAnswer: d.CorrectAnswer,
		QuestionOrder: d.QuestionOrder,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
