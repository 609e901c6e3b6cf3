package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"placement-quiz/internal/domain"
	"placement-quiz/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

// setupTestDB creates a new sqlx.DB instance and sqlmock for testing.
func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

const selectQuizSQL = `SELECT id, domain, title, created_at, updated_at FROM quizzes WHERE domain = $1`

func TestGetQuizByDomain(t *testing.T) {
	ctx := context.Background()

	t.Run("existing quiz", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewQuizDatabaseAdapter(db)

		quizID := util.NewULID()
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "domain", "title", "created_at", "updated_at"}).
			AddRow(quizID, "web-development", "Web Development Quiz", now, now)

		mock.ExpectQuery(regexp.QuoteMeta(selectQuizSQL)).
			WithArgs("web-development").
			WillReturnRows(rows)

		quiz, err := repo.GetQuizByDomain(ctx, "web-development")

		assert.NoError(t, err)
		assert.NotNil(t, quiz)
		assert.Equal(t, quizID, quiz.ID)
		assert.Equal(t, "web-development", quiz.Domain)
		assert.Equal(t, "Web Development Quiz", quiz.Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing quiz is nil, not an error", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewQuizDatabaseAdapter(db)

		mock.ExpectQuery(regexp.QuoteMeta(selectQuizSQL)).
			WithArgs("never-seen").
			WillReturnRows(sqlmock.NewRows([]string{"id", "domain", "title", "created_at", "updated_at"}))

		quiz, err := repo.GetQuizByDomain(ctx, "never-seen")

		assert.NoError(t, err)
		assert.Nil(t, quiz)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store failure propagates", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewQuizDatabaseAdapter(db)

		mock.ExpectQuery(regexp.QuoteMeta(selectQuizSQL)).
			WithArgs("algorithms").
			WillReturnError(errors.New("connection refused"))

		quiz, err := repo.GetQuizByDomain(ctx, "algorithms")

		assert.Error(t, err)
		assert.Nil(t, quiz)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateQuiz(t *testing.T) {
	ctx := context.Background()
	insertSQL := `INSERT INTO quizzes (id, domain, title, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`

	t.Run("success fills generated fields", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewQuizDatabaseAdapter(db)

		mock.ExpectExec(regexp.QuoteMeta(insertSQL)).
			WithArgs(sqlmock.AnyArg(), "algorithms", "Algorithms & Data Structures Quiz", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		quiz := &domain.Quiz{Domain: "algorithms", Title: "Algorithms & Data Structures Quiz"}
		err := repo.CreateQuiz(ctx, quiz)

		assert.NoError(t, err)
		assert.NotEmpty(t, quiz.ID)
		assert.False(t, quiz.CreatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate domain maps to ErrDuplicateQuiz", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewQuizDatabaseAdapter(db)

		mock.ExpectExec(regexp.QuoteMeta(insertSQL)).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "quizzes_domain_key"})

		err := repo.CreateQuiz(ctx, &domain.Quiz{Domain: "algorithms", Title: "Algorithms & Data Structures Quiz"})

		assert.ErrorIs(t, err, domain.ErrDuplicateQuiz)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetQuestionsByQuizID(t *testing.T) {
	ctx := context.Background()
	selectSQL := `SELECT id, quiz_id, question, options, correct_answer, question_order, created_at, updated_at FROM quiz_questions WHERE quiz_id = $1 ORDER BY question_order ASC`

	t.Run("returns ordered questions", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewQuizDatabaseAdapter(db)

		quizID := util.NewULID()
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "quiz_id", "question", "options", "correct_answer", "question_order", "created_at", "updated_at"})
		for i := 1; i <= 3; i++ {
			rows.AddRow(util.NewULID(), quizID, "question text",
				[]byte(`{"A":"a","B":"b","C":"c","D":"d"}`), "B", i, now, now)
		}

		mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).
			WithArgs(quizID).
			WillReturnRows(rows)

		questions, err := repo.GetQuestionsByQuizID(ctx, quizID)

		assert.NoError(t, err)
		assert.Len(t, questions, 3)
		for i, q := range questions {
			assert.Equal(t, i+1, q.QuestionOrder)
			assert.Equal(t, "B", q.CorrectAnswer)
			assert.Equal(t, map[string]string{"A": "a", "B": "b", "C": "c", "D": "d"}, q.Options)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no questions yields empty slice", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewQuizDatabaseAdapter(db)

		quizID := util.NewULID()
		mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).
			WithArgs(quizID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "quiz_id", "question", "options", "correct_answer", "question_order", "created_at", "updated_at"}))

		questions, err := repo.GetQuestionsByQuizID(ctx, quizID)

		assert.NoError(t, err)
		assert.Empty(t, questions)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInsertQuestions(t *testing.T) {
	ctx := context.Background()
	insertSQL := `INSERT INTO quiz_questions (id, quiz_id, question, options, correct_answer, question_order, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	newBatch := func(quizID string, n int) []domain.Question {
		batch := make([]domain.Question, 0, n)
		for i := 1; i <= n; i++ {
			batch = append(batch, domain.Question{
				QuizID:        quizID,
				Question:      "question text",
				Options:       map[string]string{"A": "a", "B": "b", "C": "c", "D": "d"},
				CorrectAnswer: "A",
				QuestionOrder: i,
			})
		}
		return batch
	}

	t.Run("inserts the whole batch", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewQuizDatabaseAdapter(db)

		quizID := util.NewULID()
		batch := newBatch(quizID, domain.QuestionsPerQuiz)
		for range batch {
			mock.ExpectExec(regexp.QuoteMeta(insertSQL)).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}

		err := repo.InsertQuestions(ctx, batch)

		assert.NoError(t, err)
		for _, q := range batch {
			assert.NotEmpty(t, q.ID)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrDuplicateQuestions", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewQuizDatabaseAdapter(db)

		quizID := util.NewULID()
		mock.ExpectExec(regexp.QuoteMeta(insertSQL)).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "quiz_questions_quiz_id_question_order_key"})

		err := repo.InsertQuestions(ctx, newBatch(quizID, 2))

		assert.ErrorIs(t, err, domain.ErrDuplicateQuestions)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty batch is rejected", func(t *testing.T) {
		db, _ := setupTestDB(t)
		repo := NewQuizDatabaseAdapter(db)

		assert.Error(t, repo.InsertQuestions(ctx, nil))
	})
}
