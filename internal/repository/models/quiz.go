package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// OptionMap is a custom type for storing the A-D option mapping of a
// question as JSONB.
type OptionMap map[string]string

// Value implements the driver.Valuer interface
func (m OptionMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	jsonData, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (m *OptionMap) Scan(value interface{}) error {
	if value == nil {
		*m = OptionMap{}
		return nil
	}

	var bytesToParse []byte

	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("OptionMap Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*m = OptionMap{}
		return nil
	}

	return json.Unmarshal(bytesToParse, m)
}

// Quiz is the persistence model for a per-domain quiz.
type Quiz struct {
	ID        string    `db:"id"`
	Domain    string    `db:"domain"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// QuizQuestion is the persistence model for one multiple-choice question.
type QuizQuestion struct {
	ID            string    `db:"id"`
	QuizID        string    `db:"quiz_id"`
	Question      string    `db:"question"`
	Options       OptionMap `db:"options"`
	CorrectAnswer string    `db:"correct_answer"`
	QuestionOrder int       `db:"question_order"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
