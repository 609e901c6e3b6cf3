package domain

import (
	"time"
)

// QuestionsPerQuiz is the number of questions every generated quiz must contain.
// A quiz visible to callers has either zero questions (not yet generated) or
// exactly this many; partial sets are never exposed.
const QuestionsPerQuiz = 10

// OptionKeys are the choice labels every question must carry, in display order.
var OptionKeys = []string{"A", "B", "C", "D"}

// Quiz represents a per-domain quiz. Created lazily on first request for a
// domain and immutable afterwards.
type Quiz struct {
	ID        string
	Domain    string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Question is a single multiple-choice question belonging to a quiz.
type Question struct {
	ID            string
	QuizID        string
	Question      string
	Options       map[string]string // keyed "A".."D"
	CorrectAnswer string
	QuestionOrder int // 1-based, unique within a quiz
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// GeneratedQuestion is a question candidate as returned by the generative
// model, before it has been persisted or assigned an order.
type GeneratedQuestion struct {
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
}

// domainTitles maps known placement-prep domain keys to display titles.
// Domains outside this table get the generic fallback.
var domainTitles = map[string]string{
	"web-development":   "Web Development Quiz",
	"algorithms":        "Algorithms & Data Structures Quiz",
	"databases":         "Database Management Quiz",
	"networking":        "Computer Networks Quiz",
	"operating-systems": "Operating Systems Quiz",
	"aptitude":          "Quantitative Aptitude Quiz",
	"system-design":     "System Design Quiz",
	"machine-learning":  "Machine Learning Quiz",
}

// FallbackTitle is used for domains not present in the title table.
const FallbackTitle = "Skill Assessment Quiz"

// TitleForDomain returns the display title for a domain key.
func TitleForDomain(domain string) string {
	if title, ok := domainTitles[domain]; ok {
		return title
	}
	return FallbackTitle
}

// KnownDomains returns the domain keys with specific titles.
func KnownDomains() map[string]string {
	out := make(map[string]string, len(domainTitles))
	for k, v := range domainTitles {
		out[k] = v
	}
	return out
}

// ValidateGeneratedQuestions checks a parsed model payload against the
// generation contract: exactly QuestionsPerQuiz entries, each with question
// text, the full A-D option set and a correct answer among those labels.
// Any violation fails the whole batch; entries are never repaired or dropped.
func ValidateGeneratedQuestions(questions []GeneratedQuestion) error {
	if len(questions) != QuestionsPerQuiz {
		return NewGenerationFormatError(
			"model returned wrong number of questions", nil)
	}
	for _, q := range questions {
		if q.Question == "" {
			return NewGenerationFormatError("model returned a question with empty text", nil)
		}
		if len(q.Options) != len(OptionKeys) {
			return NewGenerationFormatError("model returned a question with an incomplete option set", nil)
		}
		for _, key := range OptionKeys {
			if text, ok := q.Options[key]; !ok || text == "" {
				return NewGenerationFormatError("model returned a question missing option "+key, nil)
			}
		}
		if !isOptionKey(q.CorrectAnswer) {
			return NewGenerationFormatError("model returned a question with an invalid correct answer", nil)
		}
	}
	return nil
}

func isOptionKey(s string) bool {
	for _, key := range OptionKeys {
		if s == key {
			return true
		}
	}
	return false
}
