package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"placement-quiz/internal/config"
	"placement-quiz/internal/domain"
	"placement-quiz/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// completionModel is the slice of the langchaingo client this adapter needs.
// Kept as an interface so tests can stub the model call.
type completionModel interface {
	Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error)
}

// OpenAIQuestionGenerator implements domain.QuestionGenerator against an
// OpenAI-compatible completion API via langchaingo.
type OpenAIQuestionGenerator struct {
	llm     completionModel
	timeout time.Duration
}

// NewOpenAIQuestionGenerator creates the generator from configuration.
func NewOpenAIQuestionGenerator(llmCfg config.LLMConfig) (*OpenAIQuestionGenerator, error) {
	if llmCfg.APIKey == "" {
		return nil, fmt.Errorf("LLM API key cannot be empty")
	}

	opts := []openai.Option{
		openai.WithToken(llmCfg.APIKey),
		openai.WithModel(llmCfg.Model),
	}
	if llmCfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(llmCfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return &OpenAIQuestionGenerator{
		llm:     llm,
		timeout: llmCfg.Timeout,
	}, nil
}

// GenerateQuestions implements domain.QuestionGenerator. The model call is
// bounded by the configured timeout; a timeout or provider failure surfaces
// as GENERATION_UNAVAILABLE, unparseable output as GENERATION_FORMAT_INVALID.
func (g *OpenAIQuestionGenerator) GenerateQuestions(ctx context.Context, quizDomain string, numQuestions int) ([]domain.GeneratedQuestion, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	prompt := buildPrompt(quizDomain, numQuestions)

	logger.Get().Info("Requesting question generation",
		zap.String("domain", quizDomain),
		zap.Int("num_questions", numQuestions))

	response, err := g.llm.Call(ctx, prompt, llms.WithTemperature(0.7))
	if err != nil {
		return nil, domain.NewGenerationUnavailableError(err)
	}

	cleaned := stripCodeFence(response)
	if cleaned == "" {
		return nil, domain.NewGenerationUnavailableError(fmt.Errorf("model returned empty content"))
	}

	var questions []domain.GeneratedQuestion
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		logger.Get().Warn("Model output is not valid JSON",
			zap.String("domain", quizDomain),
			zap.Error(err))
		return nil, domain.NewGenerationFormatError("model output is not a valid JSON array", err)
	}

	return questions, nil
}

// buildPrompt asks for a bare JSON array so the response can be parsed
// without extraction heuristics. Some models still wrap the payload in a
// markdown fence; stripCodeFence handles that.
func buildPrompt(quizDomain string, numQuestions int) string {
	return fmt.Sprintf(`You are a placement preparation quiz generator. Create exactly %d multiple-choice questions to assess a student's knowledge of "%s".

Each question must be an object with:
- "question": the question text
- "options": an object with exactly the keys "A", "B", "C" and "D", each mapping to an answer choice
- "correct_answer": the letter of the correct option ("A", "B", "C" or "D")

Rules:
- Output ONLY a valid JSON array of %d such objects.
- No prose, no markdown, no backticks, no explanation before or after the array.
- Questions must be self-contained and unambiguous, with exactly one correct option.`,
		numQuestions, quizDomain, numQuestions)
}

// stripCodeFence removes an enclosing triple-backtick block (optionally
// tagged "json") from the model output before parsing.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Static assertion that OpenAIQuestionGenerator implements QuestionGenerator
var _ domain.QuestionGenerator = (*OpenAIQuestionGenerator)(nil)
