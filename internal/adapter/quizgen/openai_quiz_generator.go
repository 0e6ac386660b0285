package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

const generationSystemPrompt = `You are a quiz generation service. Based on the provided input parameters, generate a JSON object containing quiz questions in the prescribed format.

# Guidelines

- **Grade and Subject**: Create questions suitable for the specified grade level and subject, ensuring comprehension and relevance.
- **Question Count**: Generate exactly the number of multiple-choice questions indicated by 'TotalQuestions'.
- **Difficulty**: Ensure all questions align with the specified 'Difficulty' level ('EASY', 'MEDIUM', or 'HARD').
- **Scoring**: Distribute the 'MaxScore' evenly across all questions unless specified otherwise; each question should have equal weightage.
- **Hints**: Provide a helpful hint for each question that guides students toward the answer without giving it away.
- **Response Format**: Produce questions in the exact format specified under "Output Format" below.

# Structure of Questions

Each question in the JSON should follow these rules:
- **Question**: Write age-appropriate and grade-appropriate questions.
- **Options**: Provide exactly 4 distinct answer choices per question.
- **Correct Answer**: Ensure the 'correctAnswer' matches one of the 'options'.
- **Score**: Assign the score equally across all questions based on the given 'MaxScore'.
- **Hint**: Include a helpful hint that guides students without giving away the answer directly.

# Output Format

Return the output in the following JSON format:

{
"questions": [
    {
    "question": [string],
    "options": [array of 4 strings],
    "correctAnswer": [index of options, e.g., "A" for the first option, "B" for the second option, ...],
    "score": [integer or float],
    "hint": [string]
    },
    ...
]
}`

// llmClient is the subset of the langchaingo model surface this adapter
// needs. The production implementation is *openai.LLM.
type llmClient interface {
	Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error)
}

// openAIQuizGenerator implements domain.QuizGenerator against an OpenAI chat
// model.
type openAIQuizGenerator struct {
	llmClient llmClient
}

// NewOpenAIQuizGenerator creates a generator backed by the configured OpenAI
// model.
func NewOpenAIQuizGenerator(cfg config.LLMConfig) (domain.QuizGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key cannot be empty")
	}
	llm, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize openai client: %w", err)
	}
	return &openAIQuizGenerator{llmClient: llm}, nil
}

// generatedQuestion is the wire shape of one question as produced by the
// model.
type generatedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Score         float64  `json:"score"`
	Hint          string   `json:"hint"`
}

// GenerateQuestions implements domain.QuizGenerator. Malformed model output
// (wrong option count, duplicate options, unknown answer label) is rejected
// here, before anything reaches the repositories.
func (g *openAIQuizGenerator) GenerateQuestions(ctx context.Context, spec domain.GenerationSpec) ([]domain.Question, error) {
	l := logger.Get()

	prompt := fmt.Sprintf(`%s

Generate '%d' TotalQuestions, '%s' Difficulty level, '%s' Subject questions for grade %d students.
Each question should be appropriate for their grade level.
The maximum score for the entire assessment is %g.
Ensure the sum of all scores equals exactly '%g' (MaxScore).
Make sure the questions are varied and cover different concepts within %s.
Each question must include a hint that helps students think in the right direction without explicitly giving the answer.`,
		generationSystemPrompt,
		spec.TotalQuestions,
		strings.ToLower(string(spec.Difficulty)),
		spec.Subject,
		spec.Grade,
		spec.MaxScore,
		spec.MaxScore,
		spec.Subject,
	)

	callCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	rawResponse, err := g.llmClient.Call(callCtx, prompt,
		llms.WithTemperature(0.7),
		llms.WithMaxTokens(2000),
		llms.WithJSONMode(),
	)
	if err != nil {
		l.Error("LLM question generation call failed", zap.Error(err))
		return nil, domain.NewLLMServiceError(fmt.Errorf("generation call failed: %w", err))
	}

	l.Debug("Raw LLM generation response received", zap.String("raw_response", rawResponse))

	jsonStr, err := extractJSONObject(rawResponse)
	if err != nil {
		l.Error("No JSON object found in LLM generation response", zap.String("raw_response", rawResponse))
		return nil, domain.NewLLMServiceError(err)
	}

	var payload struct {
		Questions []generatedQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		l.Error("Failed to unmarshal LLM generation response",
			zap.Error(err),
			zap.String("json_string", jsonStr))
		return nil, domain.NewLLMServiceError(fmt.Errorf("failed to unmarshal generated questions: %w", err))
	}

	if len(payload.Questions) == 0 {
		return nil, domain.NewLLMServiceError(fmt.Errorf("model returned no questions"))
	}

	questions := make([]domain.Question, 0, len(payload.Questions))
	for i, gq := range payload.Questions {
		if err := validateGeneratedQuestion(i, gq); err != nil {
			return nil, domain.NewLLMServiceError(err)
		}
		questions = append(questions, domain.Question{
			Text:          gq.Question,
			Options:       gq.Options,
			CorrectAnswer: gq.CorrectAnswer,
			Score:         gq.Score,
			Hint:          gq.Hint,
		})
	}

	l.Info("Generated questions from LLM",
		zap.Int("requested", spec.TotalQuestions),
		zap.Int("generated", len(questions)))
	return questions, nil
}

func validateGeneratedQuestion(index int, gq generatedQuestion) error {
	if gq.Question == "" {
		return fmt.Errorf("generated question %d has empty text", index+1)
	}
	if len(gq.Options) != 4 {
		return fmt.Errorf("generated question %d has %d options, want 4", index+1, len(gq.Options))
	}
	seen := make(map[string]bool, 4)
	for _, opt := range gq.Options {
		if seen[opt] {
			return fmt.Errorf("generated question %d has duplicate option %q", index+1, opt)
		}
		seen[opt] = true
	}
	switch gq.CorrectAnswer {
	case "A", "B", "C", "D":
	default:
		return fmt.Errorf("generated question %d has invalid correctAnswer %q", index+1, gq.CorrectAnswer)
	}
	if gq.Score <= 0 {
		return fmt.Errorf("generated question %d has non-positive score %g", index+1, gq.Score)
	}
	return nil
}

// extractJSONObject returns the substring between the first '{' and the last
// '}' of the response. Models occasionally wrap the object in prose or code
// fences.
func extractJSONObject(response string) (string, error) {
	cleaned := strings.TrimSpace(response)
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in LLM response: %s", cleaned)
	}
	return cleaned[start : end+1], nil
}
