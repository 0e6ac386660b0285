package evaluator

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

const evaluationSystemPrompt = `Evaluate user quiz responses, calculate scores, and provide improvement suggestions based on their submission.

# Details

- Evaluate correctness for each response by comparing the user's answer to the correct answer.
- Calculate the total score, summing up points only for correct answers.
- Generate two tailored improvement suggestions based on incorrect answers and answer patterns.
- Format the output as structured JSON to match the required schema for database storage.

# Steps

1. **Evaluate Responses**:
  - Compare each user's response ('userResponse') to the 'correctAnswer' provided in the quiz definition.
  - Determine whether the response is correct ('true') or not ('false').

2. **Calculate Score**:
  - For each correct response, add the corresponding question's score to the total score.

3. **Generate Suggestions**:
  - Identify common patterns in incorrect answers (e.g., specific topics or types of questions).
  - Provide two personalized, concise, and actionable suggestions to help the user improve in weak areas.

4. **Format Output**:
  - Create the 'quizSubmission' object with the total score and improvement suggestions.
  - Generate the 'submissionResponses' list with details for each question's correctness.

# Output Format

The final output must be structured as JSON with the following format:

{
  "quizSubmission": {
    "submission_id": "string",
    "quiz_id": "number",
    "user_id": "number",
    "obtained_score": "number",
    "suggestion_text": "string (summary with 2 suggestions)"
  },
  "submissionResponses": [
    {
      "question_id": "string",
      "correctAnswer": "string (A|B|C|D)",
      "user_response": "string (A|B|C|D)",
      "is_correct": "boolean"
    }
  ]
}`

// llmClient is the subset of the langchaingo model surface this adapter
// needs. The production implementation is *openai.LLM.
type llmClient interface {
	Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error)
}

// llmEvaluator implements domain.SubmissionEvaluator against an OpenAI chat
// model.
type llmEvaluator struct {
	llmClient llmClient
}

// NewLLMEvaluator creates an evaluator backed by the configured OpenAI model.
func NewLLMEvaluator(cfg config.LLMConfig) (domain.SubmissionEvaluator, error) {
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
	return &llmEvaluator{llmClient: llm}, nil
}

// evaluationQuestion is a question as presented to the model: the external
// id, the grading key and the score weight.
type evaluationQuestion struct {
	QuestionID    string   `json:"questionId"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Score         float64  `json:"score"`
}

type evaluationResponse struct {
	QuestionID   string `json:"question_id"`
	UserResponse string `json:"userResponse"`
}

type evaluationPayload struct {
	QuizID       int64                `json:"quiz_id"`
	UserID       int64                `json:"user_id"`
	SubmissionID string               `json:"submission_id"`
	Questions    []evaluationQuestion `json:"questions"`
	Responses    []evaluationResponse `json:"responses"`
}

// evaluationOutput is the wire shape of the model's verdict.
type evaluationOutput struct {
	QuizSubmission struct {
		SubmissionID   string  `json:"submission_id"`
		QuizID         int64   `json:"quiz_id"`
		UserID         int64   `json:"user_id"`
		ObtainedScore  float64 `json:"obtained_score"`
		SuggestionText string  `json:"suggestion_text"`
	} `json:"quizSubmission"`
	SubmissionResponses []struct {
		QuestionID    string `json:"question_id"`
		CorrectAnswer string `json:"correctAnswer"`
		UserResponse  string `json:"user_response"`
		IsCorrect     bool   `json:"is_correct"`
	} `json:"submissionResponses"`
}

// EvaluateSubmission implements domain.SubmissionEvaluator. Scores arrive
// pre-computed in the model's verdict; nothing is re-graded here.
func (e *llmEvaluator) EvaluateSubmission(ctx context.Context, input *domain.EvaluationInput) (*domain.EvaluationResult, error) {
	l := logger.Get()

	payload := evaluationPayload{
		QuizID:       input.QuizPK,
		UserID:       input.UserID,
		SubmissionID: input.SubmissionID,
		Questions:    make([]evaluationQuestion, 0, len(input.Questions)),
		Responses:    make([]evaluationResponse, 0, len(input.Responses)),
	}
	for _, q := range input.Questions {
		payload.Questions = append(payload.Questions, evaluationQuestion{
			QuestionID:    q.QuestionID,
			Question:      q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Score:         q.Score,
		})
	}
	for _, r := range input.Responses {
		payload.Responses = append(payload.Responses, evaluationResponse{
			QuestionID:   r.QuestionID,
			UserResponse: r.Answer,
		})
	}

	payloadJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, domain.NewLLMServiceError(fmt.Errorf("failed to marshal evaluation payload: %w", err))
	}

	prompt := evaluationSystemPrompt + "\n\nHere's the quiz data to evaluate:\n" + string(payloadJSON)

	callCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	rawResponse, err := e.llmClient.Call(callCtx, prompt,
		llms.WithTemperature(0.3),
		llms.WithMaxTokens(2000),
		llms.WithJSONMode(),
	)
	if err != nil {
		l.Error("LLM evaluation call failed", zap.Error(err), zap.String("submission_id", input.SubmissionID))
		return nil, domain.NewLLMServiceError(fmt.Errorf("evaluation call failed: %w", err))
	}

	l.Debug("Raw LLM evaluation response received", zap.String("raw_response", rawResponse))

	cleaned := strings.TrimSpace(rawResponse)
	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		l.Error("No JSON object found in LLM evaluation response", zap.String("raw_response", rawResponse))
		return nil, domain.NewLLMServiceError(fmt.Errorf("no JSON object found in evaluation response: %s", cleaned))
	}

	var output evaluationOutput
	if err := json.Unmarshal([]byte(cleaned[jsonStart:jsonEnd+1]), &output); err != nil {
		l.Error("Failed to unmarshal LLM evaluation response",
			zap.Error(err),
			zap.String("json_string", cleaned[jsonStart:jsonEnd+1]))
		return nil, domain.NewLLMServiceError(fmt.Errorf("failed to unmarshal evaluation response: %w", err))
	}

	if len(output.SubmissionResponses) == 0 {
		return nil, domain.NewLLMServiceError(fmt.Errorf("evaluation response carries no graded answers"))
	}

	result := &domain.EvaluationResult{
		Submission: domain.QuizSubmission{
			SubmissionID:   input.SubmissionID,
			QuizID:         input.QuizPK,
			UserID:         input.UserID,
			ObtainedScore:  output.QuizSubmission.ObtainedScore,
			SuggestionText: output.QuizSubmission.SuggestionText,
		},
	}
	for _, r := range output.SubmissionResponses {
		result.Responses = append(result.Responses, domain.SubmissionResponse{
			QuestionID:    r.QuestionID,
			CorrectAnswer: r.CorrectAnswer,
			UserResponse:  r.UserResponse,
			IsCorrect:     r.IsCorrect,
		})
	}

	l.Info("Evaluated quiz submission with LLM",
		zap.String("submission_id", input.SubmissionID),
		zap.Float64("obtained_score", result.Submission.ObtainedScore),
		zap.Int("graded_answers", len(result.Responses)))
	return result, nil
}
