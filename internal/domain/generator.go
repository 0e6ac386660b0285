package domain

import "context"

// GenerationSpec is the caller-supplied definition of the question set to
// generate.
type GenerationSpec struct {
	Subject        string
	Grade          int
	Difficulty     Difficulty
	TotalQuestions int
	MaxScore       float64
}

// QuizGenerator is the generation collaborator: it produces a validated
// question list for a spec. Implementations are expected to reject malformed
// AI output (wrong option count, unknown answer label) before it reaches the
// repositories.
type QuizGenerator interface {
	GenerateQuestions(ctx context.Context, spec GenerationSpec) ([]Question, error)
}
