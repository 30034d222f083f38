package models

// DefaultLanguage is the target used when a generation request names none.
const DefaultLanguage = "javascript"

// FreeFormTarget is the target category for natural-language answers.
const FreeFormTarget = "english"

// GenerationRequest is the body of POST /generate
type GenerationRequest struct {
	Pseudocode string `json:"pseudocode" example:"print hello"`
	Language   string `json:"language" example:"python"`
}

// GenerationResult is the success body of POST /generate
type GenerationResult struct {
	Code string `json:"code" example:"print('hello')"`
}

// SolveRequest is the body of POST /solve
type SolveRequest struct {
	ProblemStatement string `json:"problemStatement" example:"sum two numbers"`
}

// SolveResult is the success body of POST /solve
type SolveResult struct {
	Solution string `json:"solution"`
}

// ErrorResult is the body of every failed relay call. The message is fixed per
// endpoint and never carries upstream detail.
type ErrorResult struct {
	Error string `json:"error" example:"Pseudocode input is required."`
}

// Relay error messages
const (
	ErrPseudocodeRequired = "Pseudocode input is required."
	ErrGenerateFailed     = "Failed to generate code."
	ErrProblemRequired    = "Problem statement is required."
	ErrSolveFailed        = "Failed to fetch response."
)
