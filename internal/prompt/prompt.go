// Package prompt composes the instruction strings sent to the inference model.
// User text and targets are interpolated verbatim: no escaping, trimming or
// truncation.
package prompt

import "fmt"

// Intent names the kind of instruction a prompt carries.
type Intent string

const (
	IntentGenerate Intent = "generate"
	IntentSolve    Intent = "solve"
)

// Convert builds the code-generation instruction for pseudocode and a target language.
func Convert(target, pseudocode string) string {
	return fmt.Sprintf("Convert the following pseudocode to %s:\n%s", target, pseudocode)
}

// Solve builds the free-form problem solving instruction.
func Solve(problem string) string {
	return fmt.Sprintf("Solve the following problem: %s", problem)
}
