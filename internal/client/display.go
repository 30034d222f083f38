package client

import (
	"github.com/pkg/errors"
)

// Messages shown to the user
const (
	MsgEmptyPseudocode     = "Please enter pseudocode before generating code."
	MsgEmptyProblem        = "Please enter a problem statement."
	MsgGenerateUnreachable = "Failed to connect to the backend. Ensure the server is running and API is working."
	MsgSolveUnreachable    = "Error fetching response."
	MsgNoCode              = "No code generated."
	MsgNoResponse          = "No response received."
)

// GenerateMessage returns what the user sees after a Generate call and whether
// it is an error.
func GenerateMessage(res Result, err error) (string, bool) {
	return display(res, err, MsgEmptyPseudocode, MsgGenerateUnreachable, MsgNoCode)
}

// SolveMessage returns what the user sees after a Solve call and whether it is
// an error.
func SolveMessage(res Result, err error) (string, bool) {
	return display(res, err, MsgEmptyProblem, MsgSolveUnreachable, MsgNoResponse)
}

func display(res Result, err error, empty, unreachable, unrecognized string) (string, bool) {
	var serverErr *ServerError
	switch {
	case err == nil && res.OK():
		return res.Text, false
	case err == nil:
		return unrecognized, true
	case errors.Is(err, ErrEmptyInput):
		return empty, true
	case errors.As(err, &serverErr) && serverErr.Message != "":
		return serverErr.Message, true
	default:
		return unreachable, true
	}
}
