package client

import (
	"encoding/json"

	"github.com/samber/lo"
)

// Kind tags the outcome of unwrapping a relay result
type Kind int

const (
	KindUnrecognized Kind = iota
	KindText
)

// Result is either text to show or an unrecognized payload.
type Result struct {
	Kind Kind
	Text string
}

// OK reports whether r carries text
func (r Result) OK() bool {
	return r.Kind == KindText
}

type generatedText struct {
	GeneratedText *string `json:"generated_text"`
}

// Unwrap reads the result field of a relay response. A JSON string is used as
// is; an array yields the generated_text of its first element. Anything else,
// including empty text, is unrecognized.
func Unwrap(raw json.RawMessage) Result {
	if len(raw) == 0 {
		return Result{Kind: KindUnrecognized}
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return textResult(text)
	}

	var items []generatedText
	if err := json.Unmarshal(raw, &items); err != nil {
		return Result{Kind: KindUnrecognized}
	}
	first, ok := lo.First(items)
	if !ok {
		return Result{Kind: KindUnrecognized}
	}
	return textResult(lo.FromPtr(first.GeneratedText))
}

func textResult(text string) Result {
	if text == "" {
		return Result{Kind: KindUnrecognized}
	}
	return Result{Kind: KindText, Text: text}
}
