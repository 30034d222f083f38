package prompt

import (
	"strings"
	"testing"
)

func TestConvert(t *testing.T) {
	got := Convert("python", "print hello")
	want := "Convert the following pseudocode to python:\nprint hello"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestSolve(t *testing.T) {
	got := Solve("sum two numbers")
	want := "Solve the following problem: sum two numbers"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestPromptsKeepTextVerbatim(t *testing.T) {
	text := "  for i in 1..10 %s %d {{x}}\n\tprint <i> & done  \n" + strings.Repeat("x", 100000)

	if got := Convert("c++", text); !strings.HasSuffix(got, text) {
		t.Error("Convert altered the pseudocode")
	}
	if got := Convert("%v", "a"); !strings.Contains(got, " to %v:\n") {
		t.Errorf("Convert altered the target: %q", got)
	}
	if got := Solve(text); !strings.HasSuffix(got, text) {
		t.Error("Solve altered the problem statement")
	}
}
