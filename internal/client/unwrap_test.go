package client

import (
	"encoding/json"
	"testing"

	. "github.com/onsi/gomega"
)

func TestUnwrap(t *testing.T) {
	RegisterTestingT(t)

	cases := map[string]Result{
		`"print('hello')"`:                                {Kind: KindText, Text: "print('hello')"},
		`[{"generated_text":"X"}]`:                        {Kind: KindText, Text: "X"},
		`[{"generated_text":"A"},{"generated_text":"B"}]`: {Kind: KindText, Text: "A"},
		`""`:                     {Kind: KindUnrecognized},
		`[]`:                     {Kind: KindUnrecognized},
		`[{"text":"X"}]`:         {Kind: KindUnrecognized},
		`[{"generated_text":7}]`: {Kind: KindUnrecognized},
		`{"generated_text":"X"}`: {Kind: KindUnrecognized},
		`null`:                   {Kind: KindUnrecognized},
		`42`:                     {Kind: KindUnrecognized},
	}

	for raw, want := range cases {
		Expect(Unwrap(json.RawMessage(raw))).To(Equal(want), raw)
	}

	Expect(Unwrap(nil)).To(Equal(Result{Kind: KindUnrecognized}))
}

func TestLanguages(t *testing.T) {
	RegisterTestingT(t)

	Expect(LanguageIDs()).To(Equal([]string{"javascript", "python", "java", "cpp"}))

	lang, ok := LookupLanguage("CPP")
	Expect(ok).To(BeTrue())
	Expect(lang.Name).To(Equal("C++"))

	_, ok = LookupLanguage("cobol")
	Expect(ok).To(BeFalse())

	_, ok = LookupLanguage(DefaultLanguage)
	Expect(ok).To(BeTrue())
}
