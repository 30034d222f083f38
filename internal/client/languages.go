package client

import (
	"strings"

	"github.com/samber/lo"
)

// Language is one entry of the target selector
type Language struct {
	ID   string
	Name string
}

var languages = []Language{
	{ID: "javascript", Name: "JavaScript"},
	{ID: "python", Name: "Python"},
	{ID: "java", Name: "Java"},
	{ID: "cpp", Name: "C++"},
}

// DefaultLanguage is selected when the user picks nothing
const DefaultLanguage = "javascript"

// Languages returns the selectable targets in display order.
func Languages() []Language {
	return append([]Language(nil), languages...)
}

// LookupLanguage finds a language by id, ignoring case.
func LookupLanguage(id string) (Language, bool) {
	return lo.Find(languages, func(l Language) bool {
		return strings.EqualFold(l.ID, id)
	})
}

// LanguageIDs lists the ids of every selectable target
func LanguageIDs() []string {
	return lo.Map(languages, func(l Language, _ int) string {
		return l.ID
	})
}
