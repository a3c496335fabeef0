package prompt

import (
	"strings"

	"github.com/Conceptual-Machines/melody-api/pkg/embedded"
)

// Loader reads the embedded prompt files.
type Loader struct{}

func NewPromptLoader() *Loader {
	return &Loader{}
}

// GetSystemPrompt loads the melody search system prompt
func (l *Loader) GetSystemPrompt() string {
	return strings.TrimSpace(string(embedded.MelodySystemPromptTxt))
}

// GetSearchTemplate loads the search prompt template
func (l *Loader) GetSearchTemplate() string {
	return string(embedded.MelodySearchTmpl)
}

// GetMoreLikeTheseTemplate loads the "more like these" prompt template
func (l *Loader) GetMoreLikeTheseTemplate() string {
	return string(embedded.MelodyMoreLikeTheseTmpl)
}
