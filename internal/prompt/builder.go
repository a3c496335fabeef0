package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Conceptual-Machines/melody-api/internal/models"
)

// SongsPerRequest is how many songs every prompt asks for.
const SongsPerRequest = 10

// SearchCriteria is the harmonic and tempo description shared by both
// prompts.
type SearchCriteria struct {
	RomanNumerals  []string
	OriginalChords []string
	Key            string
	BPM            int
	BPMTolerance   int
	TimeSignature  string
	Genres         []string
	YearStart      int
	YearEnd        int
	ChartPosition  string
	ArtistStyle    string
}

// BPMRange returns the accepted tempo range. The lower bound never drops
// below 1.
func (c SearchCriteria) BPMRange() (int, int) {
	low := c.BPM - c.BPMTolerance
	if low < 1 {
		low = 1
	}
	return low, c.BPM + c.BPMTolerance
}

// Filters renders the optional filters, one line each.
func (c SearchCriteria) Filters() []string {
	var lines []string
	if len(c.Genres) > 0 {
		lines = append(lines, "Genres: "+strings.Join(c.Genres, ", "))
	}
	switch {
	case c.YearStart > 0 && c.YearEnd > 0:
		lines = append(lines, fmt.Sprintf("Release year range: %d-%d", c.YearStart, c.YearEnd))
	case c.YearStart > 0:
		lines = append(lines, fmt.Sprintf("Released after: %d", c.YearStart))
	case c.YearEnd > 0:
		lines = append(lines, fmt.Sprintf("Released before: %d", c.YearEnd))
	}
	if c.ChartPosition != "" {
		lines = append(lines, fmt.Sprintf("Chart position: %s hits only", c.ChartPosition))
	}
	if c.ArtistStyle != "" {
		lines = append(lines, "Style similar to: "+c.ArtistStyle)
	}
	return lines
}

// Builder renders melody search prompts from the embedded templates.
type Builder struct {
	loader *Loader
	search *template.Template
	more   *template.Template
}

// NewPromptBuilder parses the embedded templates.
func NewPromptBuilder() (*Builder, error) {
	loader := NewPromptLoader()
	funcs := template.FuncMap{"join": strings.Join}

	search, err := template.New("search").Funcs(funcs).Parse(loader.GetSearchTemplate())
	if err != nil {
		return nil, fmt.Errorf("failed to parse search template: %w", err)
	}
	more, err := template.New("more").Funcs(funcs).Parse(loader.GetMoreLikeTheseTemplate())
	if err != nil {
		return nil, fmt.Errorf("failed to parse more-like-these template: %w", err)
	}

	return &Builder{loader: loader, search: search, more: more}, nil
}

// SystemPrompt returns the system instructions for melody search.
func (b *Builder) SystemPrompt() string {
	return b.loader.GetSystemPrompt()
}

// BuildSearchPrompt renders the prompt for a first search.
func (b *Builder) BuildSearchPrompt(c SearchCriteria) (string, error) {
	low, high := c.BPMRange()
	data := struct {
		SearchCriteria
		Count   int
		BPMMin  int
		BPMMax  int
		Filters []string
	}{c, SongsPerRequest, low, high, c.Filters()}

	return render(b.search, data)
}

// BuildMoreLikeThesePrompt renders the prompt that refines a search with the
// songs the user liked.
func (b *Builder) BuildMoreLikeThesePrompt(c SearchCriteria, liked []models.MelodySong, excluded []string) (string, error) {
	data := struct {
		SearchCriteria
		Count    int
		Liked    []models.MelodySong
		Excluded []string
	}{c, SongsPerRequest, liked, excluded}

	return render(b.more, data)
}

func render(t *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", t.Name(), err)
	}
	return strings.TrimSpace(sb.String()), nil
}
