package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Conceptual-Machines/melody-api/internal/harmony"
	"github.com/Conceptual-Machines/melody-api/internal/llm"
	"github.com/Conceptual-Machines/melody-api/internal/logger"
	"github.com/Conceptual-Machines/melody-api/internal/metrics"
	"github.com/Conceptual-Machines/melody-api/internal/models"
	"github.com/Conceptual-Machines/melody-api/internal/observability"
	"github.com/Conceptual-Machines/melody-api/internal/prompt"
)

var (
	// ErrInvalidModelOutput is returned when the model's answer is not the
	// requested song list.
	ErrInvalidModelOutput = errors.New("model returned an invalid song list")
	ErrInvalidRequest     = errors.New("invalid melody search request")
)

const (
	defaultBPMTolerance  = 10
	defaultTimeSignature = "4/4"

	// ChromaticNote explains numerals of chords outside the key.
	ChromaticNote = "Chords with roots outside the key are labeled with the nearest diatonic numeral."

	songListSchemaName = "melody_song_list"
)

// MelodyOptions configures a MelodyService.
type MelodyOptions struct {
	Model         string
	ReasoningMode string
	Langfuse      *observability.LangfuseClient
	Metrics       metrics.Recorder
}

// MelodyService finds songs whose chorus shares a chord progression by
// asking an LLM for a structured song list.
type MelodyService struct {
	provider  llm.Provider
	prompts   *prompt.Builder
	schema    *llm.OutputSchema
	model     string
	reasoning string
	langfuse  *observability.LangfuseClient
	metrics   metrics.Recorder
}

func NewMelodyService(provider llm.Provider, prompts *prompt.Builder, opts MelodyOptions) (*MelodyService, error) {
	schema, err := llm.NewOutputSchema[models.MelodySongList](
		songListSchemaName,
		"Songs whose chorus uses the requested chord progression",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build song list schema: %w", err)
	}

	if opts.Langfuse == nil {
		opts.Langfuse = observability.Disabled()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}

	return &MelodyService{
		provider:  provider,
		prompts:   prompts,
		schema:    schema,
		model:     opts.Model,
		reasoning: opts.ReasoningMode,
		langfuse:  opts.Langfuse,
		metrics:   opts.Metrics,
	}, nil
}

// Search returns songs whose chorus matches the request's progression and
// tempo, best match first.
func (s *MelodyService) Search(ctx context.Context, req models.MelodySearchRequest) (*models.MelodySearchResponse, error) {
	analysis, criteria, err := s.criteria(ctx, req)
	if err != nil {
		return nil, err
	}

	userPrompt, err := s.prompts.BuildSearchPrompt(criteria)
	if err != nil {
		return nil, err
	}

	songs, model, err := s.generate(ctx, "melody.search", userPrompt, criteria)
	if err != nil {
		return nil, err
	}
	return s.response(analysis, criteria, songs, model), nil
}

// MoreLikeThese refines a search with the songs the user liked. Liked and
// excluded songs are never suggested again.
func (s *MelodyService) MoreLikeThese(ctx context.Context, req models.MoreLikeTheseRequest) (*models.MelodySearchResponse, error) {
	if len(req.LikedSongs) == 0 {
		return nil, fmt.Errorf("%w: at least one liked song is required", ErrInvalidRequest)
	}

	analysis, criteria, err := s.criteria(ctx, req.MelodySearchRequest)
	if err != nil {
		return nil, err
	}

	excluded := exclusions(req.LikedSongs, req.ExcludedSongs)
	userPrompt, err := s.prompts.BuildMoreLikeThesePrompt(criteria, req.LikedSongs, excluded)
	if err != nil {
		return nil, err
	}

	songs, model, err := s.generate(ctx, "melody.more_like_these", userPrompt, criteria)
	if err != nil {
		return nil, err
	}
	return s.response(analysis, criteria, dropExcluded(songs, excluded), model), nil
}

// criteria converts the request's chords and fills defaults.
func (s *MelodyService) criteria(ctx context.Context, req models.MelodySearchRequest) (*harmony.Analysis, prompt.SearchCriteria, error) {
	if req.BPM <= 0 {
		return nil, prompt.SearchCriteria{}, fmt.Errorf("%w: bpm must be positive, got %d", ErrInvalidRequest, req.BPM)
	}

	analysis, err := harmony.Convert(req.Chords, harmony.Options{Key: req.Key})
	if err != nil {
		return nil, prompt.SearchCriteria{}, err
	}
	s.metrics.RecordProgression(ctx, "melody", len(analysis.Bundles), len(analysis.Unrecognized))
	logger.LogUnrecognized(analysis.Unrecognized, logger.Fields{"source": "melody"})

	tolerance := req.BPMTolerance
	if tolerance <= 0 {
		tolerance = defaultBPMTolerance
	}
	timeSignature := strings.TrimSpace(req.TimeSignature)
	if timeSignature == "" {
		timeSignature = defaultTimeSignature
	}

	return analysis, prompt.SearchCriteria{
		RomanNumerals:  analysis.RomanNumerals(),
		OriginalChords: analysis.Originals(),
		Key:            analysis.Key.String(),
		BPM:            req.BPM,
		BPMTolerance:   tolerance,
		TimeSignature:  timeSignature,
		Genres:         req.Genres,
		YearStart:      req.YearStart,
		YearEnd:        req.YearEnd,
		ChartPosition:  req.ChartPosition,
		ArtistStyle:    req.ArtistStyle,
	}, nil
}

// generate runs one model call and parses the song list.
func (s *MelodyService) generate(ctx context.Context, name, userPrompt string, criteria prompt.SearchCriteria) ([]models.MelodySong, string, error) {
	fields := logger.Fields{
		"model":    s.model,
		"provider": s.provider.Name(),
		"key":      criteria.Key,
		"bpm":      criteria.BPM,
	}

	trace := s.langfuse.StartTrace(ctx, name, map[string]interface{}{
		"key":            criteria.Key,
		"roman_numerals": criteria.RomanNumerals,
		"bpm":            criteria.BPM,
	})
	defer trace.Finish()

	generation := trace.Generation("llm.generate", map[string]interface{}{"provider": s.provider.Name()})
	defer generation.Finish()

	start := time.Now()
	resp, err := s.provider.Generate(ctx, &llm.GenerationRequest{
		Model:         s.model,
		InputArray:    []map[string]any{llm.UserMessage(userPrompt)},
		ReasoningMode: s.reasoning,
		SystemPrompt:  s.prompts.SystemPrompt(),
		OutputSchema:  s.schema,
	})
	if err != nil {
		generation.Fail(err)
		logger.Error("Melody search failed", err, fields)
		return nil, "", fmt.Errorf("melody search failed: %w", err)
	}

	model := resp.Model
	if model == "" {
		model = s.model
	}
	generation.Record(model, userPrompt, resp.RawOutput, resp.Usage)
	s.metrics.RecordTokenUsage(ctx, model, resp.Usage)
	logger.LogLLMCall(ctx, model, time.Since(start), map[string]int{
		"input_tokens":     resp.Usage.InputTokens,
		"output_tokens":    resp.Usage.OutputTokens,
		"reasoning_tokens": resp.Usage.ReasoningTokens,
		"total_tokens":     resp.Usage.TotalTokens,
	}, fields)

	songs, err := parseSongList(resp.RawOutput)
	if err != nil {
		generation.Fail(err)
		logger.Error("Unreadable model output", err, fields)
		return nil, "", err
	}
	return songs, model, nil
}

func (s *MelodyService) response(analysis *harmony.Analysis, criteria prompt.SearchCriteria, songs []models.MelodySong, model string) *models.MelodySearchResponse {
	low, high := criteria.BPMRange()
	resp := &models.MelodySearchResponse{
		Key:           criteria.Key,
		RomanNumerals: criteria.RomanNumerals,
		BPMRange:      [2]int{low, high},
		Songs:         songs,
		Model:         model,
	}
	if analysis.Chromatic {
		resp.Note = ChromaticNote
	}
	return resp
}

// parseSongList decodes the structured output and orders it by rank.
func parseSongList(raw string) ([]models.MelodySong, error) {
	var list models.MelodySongList
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModelOutput, err)
	}
	if list.Songs == nil {
		list.Songs = []models.MelodySong{}
	}
	sort.SliceStable(list.Songs, func(i, j int) bool {
		return list.Songs[i].Rank < list.Songs[j].Rank
	})
	return list.Songs, nil
}

// exclusions merges the liked songs into the excluded labels, without
// duplicates and in first-seen order.
func exclusions(liked []models.MelodySong, excluded []string) []string {
	seen := make(map[string]bool, len(liked)+len(excluded))
	var out []string
	add := func(label string) {
		label = strings.TrimSpace(label)
		if label == "" || seen[strings.ToLower(label)] {
			return
		}
		seen[strings.ToLower(label)] = true
		out = append(out, label)
	}
	for _, song := range liked {
		add(song.Label())
	}
	for _, label := range excluded {
		add(label)
	}
	return out
}

// dropExcluded removes songs the model suggested despite being excluded.
func dropExcluded(songs []models.MelodySong, excluded []string) []models.MelodySong {
	skip := make(map[string]bool, len(excluded))
	for _, label := range excluded {
		skip[strings.ToLower(label)] = true
	}
	out := make([]models.MelodySong, 0, len(songs))
	for _, song := range songs {
		if !skip[strings.ToLower(song.Label())] {
			out = append(out, song)
		}
	}
	return out
}
