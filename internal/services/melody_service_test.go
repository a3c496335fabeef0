package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Conceptual-Machines/melody-api/internal/harmony"
	"github.com/Conceptual-Machines/melody-api/internal/llm"
	"github.com/Conceptual-Machines/melody-api/internal/metrics"
	"github.com/Conceptual-Machines/melody-api/internal/models"
	"github.com/Conceptual-Machines/melody-api/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	output string
	err    error
	usage  metrics.Usage

	requests []*llm.GenerationRequest
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Generate(_ context.Context, req *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	return &llm.GenerationResponse{RawOutput: p.output, Usage: p.usage}, nil
}

type tokenCounter struct {
	metrics.Nop
	mu     sync.Mutex
	models []string
	total  int
}

func (c *tokenCounter) RecordTokenUsage(_ context.Context, model string, usage metrics.Usage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models = append(c.models, model)
	c.total += usage.TotalTokens
}

const songListJSON = `{"songs": [
	{"rank": 2, "song_name": "Let It Be", "artist_name": "The Beatles", "chorus_chords": "C G Am F", "bpm": 72, "genre": "Rock", "year": 1970},
	{"rank": 1, "song_name": "Someone Like You", "artist_name": "Adele", "chorus_chords": "A E F#m D", "bpm": 68, "genre": "Pop", "year": 2011},
	{"rank": 3, "song_name": "Wonderwall", "artist_name": "Oasis", "chorus_chords": "C D Em", "bpm": 87, "genre": "Rock", "year": 1995}
]}`

func newMelodyService(t *testing.T, provider llm.Provider, recorder metrics.Recorder) *MelodyService {
	t.Helper()
	builder, err := prompt.NewPromptBuilder()
	require.NoError(t, err)
	svc, err := NewMelodyService(provider, builder, MelodyOptions{
		Model:         "gpt-5-mini",
		ReasoningMode: "low",
		Metrics:       recorder,
	})
	require.NoError(t, err)
	return svc
}

func TestMelodyService_Search(t *testing.T) {
	provider := &fakeProvider{output: songListJSON, usage: metrics.Usage{TotalTokens: 120}}
	counter := &tokenCounter{}
	svc := newMelodyService(t, provider, counter)

	resp, err := svc.Search(context.Background(), models.MelodySearchRequest{Chords: "C G Am F", BPM: 80})
	require.NoError(t, err)

	assert.Equal(t, "C major", resp.Key)
	assert.Equal(t, []string{"I", "V", "vi", "IV"}, resp.RomanNumerals)
	assert.Equal(t, [2]int{70, 90}, resp.BPMRange)
	assert.Equal(t, "gpt-5-mini", resp.Model)
	assert.Empty(t, resp.Note)

	require.Len(t, resp.Songs, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{resp.Songs[0].Rank, resp.Songs[1].Rank, resp.Songs[2].Rank})
	assert.Equal(t, "Adele", resp.Songs[0].ArtistName)

	require.Len(t, provider.requests, 1)
	req := provider.requests[0]
	assert.Equal(t, "gpt-5-mini", req.Model)
	assert.Equal(t, "low", req.ReasoningMode)
	assert.NotEmpty(t, req.SystemPrompt)
	require.NotNil(t, req.OutputSchema)
	assert.Equal(t, songListSchemaName, req.OutputSchema.Name)
	require.Len(t, req.InputArray, 1)
	content, _ := req.InputArray[0]["content"].(string)
	assert.Contains(t, content, "I → V → vi → IV")
	assert.Contains(t, content, "Time Signature: 4/4")
	assert.Contains(t, content, "acceptable range: 70-90")

	assert.Equal(t, []string{"gpt-5-mini"}, counter.models)
	assert.Equal(t, 120, counter.total)
}

func TestMelodyService_SearchChromaticNote(t *testing.T) {
	svc := newMelodyService(t, &fakeProvider{output: `{"songs": []}`}, nil)

	resp, err := svc.Search(context.Background(), models.MelodySearchRequest{Chords: "C Eb F G", BPM: 100, BPMTolerance: 5})
	require.NoError(t, err)
	assert.Equal(t, ChromaticNote, resp.Note)
	assert.Equal(t, [2]int{95, 105}, resp.BPMRange)
	assert.NotNil(t, resp.Songs)
	assert.Empty(t, resp.Songs)
}

func TestMelodyService_SearchErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty progression", func(t *testing.T) {
		provider := &fakeProvider{output: songListJSON}
		_, err := newMelodyService(t, provider, nil).Search(ctx, models.MelodySearchRequest{Chords: " - ", BPM: 90})
		assert.ErrorIs(t, err, harmony.ErrEmptyProgression)
		assert.Empty(t, provider.requests)
	})

	t.Run("bad key", func(t *testing.T) {
		_, err := newMelodyService(t, &fakeProvider{}, nil).Search(ctx, models.MelodySearchRequest{Chords: "C G", Key: "H lydian", BPM: 90})
		assert.ErrorIs(t, err, harmony.ErrInvalidKey)
	})

	t.Run("missing bpm", func(t *testing.T) {
		_, err := newMelodyService(t, &fakeProvider{}, nil).Search(ctx, models.MelodySearchRequest{Chords: "C G"})
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("provider failure", func(t *testing.T) {
		boom := errors.New("upstream down")
		_, err := newMelodyService(t, &fakeProvider{err: boom}, nil).Search(ctx, models.MelodySearchRequest{Chords: "C G", BPM: 90})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("invalid output", func(t *testing.T) {
		_, err := newMelodyService(t, &fakeProvider{output: "not json"}, nil).Search(ctx, models.MelodySearchRequest{Chords: "C G", BPM: 90})
		assert.ErrorIs(t, err, ErrInvalidModelOutput)
	})
}

func TestMelodyService_MoreLikeThese(t *testing.T) {
	provider := &fakeProvider{output: songListJSON}
	svc := newMelodyService(t, provider, nil)

	resp, err := svc.MoreLikeThese(context.Background(), models.MoreLikeTheseRequest{
		MelodySearchRequest: models.MelodySearchRequest{Chords: "Am F C G", BPM: 80},
		LikedSongs: []models.MelodySong{
			{SongName: "Someone Like You", ArtistName: "Adele"},
		},
		ExcludedSongs: []string{"oasis - wonderwall", "Adele - Someone Like You"},
	})
	require.NoError(t, err)

	assert.Equal(t, "A minor", resp.Key)
	require.Len(t, resp.Songs, 1)
	assert.Equal(t, "Let It Be", resp.Songs[0].SongName)

	content, _ := provider.requests[0].InputArray[0]["content"].(string)
	assert.Contains(t, content, "- Adele - Someone Like You")
	assert.Contains(t, content, "- oasis - wonderwall")
}

func TestMelodyService_MoreLikeTheseNeedsLikedSongs(t *testing.T) {
	provider := &fakeProvider{output: songListJSON}
	_, err := newMelodyService(t, provider, nil).MoreLikeThese(context.Background(), models.MoreLikeTheseRequest{
		MelodySearchRequest: models.MelodySearchRequest{Chords: "Am F C G", BPM: 80},
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Empty(t, provider.requests)
}

func TestExclusions(t *testing.T) {
	got := exclusions(
		[]models.MelodySong{{ArtistName: "Adele", SongName: "Hello"}},
		[]string{"adele - hello", " ", "Oasis - Wonderwall"},
	)
	assert.Equal(t, []string{"Adele - Hello", "Oasis - Wonderwall"}, got)
}
