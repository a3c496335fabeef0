package services

import (
	"context"
	"testing"

	"github.com/Conceptual-Machines/melody-api/internal/harmony"
	"github.com/Conceptual-Machines/melody-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capoTab() models.Tab {
	return models.Tab{
		Artist:   "Example",
		Track:    "Capo Two",
		Tonality: "A",
		Capo:     2,
		Tuning:   "E A D G B E",
		Sections: []models.TabSection{
			{Name: "Verse", Chords: []string{"G", "C", "D"}},
			{Name: "Chorus", Chords: []string{"Em", "C", "G", "D"}},
			{Name: "Chorus", Chords: []string{"Em", "C", "G", "D"}},
			{Name: "Outro", Chords: []string{" ", ""}},
		},
	}
}

func TestProcessTab_CapoAndSections(t *testing.T) {
	processed, err := ProcessTab(capoTab())
	require.NoError(t, err)

	assert.Equal(t, "A major", processed.Key.String())
	assert.False(t, processed.KeyInferred)
	require.Len(t, processed.Sections, 3)

	verse := processed.Sections[0]
	assert.Equal(t, "Verse", verse.SectionName)
	assert.Equal(t, "A", verse.Tonality)
	assert.Equal(t, 2, verse.Capo)
	assert.Equal(t, []string{"A", "D", "E"}, verse.Original)
	assert.Equal(t, []string{"C", "F", "G"}, verse.Reference)
	assert.Equal(t, []string{"I", "IV", "V"}, verse.Roman)
	assert.Equal(t, []string{"I", "IV", "V"}, verse.RomanSimplified)

	chorus := processed.Sections[1]
	assert.Equal(t, "Chorus", chorus.SectionName)
	assert.Equal(t, []string{"F#m", "D", "A", "E"}, chorus.Original)
	assert.Equal(t, []string{"vi", "IV", "I", "V"}, chorus.Roman)

	assert.Equal(t, "Chorus (2)", processed.Sections[2].SectionName)
	assert.Empty(t, processed.Unrecognized)
}

func TestProcessTab_InfersUnknownTonality(t *testing.T) {
	for _, tonality := range []string{"", "Unknown", "not a key"} {
		t.Run(tonality, func(t *testing.T) {
			tab := models.Tab{
				Artist:   "Example",
				Track:    "Inferred",
				Tonality: tonality,
				Capo:     5,
				Sections: []models.TabSection{
					{Name: "Intro"},
					{Name: "Verse", Chords: []string{"Dm", "Bb", "F", "C"}},
				},
			}

			processed, err := ProcessTab(tab)
			require.NoError(t, err)
			assert.True(t, processed.KeyInferred)
			assert.Equal(t, "G minor", processed.Key.String())
			require.Len(t, processed.Sections, 1)
			assert.Equal(t, "Gm", processed.Sections[0].Tonality)
			assert.Equal(t, []string{"i", "VI", "III", "VII"}, processed.Sections[0].Roman)
		})
	}
}

func TestProcessTab_Unrecognized(t *testing.T) {
	tab := models.Tab{
		Artist:   "Example",
		Track:    "Breaks",
		Tonality: "C",
		Sections: []models.TabSection{{Name: "Verse", Chords: []string{"C", "N.C.", "G"}}},
	}

	processed, err := ProcessTab(tab)
	require.NoError(t, err)
	assert.Equal(t, []string{"N.C."}, processed.Unrecognized)
	assert.Equal(t, []string{"I", "N.C.", "V"}, processed.Sections[0].Roman)
}

func TestProcessTab_Rejections(t *testing.T) {
	dropD := capoTab()
	dropD.Tuning = "D A D G B E"
	_, err := ProcessTab(dropD)
	assert.ErrorIs(t, err, ErrAlternateTuning)

	negative := capoTab()
	negative.Capo = -1
	_, err = ProcessTab(negative)
	assert.ErrorIs(t, err, harmony.ErrInvalidCapo)

	empty := capoTab()
	empty.Sections = []models.TabSection{{Name: "Intro"}}
	_, err = ProcessTab(empty)
	assert.ErrorIs(t, err, harmony.ErrEmptyProgression)
}

func TestProcessTab_NumbersOnlyStoredSections(t *testing.T) {
	tab := models.Tab{
		Artist:   "Example",
		Track:    "Skipped",
		Tonality: "C",
		Sections: []models.TabSection{
			{Name: "Chorus"},
			{Name: "Chorus", Chords: []string{"C", "G"}},
			{Name: ""},
			{Name: "", Chords: []string{"F"}},
			{Name: "Chorus", Chords: []string{"Am", "F"}},
		},
	}

	processed, err := ProcessTab(tab)
	require.NoError(t, err)

	names := make([]string, len(processed.Sections))
	for i, section := range processed.Sections {
		names[i] = section.SectionName
	}
	assert.Equal(t, []string{"Chorus", "Section", "Chorus (2)"}, names)
}

func TestIsStandardTuning(t *testing.T) {
	tests := []struct {
		tuning string
		want   bool
	}{
		{"", true},
		{"E A D G B E", true},
		{"eadgbe", true},
		{"Standard", true},
		{"E Standard", true},
		{"D A D G B E", false},
		{"Eb Ab Db Gb Bb Eb", false},
		{"Open G", false},
	}

	for _, tt := range tests {
		t.Run(tt.tuning, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStandardTuning(tt.tuning))
		})
	}
}

func TestSectionNamer(t *testing.T) {
	n := newSectionNamer()
	got := []string{n.next("Verse"), n.next("Chorus"), n.next(" Verse "), n.next(""), n.next("Chorus"), n.next("")}
	assert.Equal(t, []string{"Verse", "Chorus", "Verse (2)", "Section", "Chorus (2)", "Section (2)"}, got)
}

func TestTabService_Ingest(t *testing.T) {
	store := NewChordStore(newTestDB(t))
	svc := NewTabService(store, nil)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, capoTab())
	assert.ErrorIs(t, err, ErrSongNotFound)

	_, err = store.EnsureSong(ctx, "Example", "Capo Two")
	require.NoError(t, err)

	resp, err := svc.Ingest(ctx, capoTab())
	require.NoError(t, err)
	assert.Equal(t, "A major", resp.Key)
	assert.False(t, resp.Inferred)
	require.Len(t, resp.Sections, 3)

	stored, err := store.Sections(ctx, resp.SongID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, []string{"Verse", "Chorus", "Chorus (2)"}, []string{
		stored[0].SectionName, stored[1].SectionName, stored[2].SectionName,
	})

	// Re-ingesting replaces rather than appends.
	_, err = svc.Ingest(ctx, capoTab())
	require.NoError(t, err)
	stored, err = store.Sections(ctx, resp.SongID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestTabService_IngestCreatesMissingSongs(t *testing.T) {
	store := NewChordStore(newTestDB(t))
	svc := NewTabService(store, nil)
	svc.CreateMissingSongs = true

	resp, err := svc.Ingest(context.Background(), capoTab())
	require.NoError(t, err)
	assert.NotZero(t, resp.SongID)
}

func TestTabService_IngestAlternateTuning(t *testing.T) {
	store := NewChordStore(newTestDB(t))
	svc := NewTabService(store, nil)
	svc.CreateMissingSongs = true

	tab := capoTab()
	tab.Tuning = "Open D"
	_, err := svc.Ingest(context.Background(), tab)
	assert.ErrorIs(t, err, ErrAlternateTuning)

	_, err = store.FindSong(context.Background(), tab.Artist, tab.Track)
	assert.ErrorIs(t, err, ErrSongNotFound)
}
