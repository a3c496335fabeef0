package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Conceptual-Machines/melody-api/internal/database"
	"github.com/Conceptual-Machines/melody-api/internal/harmony"
	"github.com/Conceptual-Machines/melody-api/internal/models"
	"github.com/Conceptual-Machines/melody-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConvertCommand(t *testing.T) {
	out, err := run(t, "convert", "Am", "C", "F", "G")
	require.NoError(t, err)

	var resp models.ConvertResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "A minor", resp.Key)
	assert.Equal(t, []string{"i", "III", "VI", "VII"}, resp.RomanNumerals)
}

func TestConvertCommand_Flags(t *testing.T) {
	out, err := run(t, "convert", "Dm Bb F C", "--capo", "5")
	require.NoError(t, err)
	var resp models.ConvertResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "G minor", resp.Key)

	out, err = run(t, "convert", "Am-C-F-G", "-k", "C major")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []string{"vi", "I", "IV", "V"}, resp.RomanNumerals)
}

func TestConvertCommand_Errors(t *testing.T) {
	_, err := run(t, "convert")
	assert.Error(t, err)

	_, err = run(t, "convert", "C G", "--key", "nonsense")
	assert.ErrorIs(t, err, harmony.ErrInvalidKey)
}

const yamlTabs = `
- artist: Oasis
  track: Wonderwall
  tonality: F#m
  capo: 2
  sections:
    - name: Verse
      chords: [Em7, G, Dsus4, A7sus4]
    - name: Chorus
      chords: [C, D, Em]
- artist: Example
  track: Drop D
  tuning: D A D G B E
  sections:
    - name: Riff
      chords: [D5]
`

const jsonTab = `{"artist": "Adele", "track": "Someone Like You", "tonality": "A",
 "sections": [{"name": "Chorus", "chords": ["A", "E", "F#m", "D"]}]}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadTabs(t *testing.T) {
	dir := t.TempDir()
	tabs, err := loadTabs([]string{
		writeFile(t, dir, "tabs.yaml", yamlTabs),
		writeFile(t, dir, "adele.json", jsonTab),
		writeFile(t, dir, "single.yml", "artist: Solo\ntrack: One\nsections:\n  - name: Verse\n    chords: [C]\n"),
		writeFile(t, dir, "empty.yaml", "\n"),
	})
	require.NoError(t, err)
	require.Len(t, tabs, 4)

	assert.Equal(t, "Oasis - Wonderwall", tabs[0].Label())
	assert.Equal(t, 2, tabs[0].Capo)
	assert.Equal(t, []string{"Em7", "G", "Dsus4", "A7sus4"}, tabs[0].Sections[0].Chords)
	assert.Equal(t, "D A D G B E", tabs[1].Tuning)
	assert.Equal(t, "Adele - Someone Like You", tabs[2].Label())
	assert.Equal(t, "Solo - One", tabs[3].Label())
}

func TestLoadTabs_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := loadTabs([]string{filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)

	_, err = loadTabs([]string{writeFile(t, dir, "bad.json", "{")})
	assert.Error(t, err)
}

func TestValidateTab(t *testing.T) {
	assert.Error(t, validateTab(models.Tab{Track: "x", Sections: []models.TabSection{{Name: "a"}}}))
	assert.Error(t, validateTab(models.Tab{Artist: "x", Sections: []models.TabSection{{Name: "a"}}}))
	assert.Error(t, validateTab(models.Tab{Artist: "x", Track: "y"}))
	assert.NoError(t, validateTab(models.Tab{Artist: "x", Track: "y", Sections: []models.TabSection{{Name: "a"}}}))
}

func TestIngestCommand(t *testing.T) {
	dir := t.TempDir()
	dsn := "sqlite://" + filepath.Join(dir, "songs.db")
	files := []string{writeFile(t, dir, "tabs.yaml", yamlTabs), writeFile(t, dir, "adele.json", jsonTab)}

	out, err := run(t, append([]string{"ingest", "--database", dsn, "-j", "1"}, files...)...)
	require.EqualError(t, err, "1 of 3 tabs failed")

	var report services.IngestReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Successful)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "Drop D", report.Failures[0].Track)

	db, err := database.Connect(dsn)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	store := services.NewChordStore(db)
	song, err := store.FindSong(context.Background(), "Oasis", "Wonderwall")
	require.NoError(t, err)
	sections, err := store.Sections(context.Background(), song.ID)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, []string{"F#m7", "A", "Esus4", "B7sus4"}, sections[0].Original)
}
