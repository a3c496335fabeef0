package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/melody-api/internal/harmony"
	"github.com/Conceptual-Machines/melody-api/internal/logger"
	"github.com/Conceptual-Machines/melody-api/internal/metrics"
	"github.com/Conceptual-Machines/melody-api/internal/models"
)

// ErrAlternateTuning is returned for tabs not in standard tuning: their
// fretted shapes do not name the pitches that sound.
var ErrAlternateTuning = errors.New("alternate tuning not supported")

const (
	unknownTonality    = "unknown"
	defaultSectionName = "Section"
)

// ProcessedTab is a tab run through the harmony engine, ready to store.
type ProcessedTab struct {
	Key          harmony.Key
	KeyInferred  bool
	Sections     []models.SongChordSection
	Unrecognized []string
}

// TabService turns scraped tabs into stored chord sections.
type TabService struct {
	store   *ChordStore
	metrics metrics.Recorder

	// CreateMissingSongs makes Ingest create the song row when the artist
	// and track are not known yet.
	CreateMissingSongs bool
}

func NewTabService(store *ChordStore, recorder metrics.Recorder) *TabService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &TabService{store: store, metrics: recorder}
}

// Ingest processes a tab and replaces the stored sections of its song.
func (s *TabService) Ingest(ctx context.Context, tab models.Tab) (*models.IngestResponse, error) {
	fields := logger.Fields{"artist": tab.Artist, "track": tab.Track, "capo": tab.Capo}

	processed, err := ProcessTab(tab)
	if err != nil {
		if errors.Is(err, ErrAlternateTuning) {
			fields["tuning"] = tab.Tuning
			logger.Warn("Skipping tab in alternate tuning", fields)
		}
		return nil, err
	}

	chords := 0
	for _, section := range processed.Sections {
		chords += len(section.Original)
	}
	s.metrics.RecordProgression(ctx, "tab", chords, len(processed.Unrecognized))
	logger.LogUnrecognized(processed.Unrecognized, logger.Fields{"artist": tab.Artist, "track": tab.Track})

	if s.CreateMissingSongs {
		if _, err := s.store.EnsureSong(ctx, tab.Artist, tab.Track); err != nil {
			return nil, err
		}
	}

	song, err := s.store.ReplaceSections(ctx, tab.Artist, tab.Track, processed.Sections)
	if err != nil {
		return nil, err
	}

	fields["key"] = processed.Key.String()
	fields["sections"] = len(song.Sections)
	logger.Info("Tab ingested", fields)

	return &models.IngestResponse{
		SongID:   song.ID,
		Key:      processed.Key.String(),
		Inferred: processed.KeyInferred,
		Sections: song.Sections,
	}, nil
}

// ProcessTab converts every section of a tab into its six chord forms.
//
// The tab's tonality is the sounding key and is used as is; the chords are
// fretted shapes and are moved up by the capo first. Without a usable
// tonality the key is inferred from the first chord of the first non-empty
// section. Sections without chords are dropped. Repeated section names are
// numbered in order: "Chorus", "Chorus (2)".
func ProcessTab(tab models.Tab) (*ProcessedTab, error) {
	if !IsStandardTuning(tab.Tuning) {
		return nil, fmt.Errorf("%w: %s", ErrAlternateTuning, tab.Tuning)
	}
	if tab.Capo < 0 {
		return nil, fmt.Errorf("%w: %d", harmony.ErrInvalidCapo, tab.Capo)
	}

	parsed := make([][]harmony.Chord, len(tab.Sections))
	for i, section := range tab.Sections {
		parsed[i] = harmony.ParseChords(cleanTokens(section.Chords))
	}

	key, inferred := tabKey(tab, parsed)
	out := &ProcessedTab{Key: key, KeyInferred: inferred}

	names := newSectionNamer()
	for i, section := range tab.Sections {
		chords := parsed[i]
		if len(chords) == 0 {
			continue
		}
		name := names.next(section.Name)

		bundles := harmony.Progression{Key: key, Chords: chords, Capo: tab.Capo}.Process()
		out.Sections = append(out.Sections, sectionRow(name, key, tab.Capo, bundles))

		for _, c := range chords {
			if !c.Parsed() {
				out.Unrecognized = append(out.Unrecognized, c.String())
			}
		}
	}

	if len(out.Sections) == 0 {
		return nil, harmony.ErrEmptyProgression
	}
	return out, nil
}

func tabKey(tab models.Tab, parsed [][]harmony.Chord) (harmony.Key, bool) {
	tonality := strings.TrimSpace(tab.Tonality)
	if tonality != "" && !strings.EqualFold(tonality, unknownTonality) {
		key, err := harmony.ParseKey(tonality)
		if err == nil {
			return key, false
		}
		logger.Warn("Unreadable tonality, inferring key", logger.Fields{
			"artist":   tab.Artist,
			"track":    tab.Track,
			"tonality": tonality,
		})
	}

	for _, chords := range parsed {
		if len(chords) > 0 {
			return harmony.InferKey(harmony.ApplyCapoAll(chords, tab.Capo)), true
		}
	}
	return harmony.DefaultKey, true
}

func sectionRow(name string, key harmony.Key, capo int, bundles []harmony.Bundle) models.SongChordSection {
	row := models.SongChordSection{
		SectionName:         name,
		Tonality:            key.Short(),
		Capo:                capo,
		Original:            make([]string, len(bundles)),
		OriginalSimplified:  make([]string, len(bundles)),
		Reference:           make([]string, len(bundles)),
		ReferenceSimplified: make([]string, len(bundles)),
		Roman:               make([]string, len(bundles)),
		RomanSimplified:     make([]string, len(bundles)),
	}
	for i, b := range bundles {
		row.Original[i] = b.Original
		row.OriginalSimplified[i] = b.OriginalSimplified
		row.Reference[i] = b.Reference
		row.ReferenceSimplified[i] = b.ReferenceSimplified
		row.Roman[i] = b.Roman
		row.RomanSimplified[i] = b.RomanSimplified
	}
	return row
}

// cleanTokens drops blank chord entries left over from scraping.
func cleanTokens(chords []string) []string {
	out := make([]string, 0, len(chords))
	for _, c := range chords {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// IsStandardTuning reports whether a tuning label means E A D G B E.
// An empty label is taken as standard.
func IsStandardTuning(tuning string) bool {
	compact := strings.ToLower(strings.Join(strings.Fields(tuning), ""))
	switch compact {
	case "", "eadgbe", "standard", "estandard":
		return true
	default:
		return false
	}
}

type sectionNamer struct {
	seen map[string]int
}

func newSectionNamer() *sectionNamer {
	return &sectionNamer{seen: make(map[string]int)}
}

func (n *sectionNamer) next(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultSectionName
	}
	n.seen[name]++
	if count := n.seen[name]; count > 1 {
		return fmt.Sprintf("%s (%d)", name, count)
	}
	return name
}
