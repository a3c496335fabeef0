package models

// Tab is a scraped chord sheet as handed to ingestion. It decodes from JSON
// (HTTP) and YAML (CLI tab files).
type Tab struct {
	Artist   string       `json:"artist" yaml:"artist" binding:"required"`
	Track    string       `json:"track" yaml:"track" binding:"required"`
	Tonality string       `json:"tonality,omitempty" yaml:"tonality,omitempty"` // "G", "Am", "Unknown" or empty
	Capo     int          `json:"capo,omitempty" yaml:"capo,omitempty" binding:"min=0"`
	Tuning   string       `json:"tuning,omitempty" yaml:"tuning,omitempty"`
	Sections []TabSection `json:"sections" yaml:"sections" binding:"required,min=1,dive"`
}

// TabSection is one labeled run of chords in a tab.
type TabSection struct {
	Name   string   `json:"name" yaml:"name"`
	Chords []string `json:"chords" yaml:"chords"`
}

// Label identifies the tab in logs and reports.
func (t Tab) Label() string {
	return t.Artist + " - " + t.Track
}

// IngestResponse is returned after a single tab has been stored.
type IngestResponse struct {
	SongID   uint               `json:"song_id"`
	Key      string             `json:"key"`
	Inferred bool               `json:"key_inferred"`
	Sections []SongChordSection `json:"sections"`
}
