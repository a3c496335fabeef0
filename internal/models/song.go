package models

import (
	"time"
)

// Song is a track whose chord sections have been ingested. Artist and
// track together identify it.
type Song struct {
	ID        uint               `gorm:"primarykey" json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	Artist    string             `gorm:"not null;uniqueIndex:idx_song_artist_track" json:"artist"`
	Track     string             `gorm:"not null;uniqueIndex:idx_song_artist_track" json:"track"`
	Sections  []SongChordSection `gorm:"foreignKey:SongID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`
}

// SongChordSection stores one section of a song in all six chord forms.
// The arrays are parallel: index i of each column describes the same chord.
type SongChordSection struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	SongID      uint      `gorm:"not null;index" json:"song_id"`
	SectionName string    `gorm:"not null" json:"section_name"`
	Position    int       `gorm:"not null" json:"position"`
	Tonality    string    `json:"tonality"` // short form of the working key, e.g. "Am"
	Capo        int       `gorm:"default:0" json:"capo"`

	Original            []string `gorm:"serializer:json;type:text" json:"original"`
	OriginalSimplified  []string `gorm:"serializer:json;type:text" json:"original_simplified"`
	Reference           []string `gorm:"serializer:json;type:text" json:"reference"`
	ReferenceSimplified []string `gorm:"serializer:json;type:text" json:"reference_simplified"`
	Roman               []string `gorm:"serializer:json;type:text" json:"roman"`
	RomanSimplified     []string `gorm:"serializer:json;type:text" json:"roman_simplified"`
}
