package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Conceptual-Machines/melody-api/internal/models"
	"gorm.io/gorm"
)

// ErrSongNotFound is returned when no song matches the artist and track.
var ErrSongNotFound = errors.New("song not found")

// ChordStore persists songs and their chord sections.
type ChordStore struct {
	db *gorm.DB
}

func NewChordStore(db *gorm.DB) *ChordStore {
	return &ChordStore{db: db}
}

// FindSong looks a song up by artist and track.
func (s *ChordStore) FindSong(ctx context.Context, artist, track string) (*models.Song, error) {
	return findSong(s.db.WithContext(ctx), artist, track)
}

// EnsureSong returns the song for artist and track, creating it when missing.
func (s *ChordStore) EnsureSong(ctx context.Context, artist, track string) (*models.Song, error) {
	song := models.Song{Artist: artist, Track: track}
	err := s.db.WithContext(ctx).
		Where("artist = ? AND track = ?", artist, track).
		FirstOrCreate(&song).Error
	if err != nil {
		return nil, fmt.Errorf("failed to ensure song %s - %s: %w", artist, track, err)
	}
	return &song, nil
}

// ReplaceSections swaps every stored section of the song for rows, in one
// transaction. Rows get their SongID and Position assigned here, in slice
// order.
func (s *ChordStore) ReplaceSections(ctx context.Context, artist, track string, rows []models.SongChordSection) (*models.Song, error) {
	var song *models.Song

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findSong(tx, artist, track)
		if err != nil {
			return err
		}
		song = found

		if err := tx.Where("song_id = ?", song.ID).Delete(&models.SongChordSection{}).Error; err != nil {
			return fmt.Errorf("failed to delete sections: %w", err)
		}

		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].ID = 0
			rows[i].SongID = song.ID
			rows[i].Position = i
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert sections: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	song.Sections = rows
	return song, nil
}

// Sections returns the stored sections of a song ordered by position.
func (s *ChordStore) Sections(ctx context.Context, songID uint) ([]models.SongChordSection, error) {
	db := s.db.WithContext(ctx)

	var song models.Song
	if err := db.First(&song, songID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrSongNotFound, songID)
		}
		return nil, err
	}

	var sections []models.SongChordSection
	if err := db.Where("song_id = ?", songID).Order("position").Find(&sections).Error; err != nil {
		return nil, fmt.Errorf("failed to load sections: %w", err)
	}
	return sections, nil
}

func findSong(db *gorm.DB, artist, track string) (*models.Song, error) {
	var song models.Song
	err := db.Where("artist = ? AND track = ?", artist, track).First(&song).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s - %s", ErrSongNotFound, artist, track)
		}
		return nil, err
	}
	return &song, nil
}
