package database

import (
	"testing"

	"github.com/Conceptual-Machines/melody-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_EmptyURL(t *testing.T) {
	_, err := Connect("")
	assert.Error(t, err)
}

func TestConnectAndMigrate_SQLite(t *testing.T) {
	db, err := Connect("sqlite://file::memory:?cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasTable(&models.Song{}))
	assert.True(t, db.Migrator().HasTable(&models.SongChordSection{}))

	song := models.Song{Artist: "Oasis", Track: "Wonderwall"}
	require.NoError(t, db.Create(&song).Error)

	section := models.SongChordSection{
		SongID:      song.ID,
		SectionName: "Chorus",
		Roman:       []string{"vi", "IV", "I", "V"},
	}
	require.NoError(t, db.Create(&section).Error)

	var loaded models.SongChordSection
	require.NoError(t, db.First(&loaded, section.ID).Error)
	assert.Equal(t, []string{"vi", "IV", "I", "V"}, loaded.Roman)

	// Migrating twice is harmless.
	require.NoError(t, Migrate(db))
}
