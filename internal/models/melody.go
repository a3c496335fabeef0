package models

// MelodySearchRequest asks for songs that share a chord progression.
type MelodySearchRequest struct {
	Chords        string   `json:"chords" binding:"required"`
	Key           string   `json:"key,omitempty"`
	BPM           int      `json:"bpm" binding:"required,gt=0"`
	BPMTolerance  int      `json:"bpm_tolerance,omitempty" binding:"min=0"`
	TimeSignature string   `json:"time_signature,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	YearStart     int      `json:"year_start,omitempty"`
	YearEnd       int      `json:"year_end,omitempty"`
	ChartPosition string   `json:"chart_position,omitempty"` // e.g. "top 10", "top 40"
	ArtistStyle   string   `json:"artist_style,omitempty"`
}

// MoreLikeTheseRequest refines a search with songs the user liked.
type MoreLikeTheseRequest struct {
	MelodySearchRequest
	LikedSongs    []MelodySong `json:"liked_songs" binding:"required,min=1"`
	ExcludedSongs []string     `json:"excluded_songs,omitempty"` // "Artist - Title"
}

// MelodySong is one song suggested by the model.
type MelodySong struct {
	Rank         int    `json:"rank" jsonschema:"description=1 is the closest match"`
	SongName     string `json:"song_name"`
	ArtistName   string `json:"artist_name"`
	ChorusChords string `json:"chorus_chords" jsonschema:"description=Chorus chords in the song's own key"`
	BPM          int    `json:"bpm"`
	Genre        string `json:"genre"`
	Year         int    `json:"year"`
}

// Label identifies the song as "Artist - Title".
func (s MelodySong) Label() string {
	return s.ArtistName + " - " + s.SongName
}

// MelodySongList is the structured output requested from the model.
type MelodySongList struct {
	Songs []MelodySong `json:"songs"`
}

// MelodySearchResponse is returned by both melody endpoints.
type MelodySearchResponse struct {
	Key           string       `json:"key"`
	RomanNumerals []string     `json:"roman_numerals"`
	BPMRange      [2]int       `json:"bpm_range"`
	Songs         []MelodySong `json:"songs"`
	Model         string       `json:"model"`
	Note          string       `json:"note,omitempty"`
}
