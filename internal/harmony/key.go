package harmony

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidKey is returned when an explicit key string cannot be read.
	ErrInvalidKey = errors.New("invalid key")
	// ErrEmptyProgression is returned when input contains no chord tokens.
	ErrEmptyProgression = errors.New("no chords found in input")
	// ErrInvalidCapo is returned for a negative capo fret.
	ErrInvalidCapo = errors.New("capo fret must not be negative")
)

// Mode is the mode of a key.
type Mode int

const (
	ModeMajor Mode = iota
	ModeMinor
)

func (m Mode) String() string {
	if m == ModeMinor {
		return "minor"
	}
	return "major"
}

// Key is a tonic and a mode.
type Key struct {
	Tonic PitchClass
	Mode  Mode
}

// DefaultKey is used when nothing else can be determined.
var DefaultKey = Key{Tonic: C, Mode: ModeMajor}

// String renders the key as "A minor" or "D major".
func (k Key) String() string {
	return k.Tonic.String() + " " + k.Mode.String()
}

// Short renders the key the way lead sheets label tonality: "Am", "G".
func (k Key) Short() string {
	if k.Mode == ModeMinor {
		return k.Tonic.String() + "m"
	}
	return k.Tonic.String()
}

// Reference returns the fixed reference key for this key's mode.
func (k Key) Reference() Key {
	return Key{Tonic: ReferenceTonic(k.Mode), Mode: k.Mode}
}

// ParseKey reads a key string. Accepted forms are "<Root> major|minor"
// (the mode word is case-insensitive, "maj"/"min" also work), "<Root>m",
// "<Root>min" and a bare "<Root>" meaning major. A lowercase root letter is
// accepted.
func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	if s != "" {
		s = strings.ToUpper(s[:1]) + s[1:]
	}

	n, ok := matchRoot(s)
	if !ok {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	tonic := rootPitch(s[:n])

	switch strings.ToLower(strings.TrimSpace(s[n:])) {
	case "", "major", "maj":
		return Key{Tonic: tonic, Mode: ModeMajor}, nil
	case "m", "minor", "min":
		return Key{Tonic: tonic, Mode: ModeMinor}, nil
	default:
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
}

// InferKey derives a working key from a chord sequence: the first
// recognizable chord is taken as the tonic, and the key is major when that
// chord is major and minor otherwise. Without any recognizable chord the
// result is C major.
//
// This assumes the first sounded chord is the tonic. It is a heuristic, not
// key detection.
func InferKey(chords []Chord) Key {
	for _, c := range chords {
		if !c.Parsed() {
			continue
		}
		if c.Quality == Major {
			return Key{Tonic: c.Root, Mode: ModeMajor}
		}
		return Key{Tonic: c.Root, Mode: ModeMinor}
	}
	return DefaultKey
}
