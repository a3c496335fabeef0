package harmony

import "strings"

// Quality is the basic triad quality of a chord.
type Quality int

const (
	Major Quality = iota
	Minor
	Diminished
	Augmented
)

// Marker returns the short textual marker written after the root.
func (q Quality) Marker() string {
	switch q {
	case Minor:
		return "m"
	case Diminished:
		return "dim"
	case Augmented:
		return "aug"
	default:
		return ""
	}
}

func (q Quality) String() string {
	switch q {
	case Minor:
		return "minor"
	case Diminished:
		return "diminished"
	case Augmented:
		return "augmented"
	default:
		return "major"
	}
}

// Chord is a parsed chord symbol.
//
// A chord whose root could not be recognized is kept as an opaque token:
// every transformation returns it unchanged and String returns the text it
// was parsed from. Chords are values; transformations return new chords.
type Chord struct {
	Root          PitchClass
	Quality       Quality
	Embellishment string // everything after the quality marker, e.g. "add9", "maj7", "sus4"
	Bass          *Chord // slash chords only, never itself a slash chord

	// text is the symbol this chord was parsed from. Empty for chords built
	// by a transformation, which render from their fields instead.
	text string

	// symbol holds the raw text of an unparsable half.
	symbol     string
	unparsable bool
}

// ParseChord parses a chord symbol such as "F#m7", "Cadd9" or "D/F#".
//
// Parsing never fails. A symbol without a recognizable root comes back as
// an opaque token (see Parsed) so that one bad symbol cannot abort a whole
// progression.
func ParseChord(symbol string) Chord {
	symbol = strings.TrimSpace(symbol)

	if strings.Contains(symbol, "/") {
		parts := strings.Split(symbol, "/")
		if len(parts) != 2 {
			return opaque(symbol)
		}
		chord := parseSimple(parts[0])
		bass := parseSimple(parts[1])
		chord.Bass = &bass
		chord.text = symbol
		return chord
	}

	return parseSimple(symbol)
}

// ParseChords parses each symbol in order.
func ParseChords(symbols []string) []Chord {
	chords := make([]Chord, len(symbols))
	for i, s := range symbols {
		chords[i] = ParseChord(s)
	}
	return chords
}

func parseSimple(symbol string) Chord {
	symbol = strings.TrimSpace(symbol)

	n, ok := matchRoot(symbol)
	if !ok {
		return opaque(symbol)
	}

	remainder := symbol[n:]
	quality, markerLen := detectQuality(remainder)

	return Chord{
		Root:          rootPitch(symbol[:n]),
		Quality:       quality,
		Embellishment: remainder[markerLen:],
		text:          symbol,
	}
}

// detectQuality reads the quality marker at the start of the text following
// the root and returns the quality and the marker length.
func detectQuality(remainder string) (Quality, int) {
	lower := strings.ToLower(remainder)

	switch {
	case strings.HasPrefix(lower, "maj"):
		// maj7, maj9: major triad, extension kept in the embellishment
		return Major, 0
	case strings.HasPrefix(lower, "dim"):
		return Diminished, len("dim")
	case strings.HasPrefix(lower, "aug"):
		return Augmented, len("aug")
	case strings.HasPrefix(lower, "min"):
		return Minor, len("min")
	case strings.HasPrefix(remainder, "m"):
		// Uppercase "M" alone is the major seventh shorthand (CM7)
		return Minor, len("m")
	default:
		return Major, 0
	}
}

func opaque(symbol string) Chord {
	return Chord{text: symbol, symbol: symbol, unparsable: true}
}

// Parsed reports whether the chord's root was recognized.
func (c Chord) Parsed() bool {
	return !c.unparsable
}

// IsSlash reports whether the chord carries a bass note.
func (c Chord) IsSlash() bool {
	return c.Bass != nil
}

// String renders the chord symbol. Parsed chords that have not been
// transformed return their original text verbatim.
func (c Chord) String() string {
	if c.text != "" {
		return c.text
	}

	s := c.symbol
	if !c.unparsable {
		s = c.Root.String() + c.Quality.Marker() + c.Embellishment
	}
	if c.Bass != nil {
		s += "/" + c.Bass.String()
	}
	return s
}

// Transpose shifts the root (and bass) of the chord by n semitones. Quality
// and embellishment are untouched. Opaque chords are returned as is.
func (c Chord) Transpose(n int) Chord {
	return c.mapParts(func(part Chord) Chord {
		part.Root = part.Root.Transpose(n)
		return part
	})
}

// mapParts applies fn to each recognized half of the chord independently and
// rejoins the results. The returned chord renders from its fields.
func (c Chord) mapParts(fn func(Chord) Chord) Chord {
	var out Chord
	if c.unparsable {
		out = Chord{symbol: c.symbol, unparsable: true}
	} else {
		out = fn(Chord{Root: c.Root, Quality: c.Quality, Embellishment: c.Embellishment})
	}

	if c.Bass != nil {
		bass := c.Bass.mapParts(fn)
		out.Bass = &bass
	}
	return out
}
