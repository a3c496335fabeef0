package harmony

import (
	"regexp"
	"strings"
)

const (
	diminishedSign = "°"
	augmentedSign  = "+"
)

var numerals = [7]string{"I", "II", "III", "IV", "V", "VI", "VII"}

// Semitone offsets of each scale degree from the tonic
var (
	majorScale = [7]int{0, 2, 4, 5, 7, 9, 11}
	minorScale = [7]int{0, 2, 3, 5, 7, 8, 10} // natural minor
)

// Diatonic roots of the reference keys, by scale degree
var referenceRoots = map[Mode][7]PitchClass{
	ModeMajor: {C, D, E, F, G, A, B},
	ModeMinor: {A, B, C, D, E, F, G},
}

var romanPattern = regexp.MustCompile(`^(I|II|III|IV|V|VI|VII|i|ii|iii|iv|v|vi|vii)$`)

func scaleFor(mode Mode) [7]int {
	if mode == ModeMinor {
		return minorScale
	}
	return majorScale
}

// ScaleDegree returns the zero-based scale degree for an interval above the
// tonic. Intervals outside the scale resolve to the nearest degree by
// absolute semitone distance, ties going to the lower degree, so a chromatic
// root is labeled approximately rather than rejected.
func ScaleDegree(interval int, mode Mode) int {
	interval = mod12(interval)
	scale := scaleFor(mode)

	best, bestDist := 0, semitonesPerOctave
	for degree, offset := range scale {
		dist := interval - offset
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist {
			best, bestDist = degree, dist
		}
	}
	return best
}

// IsDiatonic reports whether an interval above the tonic lies in the scale.
func IsDiatonic(interval int, mode Mode) bool {
	interval = mod12(interval)
	for _, offset := range scaleFor(mode) {
		if offset == interval {
			return true
		}
	}
	return false
}

// ToRoman converts a chord into scale-degree notation relative to a key by
// measuring the root's interval from the tonic.
//
// Case follows the chord's own quality: uppercase for major and augmented,
// lowercase for minor and diminished. "°" or "+" goes straight after the
// numeral, before the embellishment ("vii°7"). Slash chords convert both
// halves. Chromatic roots take the nearest diatonic numeral (see ScaleDegree),
// so the result is an approximate label for those chords.
func ToRoman(c Chord, key Key) string {
	return c.romanize(func(root PitchClass) int {
		return ScaleDegree(Interval(key.Tonic, root), key.Mode)
	})
}

// ToRomanReference converts a chord that has already been moved into the
// reference key for mode (see ToReference) by looking its root up in the
// reference scale directly. For chromatic roots it falls back to the same
// nearest-degree rule as ToRoman, so
//
//	ToRomanReference(ToReference(c, k), k.Mode) == ToRoman(c, k)
//
// holds for every chord and key.
func ToRomanReference(c Chord, mode Mode) string {
	roots := referenceRoots[mode]
	return c.romanize(func(root PitchClass) int {
		for degree, r := range roots {
			if r == root {
				return degree
			}
		}
		return ScaleDegree(Interval(ReferenceTonic(mode), root), mode)
	})
}

func (c Chord) romanize(degreeOf func(PitchClass) int) string {
	var s string
	if c.unparsable {
		s = c.symbol
	} else {
		s = renderNumeral(degreeOf(c.Root), c.Quality) + c.Embellishment
	}

	if c.Bass != nil {
		s += "/" + c.Bass.romanize(degreeOf)
	}
	return s
}

func renderNumeral(degree int, quality Quality) string {
	numeral := numerals[degree]

	switch quality {
	case Minor:
		return strings.ToLower(numeral)
	case Diminished:
		return strings.ToLower(numeral) + diminishedSign
	case Augmented:
		return numeral + augmentedSign
	default:
		return numeral
	}
}

// IsRomanNumeral reports whether a token is a bare numeral I-VII in either case.
func IsRomanNumeral(token string) bool {
	return romanPattern.MatchString(token)
}

// RealizeNumeral turns a bare numeral back into a chord in the given key:
// "vi" in C major is Am. Uppercase numerals give major chords, lowercase
// give minor ones. ok is false for anything that is not a bare numeral.
func RealizeNumeral(token string, key Key) (Chord, bool) {
	if !IsRomanNumeral(token) {
		return Chord{}, false
	}

	upper := strings.ToUpper(token)
	degree := 0
	for i, n := range numerals {
		if n == upper {
			degree = i
			break
		}
	}

	quality := Major
	if token != upper {
		quality = Minor
	}

	root := key.Tonic.Transpose(scaleFor(key.Mode)[degree])
	return Chord{Root: root, Quality: quality}, true
}
