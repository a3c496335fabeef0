// Package harmony normalizes chord symbols into key-independent forms:
// simplified triads, a fixed reference key, and scale-degree numerals.
//
// Every function in this package is a pure transformation of its inputs.
// Nothing here logs, blocks or keeps state between calls, so it is safe to
// use from any number of goroutines.
package harmony

// PitchClass is one of the 12 chromatic pitch classes, C = 0.
type PitchClass int

// Pitch classes, spelled with sharps.
const (
	C PitchClass = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

const semitonesPerOctave = 12

var pitchNames = [semitonesPerOctave]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// Natural letter positions from C
var letterSemitones = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// String returns the sharp spelling of the pitch class.
func (p PitchClass) String() string {
	return pitchNames[p.Semitone()]
}

// Semitone returns the pitch class as an integer in [0,11].
func (p PitchClass) Semitone() int {
	return mod12(int(p))
}

// Transpose shifts the pitch class by n semitones, wrapping around the octave.
func (p PitchClass) Transpose(n int) PitchClass {
	return PitchAt(int(p) + n)
}

// PitchAt returns the pitch class for a semitone count. Any integer is
// accepted and reduced mod 12.
func PitchAt(semitone int) PitchClass {
	return PitchClass(mod12(semitone))
}

// Interval returns the upward distance from one pitch class to another, in [0,11].
func Interval(from, to PitchClass) int {
	return mod12(to.Semitone() - from.Semitone())
}

// ParsePitchClass parses a note name: a letter A-G optionally followed by
// '#' or 'b'. Flat spellings normalize to their sharp equivalents.
func ParsePitchClass(name string) (PitchClass, bool) {
	n, ok := matchRoot(name)
	if !ok || n != len(name) {
		return 0, false
	}
	return rootPitch(name[:n]), true
}

// matchRoot reports the length of the note name at the start of s.
func matchRoot(s string) (int, bool) {
	if len(s) == 0 {
		return 0, false
	}
	if _, ok := letterSemitones[s[0]]; !ok {
		return 0, false
	}
	if len(s) > 1 && (s[1] == '#' || s[1] == 'b') {
		return 2, true
	}
	return 1, true
}

// rootPitch converts an already matched note name to its pitch class.
func rootPitch(root string) PitchClass {
	semitone := letterSemitones[root[0]]
	if len(root) > 1 {
		switch root[1] {
		case '#':
			semitone++
		case 'b':
			semitone--
		}
	}
	return PitchAt(semitone)
}

func mod12(n int) int {
	n %= semitonesPerOctave
	if n < 0 {
		n += semitonesPerOctave
	}
	return n
}
