package harmony

// ReferenceTonic is the fixed tonic songs are normalized onto: C for major
// keys and its relative minor, A, for minor keys. Both share one key
// signature.
func ReferenceTonic(mode Mode) PitchClass {
	if mode == ModeMinor {
		return A
	}
	return C
}

// ToReference moves a chord from its source key into the reference key for
// that key's mode. The embellishment is preserved and slash chords move both
// halves.
func ToReference(c Chord, source Key) Chord {
	return c.Transpose(Interval(source.Tonic, ReferenceTonic(source.Mode)))
}
