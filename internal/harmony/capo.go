package harmony

// ApplyCapo converts a fretted chord shape into the chord that actually
// sounds with a capo on the given fret. The root (and bass) move up by one
// semitone per fret; quality and embellishment are untouched.
//
// Fret 0 returns the chord unchanged. Callers are expected to reject
// negative frets before reaching this point.
func ApplyCapo(c Chord, fret int) Chord {
	if fret == 0 {
		return c
	}
	return c.Transpose(fret)
}

// ApplyCapoAll applies the same capo to every chord, preserving order.
func ApplyCapoAll(chords []Chord, fret int) []Chord {
	out := make([]Chord, len(chords))
	for i, c := range chords {
		out[i] = ApplyCapo(c, fret)
	}
	return out
}
