package harmony

// Simplify reduces a chord to its root and basic triad quality, dropping the
// embellishment ("Cadd9" -> "C", "Amin7" -> "Am"). Both halves of a slash
// chord are simplified independently. Simplify is idempotent.
func Simplify(c Chord) Chord {
	return c.mapParts(func(part Chord) Chord {
		part.Embellishment = ""
		return part
	})
}
