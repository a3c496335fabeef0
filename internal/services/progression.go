package services

import (
	"github.com/Conceptual-Machines/melody-api/internal/harmony"
	"github.com/Conceptual-Machines/melody-api/internal/models"
)

// NewConvertResponse describes an analyzed progression for API and CLI
// output.
func NewConvertResponse(a *harmony.Analysis) models.ConvertResponse {
	resp := models.ConvertResponse{
		OriginalChords: a.Originals(),
		Key:            a.Key.String(),
		KeyInferred:    a.KeyInferred,
		RomanNumerals:  a.RomanNumerals(),
		Chords:         make([]models.ChordForms, len(a.Bundles)),
		Unrecognized:   a.Unrecognized,
	}
	for i, b := range a.Bundles {
		resp.Chords[i] = models.ChordForms(b)
	}
	if a.Chromatic {
		resp.Note = ChromaticNote
	}
	return resp
}
