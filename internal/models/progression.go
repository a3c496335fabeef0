package models

// ConvertRequest is the body of POST /api/v1/progressions/convert.
type ConvertRequest struct {
	Chords string `json:"chords" binding:"required"`
	Key    string `json:"key,omitempty"`
	Capo   int    `json:"capo,omitempty" binding:"min=0"`
}

// ChordForms is the six-way view of a single chord.
type ChordForms struct {
	Original            string `json:"original"`
	OriginalSimplified  string `json:"original_simplified"`
	Reference           string `json:"reference"`
	ReferenceSimplified string `json:"reference_simplified"`
	Roman               string `json:"roman"`
	RomanSimplified     string `json:"roman_simplified"`
}

// ConvertResponse describes a converted progression.
type ConvertResponse struct {
	OriginalChords []string     `json:"original_chords"`
	Key            string       `json:"key"`
	KeyInferred    bool         `json:"key_inferred"`
	RomanNumerals  []string     `json:"roman_numerals"`
	Chords         []ChordForms `json:"chords"`
	Unrecognized   []string     `json:"unrecognized,omitempty"`
	Note           string       `json:"note,omitempty"`
}
