package harmony

import (
	"fmt"
	"regexp"
	"strings"
)

var tokenSeparators = regexp.MustCompile(`[\s\-,]+`)

// Bundle holds the six parallel forms of one chord. Each field is derived
// from the parsed chord and the source key on its own; none is computed from
// another field's text.
type Bundle struct {
	Original            string `json:"original"`
	OriginalSimplified  string `json:"original_simplified"`
	Reference           string `json:"reference"`
	ReferenceSimplified string `json:"reference_simplified"`
	Roman               string `json:"roman"`
	RomanSimplified     string `json:"roman_simplified"`
}

// Progression is an ordered run of chords in one key. Capo is the fret the
// chords were played at; 0 means the chords already name sounding pitches.
type Progression struct {
	Key    Key
	Chords []Chord
	Capo   int
}

// Process produces a Bundle for every chord, in order.
//
// Capo compensation comes first, so every other form describes the pitch
// that sounds. Roman holds the interval-based numeral against Key;
// RomanSimplified is read from the simplified reference form through the
// reference table. The two paths agree by construction.
func (p Progression) Process() []Bundle {
	bundles := make([]Bundle, len(p.Chords))
	for i, shape := range p.Chords {
		bundles[i] = bundleFor(ApplyCapo(shape, p.Capo), p.Key)
	}
	return bundles
}

func bundleFor(c Chord, key Key) Bundle {
	reference := ToReference(c, key)
	referenceSimple := Simplify(reference)

	return Bundle{
		Original:            c.String(),
		OriginalSimplified:  Simplify(c).String(),
		Reference:           reference.String(),
		ReferenceSimplified: referenceSimple.String(),
		Roman:               ToRoman(c, key),
		RomanSimplified:     ToRomanReference(referenceSimple, key.Mode),
	}
}

// Options adjusts how raw progression text is analyzed.
type Options struct {
	// Key overrides key inference when set, e.g. "A minor" or "F#m".
	Key string
	// Capo is the fret the chords were played at.
	Capo int
}

// Analysis is the result of analyzing a chord progression.
type Analysis struct {
	Key         Key
	KeyInferred bool
	// RomanInput is set when the input was already written in numerals.
	RomanInput bool
	Bundles    []Bundle
	// Chromatic is set when a chord root or slash bass lies outside the
	// key's scale. Its numeral names the nearest diatonic degree instead.
	Chromatic bool
	// Unrecognized lists tokens whose root could not be read. They pass
	// through every form unchanged.
	Unrecognized []string
}

// Originals returns the original chord of every bundle, in order.
func (a *Analysis) Originals() []string {
	out := make([]string, len(a.Bundles))
	for i, b := range a.Bundles {
		out[i] = b.Original
	}
	return out
}

// RomanNumerals returns the numeral of every bundle, in order.
func (a *Analysis) RomanNumerals() []string {
	out := make([]string, len(a.Bundles))
	for i, b := range a.Bundles {
		out[i] = b.Roman
	}
	return out
}

// SplitTokens splits progression text on runs of whitespace, hyphens and
// commas. Empty tokens and tempo annotations ("120bpm", "@96") are dropped.
func SplitTokens(input string) []string {
	var tokens []string
	for _, t := range tokenSeparators.Split(strings.TrimSpace(input), -1) {
		if t == "" || strings.HasSuffix(strings.ToLower(t), "bpm") || strings.Contains(t, "@") {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// Convert splits and analyzes progression text such as "Am C F G" or
// "Am-C-F-G".
func Convert(input string, opts Options) (*Analysis, error) {
	return Analyze(SplitTokens(input), opts)
}

// Analyze determines the working key for a list of chord tokens and
// processes them.
//
// An explicit key in opts wins; otherwise the key is inferred from the first
// recognizable sounding chord. When every token is a bare numeral the input
// is returned as is in the numeral fields, in the explicit key or C major,
// with the reference forms realizing each numeral in the reference key.
func Analyze(tokens []string, opts Options) (*Analysis, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptyProgression
	}
	if opts.Capo < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapo, opts.Capo)
	}

	var (
		key      Key
		explicit bool
	)
	if strings.TrimSpace(opts.Key) != "" {
		k, err := ParseKey(opts.Key)
		if err != nil {
			return nil, err
		}
		key, explicit = k, true
	}

	if allRoman(tokens) {
		if !explicit {
			key = DefaultKey
		}
		return analyzeNumerals(tokens, key), nil
	}

	chords := ParseChords(tokens)
	if !explicit {
		key = InferKey(ApplyCapoAll(chords, opts.Capo))
	}

	analysis := &Analysis{
		Key:         key,
		KeyInferred: !explicit,
		Bundles:     Progression{Key: key, Chords: chords, Capo: opts.Capo}.Process(),
	}
	for i, c := range chords {
		if !c.Parsed() {
			analysis.Unrecognized = append(analysis.Unrecognized, tokens[i])
		}
		if IsChromatic(ApplyCapo(c, opts.Capo), key) {
			analysis.Chromatic = true
		}
	}
	return analysis, nil
}

func allRoman(tokens []string) bool {
	for _, t := range tokens {
		if !IsRomanNumeral(t) {
			return false
		}
	}
	return true
}

func analyzeNumerals(tokens []string, key Key) *Analysis {
	reference := key.Reference()
	bundles := make([]Bundle, len(tokens))
	for i, t := range tokens {
		// Bare numerals carry no embellishment, so the realized chord is
		// already simple.
		realized, _ := RealizeNumeral(t, reference)
		bundles[i] = Bundle{
			Original:            t,
			OriginalSimplified:  t,
			Reference:           realized.String(),
			ReferenceSimplified: realized.String(),
			Roman:               t,
			RomanSimplified:     t,
		}
	}
	return &Analysis{Key: key, RomanInput: true, Bundles: bundles}
}

// IsChromatic reports whether the chord's root or its slash bass falls
// outside the key's scale. Unparsable halves are never chromatic.
func IsChromatic(c Chord, key Key) bool {
	if c.Parsed() && !IsDiatonic(Interval(key.Tonic, c.Root), key.Mode) {
		return true
	}
	return c.Bass != nil && IsChromatic(*c.Bass, key)
}
