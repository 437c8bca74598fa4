package tilemapping

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrNoLetters   = errors.New("no letters given")
	ErrNotALetter  = errors.New("not a letter")
	xsystemReplace = strings.NewReplacer(
		"CX", "Ĉ", "GX", "Ĝ", "HX", "Ĥ", "JX", "Ĵ", "SX", "Ŝ", "UX", "Ŭ")
)

// A Normalizer turns free-form user input into a canonical Word.
type Normalizer struct {
	// XSystem maps the Esperanto surrogate digraphs (cx, gx, ...) onto
	// their accented letters.
	XSystem bool
}

// Normalize trims, composes (NFC) and uppercases s. Any non-letter left
// afterwards is an error.
func (n Normalizer) Normalize(s string) (Word, error) {
	s = norm.NFC.String(strings.TrimSpace(s))
	// Casers hold state, so one per call.
	s = cases.Upper(language.Und).String(s)
	if n.XSystem {
		s = xsystemReplace.Replace(s)
	}
	if s == "" {
		return nil, ErrNoLetters
	}
	w := make(Word, 0, len(s))
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return nil, fmt.Errorf("%w: %q", ErrNotALetter, r)
		}
		w = append(w, Letter(r))
	}
	return w, nil
}
