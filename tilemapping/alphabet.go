package tilemapping

import (
	"fmt"
	"slices"
	"strings"
)

// A Letter is a single canonical (uppercase) glyph from an alphabet. Unlike
// a physical tile, two letters with the same glyph are indistinguishable.
type Letter rune

// A Word is a sequence of letters, in spelling order.
type Word []Letter

func (l Letter) String() string {
	return string(rune(l))
}

// String returns the user-visible spelling of the word.
func (w Word) String() string {
	var sb strings.Builder
	for _, l := range w {
		sb.WriteRune(rune(l))
	}
	return sb.String()
}

// Copy returns a copy of the word that does not share its backing array.
func (w Word) Copy() Word {
	if w == nil {
		return nil
	}
	c := make(Word, len(w))
	copy(c, w)
	return c
}

func (w Word) Equal(other Word) bool {
	return slices.Equal(w, other)
}

// MarshalText lets words travel as plain strings in JSON and YAML.
func (w Word) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *Word) UnmarshalText(text []byte) error {
	*w = FromString(string(text))
	return nil
}

func (l Letter) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// FromString converts a string into a word rune by rune. It does not
// normalize; see Normalizer for that.
func FromString(s string) Word {
	w := make(Word, 0, len(s))
	for _, r := range s {
		w = append(w, Letter(r))
	}
	return w
}

// An Alphabet is the ordered set of letters a letter distribution uses.
// The order is only used for display (sorting the center, etc).
type Alphabet struct {
	letters []Letter
	vals    map[Letter]int
}

// NewAlphabet builds an alphabet whose sort order is the given order.
func NewAlphabet(order []Letter) (*Alphabet, error) {
	a := &Alphabet{
		letters: make([]Letter, 0, len(order)),
		vals:    make(map[Letter]int, len(order)),
	}
	for _, l := range order {
		if _, ok := a.vals[l]; ok {
			return nil, fmt.Errorf("letter %v appears twice in alphabet", l)
		}
		a.vals[l] = len(a.letters)
		a.letters = append(a.letters, l)
	}
	return a, nil
}

// Letters returns the letters in alphabet order.
func (a *Alphabet) Letters() []Letter {
	return slices.Clone(a.letters)
}

func (a *Alphabet) NumLetters() int {
	return len(a.letters)
}

func (a *Alphabet) Contains(l Letter) bool {
	_, ok := a.vals[l]
	return ok
}

// Validate returns an error naming the first letter of w that is not in
// the alphabet.
func (a *Alphabet) Validate(w Word) error {
	for _, l := range w {
		if !a.Contains(l) {
			return fmt.Errorf("letter `%v` not found in alphabet", l)
		}
	}
	return nil
}

// Sort sorts the word in place by alphabet order. Letters outside the
// alphabet sort after all known letters, by code point.
func (a *Alphabet) Sort(w Word) {
	slices.SortStableFunc(w, func(x, y Letter) int {
		xi, xok := a.vals[x]
		yi, yok := a.vals[y]
		switch {
		case xok && yok:
			return xi - yi
		case xok:
			return -1
		case yok:
			return 1
		}
		return int(x) - int(y)
	})
}
