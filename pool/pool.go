// Package pool holds the letters of a game that have not been claimed:
// the pre-shuffled bag, and the center where drawn letters wait to be
// used in a word.
package pool

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/vortstelo/tilemapping"
)

var (
	ErrExhausted   = errors.New("no letters left to draw")
	ErrNotInCenter = errors.New("letters are not in the center")
)

// A Pool is the bag plus the center. The bag order is fixed when the pool
// is built; drawing only moves the position forward.
type Pool struct {
	bag    tilemapping.Word
	pos    int
	center map[tilemapping.Letter]int
	// number of letters in the center, counting duplicates
	centerSize int
	alph       *tilemapping.Alphabet
}

// New builds a pool holding every tile of the distribution, in a uniformly
// random order.
func New(ld *tilemapping.LetterDistribution) *Pool {
	tiles := ld.Tiles()
	shuffle(tiles)
	return NewFixed(tiles, ld.Alphabet())
}

// NewFixed builds a pool that draws the given letters in the given order.
// alph is only used to sort the center and may be nil.
func NewFixed(bag tilemapping.Word, alph *tilemapping.Alphabet) *Pool {
	return &Pool{
		bag:    bag.Copy(),
		center: map[tilemapping.Letter]int{},
		alph:   alph,
	}
}

// Fisher-Yates, with frand's CSPRNG as the source.
func shuffle(w tilemapping.Word) {
	for i := len(w) - 1; i > 0; i-- {
		j := frand.Intn(i + 1)
		w[i], w[j] = w[j], w[i]
	}
}

// Draw moves the next letter of the bag into the center.
func (p *Pool) Draw() (tilemapping.Letter, error) {
	if p.pos == len(p.bag) {
		return 0, ErrExhausted
	}
	l := p.bag[p.pos]
	p.pos++
	p.add(l)
	return l, nil
}

// Undraw reverses the last Draw. l must be the letter that draw returned,
// and it must still be in the center.
func (p *Pool) Undraw(l tilemapping.Letter) error {
	if p.pos == 0 || p.bag[p.pos-1] != l {
		return fmt.Errorf("%v was not the last letter drawn", l)
	}
	if p.center[l] == 0 {
		return fmt.Errorf("%w: %v", ErrNotInCenter, l)
	}
	p.remove(l)
	p.pos--
	return nil
}

func (p *Pool) add(l tilemapping.Letter) {
	p.center[l]++
	p.centerSize++
}

func (p *Pool) remove(l tilemapping.Letter) {
	p.center[l]--
	if p.center[l] == 0 {
		delete(p.center, l)
	}
	p.centerSize--
}

// Missing returns the letters of w that the center cannot supply, in the
// order they appear in w. w can be taken from the center iff the result is
// empty.
func (p *Pool) Missing(w tilemapping.Word) tilemapping.Word {
	return subtractCounts(w, p.center)
}

// Take removes all of w's letters from the center, or nothing at all if
// some are missing.
func (p *Pool) Take(w tilemapping.Word) error {
	if missing := p.Missing(w); len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrNotInCenter, missing)
	}
	for _, l := range w {
		p.remove(l)
	}
	log.Debug().Str("word", w.String()).Int("center", p.centerSize).Msg("took-from-center")
	return nil
}

// Return puts the letters of w back in the center.
func (p *Pool) Return(w tilemapping.Word) {
	for _, l := range w {
		p.add(l)
	}
}

// Center returns the letters in the center, sorted.
func (p *Pool) Center() tilemapping.Word {
	w := make(tilemapping.Word, 0, p.centerSize)
	for l, ct := range p.center {
		for i := 0; i < ct; i++ {
			w = append(w, l)
		}
	}
	if p.alph != nil {
		p.alph.Sort(w)
	} else {
		(&tilemapping.Alphabet{}).Sort(w)
	}
	return w
}

func (p *Pool) CenterSize() int {
	return p.centerSize
}

// Drawn is the number of letters drawn from the bag so far.
func (p *Pool) Drawn() int {
	return p.pos
}

func (p *Pool) Remaining() int {
	return len(p.bag) - p.pos
}

func (p *Pool) Size() int {
	return len(p.bag)
}
