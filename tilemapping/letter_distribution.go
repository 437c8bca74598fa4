package tilemapping

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/domino14/vortstelo/cache"
)

//go:embed letterdistributions/*.csv
var distributionFS embed.FS

const (
	EnglishDistribution   = "english"
	EsperantoDistribution = "esperanto"
)

// LetterDistribution encodes the fixed frequency multiset a bag is built
// from.
type LetterDistribution struct {
	Name         string
	alphabet     *Alphabet
	distribution map[Letter]int
	numLetters   int
}

// ScanLetterDistribution reads a distribution in `letter,quantity` CSV
// form. The order of the rows is the alphabet order.
func ScanLetterDistribution(name string, data io.Reader) (*LetterDistribution, error) {
	r := csv.NewReader(data)
	r.FieldsPerRecord = 2
	order := []Letter{}
	dist := map[Letter]int{}
	total := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		glyph := strings.TrimSpace(record[0])
		if utf8.RuneCountInString(glyph) != 1 {
			return nil, fmt.Errorf("distribution %v: bad letter %q", name, glyph)
		}
		n, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("distribution %v: letter %v has count %d", name, glyph, n)
		}
		rn, _ := utf8.DecodeRuneInString(glyph)
		l := Letter(rn)
		order = append(order, l)
		dist[l] = n
		total += n
	}
	alph, err := NewAlphabet(order)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, fmt.Errorf("distribution %v is empty", name)
	}
	return &LetterDistribution{
		Name:         name,
		alphabet:     alph,
		distribution: dist,
		numLetters:   total,
	}, nil
}

// NamedLetterDistribution loads one of the built-in distributions. Each is
// parsed once; callers share the result, which is read-only.
func NamedLetterDistribution(name string) (*LetterDistribution, error) {
	name = strings.ToLower(name)
	obj, err := cache.Load("letterdist:"+name, func(string) (any, error) {
		f, err := distributionFS.Open(path.Join("letterdistributions", name+".csv"))
		if err != nil {
			return nil, fmt.Errorf("letter distribution %v not found", name)
		}
		defer f.Close()
		return ScanLetterDistribution(name, f)
	})
	if err != nil {
		return nil, err
	}
	return obj.(*LetterDistribution), nil
}

// EnglishLetterDistribution returns the English distribution, which is the
// crossword-game tile set without blanks.
func EnglishLetterDistribution() (*LetterDistribution, error) {
	return NamedLetterDistribution(EnglishDistribution)
}

func (ld *LetterDistribution) Alphabet() *Alphabet {
	return ld.alphabet
}

// Count returns how many copies of l the distribution holds.
func (ld *LetterDistribution) Count(l Letter) int {
	return ld.distribution[l]
}

func (ld *LetterDistribution) NumTotalTiles() int {
	return ld.numLetters
}

// Tiles returns every tile of the distribution, grouped in alphabet order.
func (ld *LetterDistribution) Tiles() Word {
	tiles := make(Word, 0, ld.numLetters)
	for _, l := range ld.alphabet.letters {
		for i := 0; i < ld.distribution[l]; i++ {
			tiles = append(tiles, l)
		}
	}
	return tiles
}

// Normalizer returns the input normalizer suited to this distribution.
// Esperanto accepts the x-system (cx for Ĉ, ux for Ŭ, and so on).
func (ld *LetterDistribution) Normalizer() Normalizer {
	return Normalizer{XSystem: ld.Name == EsperantoDistribution}
}
