// Package words is the grid-content collaborator: it supplies the word draw
// and the color pattern a room's grid is built from at creation time.
package words

import (
	"bufio"
	_ "embed"
	"errors"
	"math/rand"
	"os"
	"strings"
	"time"

	"codewords/internal/grid"
)

//go:embed wordlist.txt
var embedded string

// Source draws words from a fixed list. The zero value is unusable; build
// one with NewSource.
type Source struct {
	words []string
}

// NewSource loads one word per line from path, or falls back to the
// embedded default list when path is empty.
func NewSource(path string) (*Source, error) {
	var list []string
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			if w := strings.TrimSpace(sc.Text()); w != "" {
				list = append(list, w)
			}
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
	} else {
		for _, line := range strings.Split(embedded, "\n") {
			if w := strings.TrimSpace(line); w != "" {
				list = append(list, w)
			}
		}
	}
	if len(list) < grid.Size {
		return nil, errors.New("words: list needs at least 25 entries")
	}
	return &Source{words: list}, nil
}

// Words draws n distinct words from the list.
func (s *Source) Words(n int) []string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	picked := r.Perm(len(s.words))[:n]
	out := make([]string, n)
	for i, idx := range picked {
		out[i] = s.words[idx]
	}
	return out
}

// Pattern returns a shuffled 25-entry color pattern: nine tiles for the
// starting team, eight for the other, seven neutral and one black.
func (s *Source) Pattern(starting grid.TileColor) []grid.TileColor {
	other := grid.ColorBlue
	if starting == grid.ColorBlue {
		other = grid.ColorRed
	}
	pattern := make([]grid.TileColor, 0, grid.Size)
	for i := 0; i < 9; i++ {
		pattern = append(pattern, starting)
	}
	for i := 0; i < 8; i++ {
		pattern = append(pattern, other)
	}
	for i := 0; i < 7; i++ {
		pattern = append(pattern, grid.ColorNeutral)
	}
	pattern = append(pattern, grid.ColorBlack)

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	r.Shuffle(len(pattern), func(i, j int) {
		pattern[i], pattern[j] = pattern[j], pattern[i]
	})
	return pattern
}
