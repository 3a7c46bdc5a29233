package grid

import (
	"errors"
	"fmt"
)

// Size is the number of tiles on a board: a 5x5 grid.
const (
	Rows    = 5
	Columns = 5
	Size    = Rows * Columns
)

type TileColor string

const (
	ColorRed     TileColor = "red"
	ColorBlue    TileColor = "blue"
	ColorNeutral TileColor = "grey"
	ColorBlack   TileColor = "black"
)

// Tile is one grid cell: the word shown to everyone, the color known to
// spymasters, and whether it has been revealed.
type Tile struct {
	Word     string    `json:"word"`
	Color    TileColor `json:"color"`
	Revealed bool      `json:"revealed"`
}

type Grid []Tile

var (
	ErrInvalidWords    = errors.New("word set must have exactly 25 entries")
	ErrInvalidPattern  = errors.New("color pattern must have exactly 25 entries")
	ErrInvalidIndex    = errors.New("tile index out of range")
	ErrAlreadyRevealed = errors.New("tile already revealed")
)

// Generate zips 25 words with a 25-entry color pattern into a fresh grid.
// The grid is populated once at room creation and never regenerated.
func Generate(words []string, pattern []TileColor) (Grid, error) {
	if len(words) != Size {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWords, len(words))
	}
	if len(pattern) != Size {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPattern, len(pattern))
	}
	g := make(Grid, Size)
	for i := range g {
		g[i] = Tile{Word: words[i], Color: pattern[i]}
	}
	return g, nil
}

// Reveal flips the tile at index to revealed and returns its color for
// effect resolution. Revealing an already-revealed tile leaves the grid
// untouched and reports ErrAlreadyRevealed so the caller skips every side
// effect. The caller must hold the room's mutation lock: the check and the
// set below are only atomic under per-room serialization.
func (g Grid) Reveal(index int) (TileColor, error) {
	if index < 0 || index >= len(g) {
		return "", fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	if g[index].Revealed {
		return g[index].Color, ErrAlreadyRevealed
	}
	g[index].Revealed = true
	return g[index].Color, nil
}

// Remaining counts unrevealed tiles of the given color.
func (g Grid) Remaining(color TileColor) int {
	n := 0
	for _, t := range g {
		if t.Color == color && !t.Revealed {
			n++
		}
	}
	return n
}

// Index converts a row/column pair into a flat tile index.
func Index(row, col int) (int, error) {
	if row < 0 || row >= Rows || col < 0 || col >= Columns {
		return 0, fmt.Errorf("%w: row %d col %d", ErrInvalidIndex, row, col)
	}
	return row*Columns + col, nil
}
