/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package codenames

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	Rows    = 5
	Columns = 5

	// BoardSize is the number of cells on every board.
	BoardSize = Rows * Columns

	// MaxWordLength is exclusive: words must be shorter than this.
	MaxWordLength = 25
)

// Color is the hidden affiliation of a cell.
type Color string

const (
	Red     Color = "red"
	Blue    Color = "blue"
	Black   Color = "black"
	Neutral Color = "neutral"

	// Unknown stands in for the color of a cell the reader may not see.
	Unknown Color = ""
)

// ParseColor accepts a color name in any case. Unknown is not a valid input.
func ParseColor(s string) (Color, error) {
	switch c := Color(strings.ToLower(s)); c {
	case Red, Blue, Black, Neutral:
		return c, nil
	}

	return Unknown, fmt.Errorf("%w: unknown color %q", ErrValidation, s)
}

func (c Color) MarshalJSON() ([]byte, error) {
	if c == Unknown {
		return []byte("null"), nil
	}

	return json.Marshal(string(c))
}

func (c *Color) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Unknown

		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: color must be a string", ErrValidation)
	}

	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}

// Board is a full set of words and their colors, as supplied by a caller.
type Board struct {
	Words  []string `json:"words"`
	Colors []Color  `json:"colors"`
}

// Validate checks the size and word-length invariants of a board.
func (b Board) Validate() error {
	if len(b.Words) != BoardSize {
		return fmt.Errorf("%w: word list has %d entries, want %d", ErrValidation, len(b.Words), BoardSize)
	}

	if len(b.Colors) != BoardSize {
		return fmt.Errorf("%w: color list has %d entries, want %d", ErrValidation, len(b.Colors), BoardSize)
	}

	for i, w := range b.Words {
		if utf8.RuneCountInString(w) >= MaxWordLength {
			return fmt.Errorf("%w: word %d is longer than %d characters", ErrValidation, i, MaxWordLength-1)
		}
	}

	for i, c := range b.Colors {
		if _, err := ParseColor(string(c)); err != nil {
			return fmt.Errorf("%w (cell %d)", err, i)
		}
	}

	return nil
}
