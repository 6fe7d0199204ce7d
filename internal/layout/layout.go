// Package layout arranges render outputs into rows of display cards.
//
// A Layout is a static, declarative value: it has no conditional visibility and no
// dynamic arrangement. Validate checks it against the set of registered output ids.
package layout

import (
	"fmt"
	"slices"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for layout validation.
var (
	// ErrUnknownOutput indicates a card that references an unregistered output.
	ErrUnknownOutput = constError("layout references unknown output")

	// ErrDuplicateOutput indicates an output placed in more than one card.
	ErrDuplicateOutput = constError("output placed more than once")
)

// Card is one display region holding a single output.
type Card struct {
	// Header is an optional title shown above the output.
	Header string
	// Output is the id of the render binding shown in the card.
	Output string
	// FullScreen allows the card to be expanded to the whole screen.
	FullScreen bool
}

// Row is a horizontal band of cards sharing the width equally.
type Row struct {
	Cards []Card
}

// Layout is the ordered list of rows of a dashboard.
type Layout struct {
	Rows []Row
}

// Columns returns a row of cards laid out side by side.
func Columns(cards ...Card) Row { return Row{Cards: cards} }

// Output returns a header-less card for an output.
func Output(id string) Card { return Card{Output: id} }

// FullScreenCard returns a single-card row that can be expanded to the whole screen.
func FullScreenCard(header, id string) Row {
	return Row{Cards: []Card{{Header: header, Output: id, FullScreen: true}}}
}

// New builds a layout from rows.
func New(rows ...Row) Layout { return Layout{Rows: rows} }

// Outputs returns every output id in reading order (row by row, left to right).
func (l Layout) Outputs() []string {
	var ids []string
	for _, r := range l.Rows {
		for _, c := range r.Cards {
			ids = append(ids, c.Output)
		}
	}
	return ids
}

// Cards returns every card in reading order.
func (l Layout) Cards() []Card {
	var cards []Card
	for _, r := range l.Rows {
		cards = append(cards, r.Cards...)
	}
	return cards
}

// Find returns the card showing an output.
func (l Layout) Find(id string) (Card, bool) {
	for _, c := range l.Cards() {
		if c.Output == id {
			return c, true
		}
	}
	return Card{}, false
}

// Validate checks that every card references a known output and that no output is placed twice.
func (l Layout) Validate(known []string) error {
	seen := make(map[string]bool)
	for i, r := range l.Rows {
		if len(r.Cards) == 0 {
			return fmt.Errorf("layout row %d has no cards", i+1)
		}
		for _, c := range r.Cards {
			if !slices.Contains(known, c.Output) {
				return fmt.Errorf("%w: %q", ErrUnknownOutput, c.Output)
			}
			if seen[c.Output] {
				return fmt.Errorf("%w: %q", ErrDuplicateOutput, c.Output)
			}
			seen[c.Output] = true
		}
	}
	return nil
}
