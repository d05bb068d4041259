// Package keyboard packs labeled buttons into the row/column grid of an
// inline keyboard. Packing is greedy, left to right, single pass: items are
// never reordered and labels are never wrapped or rejected.
package keyboard

import "unicode/utf8"

// Item is one button: a visible label and the opaque callback payload the
// transport echoes back when the button is pressed.
type Item struct {
	Label   string
	Payload string
}

// Grid is the 2-D arrangement of buttons sent to the user.
// Every emitted row is non-empty.
type Grid [][]Item

// Policy decides when the packer must start a new row.
type Policy interface {
	// fits reports whether an item with the given label width can join a
	// row that already holds count items of cumulative width.
	fits(count, width, labelWidth int) bool
}

// CountPolicy starts a new row once a row holds MaxPerRow items.
type CountPolicy struct {
	MaxPerRow int
}

func (p CountPolicy) fits(count, _, _ int) bool {
	return count < p.MaxPerRow
}

// WidthPolicy starts a new row once the cumulative label width of a row
// would exceed MaxRowWidth. A label wider than MaxRowWidth is placed alone
// on its own row.
type WidthPolicy struct {
	MaxRowWidth int
}

func (p WidthPolicy) fits(count, width, labelWidth int) bool {
	if count == 0 {
		return true
	}
	return width+labelWidth <= p.MaxRowWidth
}

// Pack arranges items into a grid under the given policy.
// An empty input yields an empty grid; packing never fails.
func Pack(items []Item, policy Policy) Grid {
	if len(items) == 0 {
		return Grid{}
	}

	grid := make(Grid, 0, 1)
	var row []Item
	rowWidth := 0

	for _, item := range items {
		labelWidth := utf8.RuneCountInString(item.Label)
		if !policy.fits(len(row), rowWidth, labelWidth) {
			grid = append(grid, row)
			row = nil
			rowWidth = 0
		}
		row = append(row, item)
		rowWidth += labelWidth
	}
	if len(row) > 0 {
		grid = append(grid, row)
	}

	return grid
}
