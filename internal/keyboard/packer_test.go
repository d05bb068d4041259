package keyboard

import (
	"fmt"
	"testing"
)

func rowSizes(g Grid) []int {
	sizes := make([]int, len(g))
	for i, row := range g {
		sizes[i] = len(row)
	}
	return sizes
}

func TestPackCountPolicy(t *testing.T) {
	t.Parallel()

	items := make([]Item, 7)
	for i := range items {
		items[i] = Item{Label: fmt.Sprintf("day %d", i), Payload: fmt.Sprintf("p%d", i)}
	}

	grid := Pack(items, CountPolicy{MaxPerRow: 3})

	want := []int{3, 3, 1}
	got := rowSizes(grid)
	if len(got) != len(want) {
		t.Fatalf("row count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d has %d items, want %d", i, got[i], want[i])
		}
	}

	// Input order must be preserved across rows.
	if grid[0][0].Label != "day 0" || grid[1][0].Label != "day 3" || grid[2][0].Label != "day 6" {
		t.Errorf("items were reordered: %v", grid)
	}
}

func TestPackWidthPolicy(t *testing.T) {
	t.Parallel()

	// 20-rune booking-group labels against a 44-rune row budget:
	// two fit (40 <= 44), a third overflows (60 > 44).
	label1 := "Mon 01 09:00->17:00_"
	label2 := "Tue 02 09:00->17:00_"
	label3 := "Wed 03 09:00->17:00_"

	two := Pack([]Item{{Label: label1}, {Label: label2}}, WidthPolicy{MaxRowWidth: 44})
	if len(two) != 1 || len(two[0]) != 2 {
		t.Errorf("two 20-rune labels should share one row, got %v", rowSizes(two))
	}

	three := Pack([]Item{{Label: label1}, {Label: label2}, {Label: label3}}, WidthPolicy{MaxRowWidth: 44})
	if len(three) != 2 || len(three[0]) != 2 || len(three[1]) != 1 {
		t.Errorf("third label should start a new row, got %v", rowSizes(three))
	}
}

func TestPackWidthPolicyOversizedLabel(t *testing.T) {
	t.Parallel()

	grid := Pack([]Item{
		{Label: "ok"},
		{Label: "this label is far wider than the row budget"},
		{Label: "ok too"},
	}, WidthPolicy{MaxRowWidth: 10})

	// The oversized label is placed alone, never rejected.
	if len(grid) != 3 {
		t.Fatalf("row count = %d, want 3 (%v)", len(grid), rowSizes(grid))
	}
	if len(grid[1]) != 1 {
		t.Errorf("oversized label should sit alone on its row")
	}
}

func TestPackWidthPolicyCountsRunes(t *testing.T) {
	t.Parallel()

	// Multi-byte labels are measured in runes, not bytes.
	grid := Pack([]Item{{Label: "日月火"}, {Label: "水木金"}}, WidthPolicy{MaxRowWidth: 6})
	if len(grid) != 1 || len(grid[0]) != 2 {
		t.Errorf("6 runes should fit a 6-rune row, got %v", rowSizes(grid))
	}
}

func TestPackEmptyInput(t *testing.T) {
	t.Parallel()

	grid := Pack(nil, CountPolicy{MaxPerRow: 3})
	if len(grid) != 0 {
		t.Errorf("empty input should yield empty grid, got %v", grid)
	}
}

func TestPackSingleItemPerRow(t *testing.T) {
	t.Parallel()

	grid := Pack([]Item{{Label: "a"}, {Label: "b"}}, CountPolicy{MaxPerRow: 1})
	if len(grid) != 2 {
		t.Errorf("max 1 per row should yield one row per item, got %v", rowSizes(grid))
	}
}
