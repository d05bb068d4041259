package dialog

import (
	"testing"

	"github.com/wanabot/wanabot-go/internal/booker"
)

func TestGroupByDay(t *testing.T) {
	t.Parallel()

	bookings := []booker.Booking{
		{ID: "1", Date: "01/06/2024", CourtTime: "09:00"},
		{ID: "2", Date: "01/06/2024", CourtTime: "10:00"},
		{ID: "3", Date: "02/06/2024", CourtTime: "09:00"},
	}

	groups := GroupByDay(bookings)
	if len(groups) != 2 {
		t.Fatalf("group count = %d, want 2", len(groups))
	}

	// 01/06/2024 is a Saturday; the range runs to the last start plus one slot.
	if groups[0].Label != "Sat 01 09:00->10:40" {
		t.Errorf("range label = %q, want \"Sat 01 09:00->10:40\"", groups[0].Label)
	}
	if len(groups[0].MemberIDs) != 2 || groups[0].MemberIDs[0] != "1" || groups[0].MemberIDs[1] != "2" {
		t.Errorf("member ids = %v, want [1 2] in input order", groups[0].MemberIDs)
	}

	// A single booking keeps the "date at time" form.
	if groups[1].Label != "Sun 02/06 at 09:00" {
		t.Errorf("single label = %q, want \"Sun 02/06 at 09:00\"", groups[1].Label)
	}
	if len(groups[1].MemberIDs) != 1 || groups[1].MemberIDs[0] != "3" {
		t.Errorf("member ids = %v, want [3]", groups[1].MemberIDs)
	}
}

func TestGroupByDayFirstSeenOrder(t *testing.T) {
	t.Parallel()

	bookings := []booker.Booking{
		{ID: "a", Date: "05/06/2024", CourtTime: "09:00"},
		{ID: "b", Date: "03/06/2024", CourtTime: "09:00"},
		{ID: "c", Date: "05/06/2024", CourtTime: "09:40"},
	}

	groups := GroupByDay(bookings)
	if len(groups) != 2 {
		t.Fatalf("group count = %d, want 2", len(groups))
	}
	if groups[0].MemberIDs[0] != "a" {
		t.Errorf("groups must keep first-seen date order, got %v first", groups[0].MemberIDs)
	}
}

func TestGroupByDayNonContiguousRange(t *testing.T) {
	t.Parallel()

	// 09:00 and 21:00 with a gap between still label as one [min, max+40m) range.
	bookings := []booker.Booking{
		{ID: "1", Date: "01/06/2024", CourtTime: "09:00"},
		{ID: "2", Date: "01/06/2024", CourtTime: "21:00"},
	}

	groups := GroupByDay(bookings)
	if len(groups) != 1 {
		t.Fatalf("group count = %d, want 1", len(groups))
	}
	if groups[0].Label != "Sat 01 09:00->21:40" {
		t.Errorf("label = %q, want the over-approximated range", groups[0].Label)
	}
}

func TestGroupByDayEmpty(t *testing.T) {
	t.Parallel()

	if groups := GroupByDay(nil); len(groups) != 0 {
		t.Errorf("empty input should yield no groups, got %v", groups)
	}
}
