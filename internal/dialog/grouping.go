// Package dialog implements the wizard step handlers: each chat command or
// button press maps to either the next menu of a wizard or a terminal call
// against the booker service.
package dialog

import (
	"fmt"
	"time"

	"github.com/wanabot/wanabot-go/internal/booker"
)

// SlotDuration is the fixed length of a court slot.
const SlotDuration = 40 * time.Minute

const (
	bookerDateLayout = "02/01/2006"
	courtTimeLayout  = "15:04"
	isoDateLayout    = "2006-01-02"
)

// Group collapses the bookings of one day into a single display label and
// the ordered ids that label represents. MemberIDs is never empty.
type Group struct {
	Label     string
	MemberIDs []string
}

// GroupByDay partitions bookings by exact date equality, in first-seen date
// order, and derives a compact label per partition.
//
// A single booking keeps the "{date} at {time}" form. Several bookings
// collapse to "{weekday} {day} {start}->{end}" with end = latest start plus
// the slot duration. Non-contiguous slots on the same day still get the
// [min, max+slot] range label; the over-approximation is intentional and
// matches what users already see.
func GroupByDay(bookings []booker.Booking) []Group {
	byDate := make(map[string][]booker.Booking)
	order := make([]string, 0, len(bookings))

	for _, b := range bookings {
		if _, seen := byDate[b.Date]; !seen {
			order = append(order, b.Date)
		}
		byDate[b.Date] = append(byDate[b.Date], b)
	}

	groups := make([]Group, 0, len(order))
	for _, date := range order {
		day := byDate[date]
		ids := make([]string, len(day))
		for i, b := range day {
			ids[i] = b.ID
		}
		groups = append(groups, Group{
			Label:     groupLabel(date, day),
			MemberIDs: ids,
		})
	}
	return groups
}

func groupLabel(date string, day []booker.Booking) string {
	if len(day) == 1 {
		return fmt.Sprintf("%s at %s", formatBookingDate(date), day[0].CourtTime)
	}

	start, end := day[0].CourtTime, day[0].CourtTime
	for _, b := range day[1:] {
		// Fixed-width HH:MM compares correctly as a string.
		if b.CourtTime < start {
			start = b.CourtTime
		}
		if b.CourtTime > end {
			end = b.CourtTime
		}
	}

	parsed, err := time.Parse(bookerDateLayout, date)
	if err != nil {
		return fmt.Sprintf("%s %s->%s", date, start, slotEnd(end))
	}
	return fmt.Sprintf("%s %02d %s->%s", parsed.Format("Mon"), parsed.Day(), start, slotEnd(end))
}

// slotEnd returns the end of the slot starting at courtTime.
func slotEnd(courtTime string) string {
	parsed, err := time.Parse(courtTimeLayout, courtTime)
	if err != nil {
		return courtTime
	}
	return parsed.Add(SlotDuration).Format(courtTimeLayout)
}

// formatBookingDate renders a booker date as "Mon 02/06".
// The raw date is returned unchanged when it does not parse.
func formatBookingDate(date string) string {
	parsed, err := time.Parse(bookerDateLayout, date)
	if err != nil {
		return date
	}
	return parsed.Format("Mon 02/01")
}
