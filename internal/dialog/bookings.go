package dialog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wanabot/wanabot-go/internal/booker"
	"github.com/wanabot/wanabot-go/internal/bot"
	apperrors "github.com/wanabot/wanabot-go/internal/errors"
	"github.com/wanabot/wanabot-go/internal/invite"
	"github.com/wanabot/wanabot-go/internal/keyboard"
)

// bookingsCommand renders all bookings as a monospace table.
func (h *Handler) bookingsCommand(ctx context.Context, _ bot.Chat, _ string) (*bot.Result, error) {
	bookings, err := h.booker.Bookings(ctx)
	if err != nil {
		return nil, apperrors.Wrap("dialog", "list_bookings", err, "could not fetch bookings")
	}

	var sb strings.Builder
	sb.WriteString("<pre>\n")
	sb.WriteString("     Booking       | Court #\n")
	sb.WriteString(" ----------------- | --------\n")
	if len(bookings) == 0 {
		sb.WriteString("no bookings found\n")
	} else {
		for _, b := range bookings {
			fmt.Fprintf(&sb, "%s at %s |   %d  \n", formatBookingDate(b.Date), b.CourtTime, b.CourtNumber)
		}
	}
	sb.WriteString("</pre>")

	return &bot.Result{Text: sb.String(), HTML: true}, nil
}

// cancelCommand presents one button per booked day.
func (h *Handler) cancelCommand(ctx context.Context, _ bot.Chat, _ string) (*bot.Result, error) {
	return h.groupedBookingsMenu(ctx, tagCancel, "choose a booking to cancel")
}

// acceptCommand presents one button per booked day to generate an invite for.
func (h *Handler) acceptCommand(ctx context.Context, _ bot.Chat, _ string) (*bot.Result, error) {
	return h.groupedBookingsMenu(ctx, tagAccept, "choose a court period to get invite")
}

// groupedBookingsMenu collapses the current bookings by day and packs one
// button per group. Group labels vary in width, so rows are packed by
// cumulative label width rather than item count.
func (h *Handler) groupedBookingsMenu(ctx context.Context, tag, prompt string) (*bot.Result, error) {
	bookings, err := h.booker.Bookings(ctx)
	if err != nil {
		return nil, apperrors.Wrap("dialog", "list_bookings", err, "could not fetch bookings")
	}
	if len(bookings) == 0 {
		return &bot.Result{Text: "no bookings found"}, nil
	}

	groups := GroupByDay(bookings)
	items := make([]keyboard.Item, 0, len(groups))
	for _, g := range groups {
		item, err := menuItem(g.Label, tag, g.MemberIDs)
		if err != nil {
			return nil, apperrors.Wrapf("dialog", "build_menu", err,
				"too many bookings on %s to fit one button", g.Label)
		}
		items = append(items, item)
	}

	return &bot.Result{
		Text: prompt,
		Menu: keyboard.Pack(items, keyboard.WidthPolicy{MaxRowWidth: h.cfg.GroupMenuRowWidth}),
	}, nil
}

// cancelCallback cancels the first booking of the chosen day group.
func (h *Handler) cancelCallback(ctx context.Context, _ bot.Chat, data json.RawMessage) (*bot.Result, error) {
	ids, err := decodeIDs(data)
	if err != nil {
		return nil, err
	}

	if err := h.booker.CancelBooking(ctx, ids[0]); err != nil {
		return nil, apperrors.Wrap("dialog", "cancel_booking", err, "could not cancel the booking")
	}
	return &bot.Result{Text: "ok"}, nil
}

// acceptCallback builds a calendar invite spanning the chosen day group and
// delivers it as a file attachment. This is the one step with a side effect
// beyond a REST call.
func (h *Handler) acceptCallback(ctx context.Context, _ bot.Chat, data json.RawMessage) (*bot.Result, error) {
	ids, err := decodeIDs(data)
	if err != nil {
		return nil, err
	}

	bookings, err := h.booker.Bookings(ctx)
	if err != nil {
		return nil, apperrors.Wrap("dialog", "list_bookings", err, "could not fetch bookings")
	}

	selected := make([]booker.Booking, 0, len(ids))
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	for _, b := range bookings {
		if wanted[b.ID] {
			selected = append(selected, b)
		}
	}
	if len(selected) == 0 {
		return nil, apperrors.Wrap("dialog", "accept_bookings",
			apperrors.ErrUpstream, "those bookings no longer exist")
	}

	first, last := selected[0], selected[0]
	for _, b := range selected[1:] {
		if b.CourtTime < first.CourtTime {
			first = b
		}
		if b.CourtTime > last.CourtTime {
			last = b
		}
	}

	start, err := parseBookingInstant(first)
	if err != nil {
		return nil, apperrors.Wrap("dialog", "accept_bookings", err, "could not read the booking times")
	}
	end, err := parseBookingInstant(last)
	if err != nil {
		return nil, apperrors.Wrap("dialog", "accept_bookings", err, "could not read the booking times")
	}

	return &bot.Result{
		Text: "ok",
		File: &bot.File{
			Name: "invite.squash.ics",
			Data: invite.Generate(start, end.Add(SlotDuration)),
		},
	}, nil
}

// parseBookingInstant combines a booking's date and court time into a UTC instant.
func parseBookingInstant(b booker.Booking) (time.Time, error) {
	return time.Parse(bookerDateLayout+" "+courtTimeLayout, b.Date+" "+b.CourtTime)
}

// decodeIDs decodes a day group's member id list from a callback payload.
func decodeIDs(data json.RawMessage) ([]string, error) {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil || len(ids) == 0 {
		return nil, fmt.Errorf("%w: expected a booking id list, got %s",
			apperrors.ErrMalformedCallback, data)
	}
	return ids, nil
}
