package dialog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wanabot/wanabot-go/internal/bot"
	apperrors "github.com/wanabot/wanabot-go/internal/errors"
	"github.com/wanabot/wanabot-go/internal/keyboard"
)

// weekBounds is the payload of a book.week button: the ISO dates of the
// Monday and Sunday of one week. Keys stay one letter to respect the
// callback size budget.
type weekBounds struct {
	From string `json:"f"`
	To   string `json:"t"`
}

// daySlot is the payload of a book.day button once a date is fixed, and of
// a book.slot button once a time is fixed.
type daySlot struct {
	Date string `json:"d"`
	Time string `json:"t,omitempty"`
}

// courtChoice is the payload of a book.court button: the wanaplay booking
// id of a free court plus the date the reservation lands on.
type courtChoice struct {
	BookingID string `json:"b"`
	Date      string `json:"d"`
}

var weekLabels = []string{"this week", "next week", "week after next"}

// bookCommand starts the book-court wizard with a three-week range menu.
func (h *Handler) bookCommand(_ context.Context, _ bot.Chat, _ string) (*bot.Result, error) {
	monday := startOfWeek(h.now())

	items := make([]keyboard.Item, 0, len(weekLabels))
	for i, label := range weekLabels {
		from := monday.AddDate(0, 0, 7*i)
		bounds := weekBounds{
			From: from.Format(isoDateLayout),
			To:   from.AddDate(0, 0, 6).Format(isoDateLayout),
		}
		item, err := menuItem(label, tagBookWeek, bounds)
		if err != nil {
			return nil, apperrors.Wrap("dialog", "build_menu", err, "could not build the week menu")
		}
		items = append(items, item)
	}

	return &bot.Result{
		Text: "choose a week",
		Menu: keyboard.Pack(items, keyboard.CountPolicy{MaxPerRow: 1}),
	}, nil
}

// bookWeekCallback expands the chosen week into one button per day.
func (h *Handler) bookWeekCallback(_ context.Context, _ bot.Chat, data json.RawMessage) (*bot.Result, error) {
	var bounds weekBounds
	if err := json.Unmarshal(data, &bounds); err != nil || bounds.From == "" || bounds.To == "" {
		return nil, fmt.Errorf("%w: expected week bounds, got %s", apperrors.ErrMalformedCallback, data)
	}

	from, err := time.Parse(isoDateLayout, bounds.From)
	if err != nil {
		return nil, fmt.Errorf("%w: bad week start %q", apperrors.ErrMalformedCallback, bounds.From)
	}
	to, err := time.Parse(isoDateLayout, bounds.To)
	if err != nil {
		return nil, fmt.Errorf("%w: bad week end %q", apperrors.ErrMalformedCallback, bounds.To)
	}

	var items []keyboard.Item
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		item, err := menuItem(day.Weekday().String(), tagBookDay, daySlot{Date: day.Format(isoDateLayout)})
		if err != nil {
			return nil, apperrors.Wrap("dialog", "build_menu", err, "could not build the day menu")
		}
		items = append(items, item)
	}

	return &bot.Result{
		Text: "choose a day",
		Menu: keyboard.Pack(items, keyboard.CountPolicy{MaxPerRow: h.cfg.WeekdaysPerRow}),
	}, nil
}

// bookDayCallback fetches the open time slots of the chosen date.
func (h *Handler) bookDayCallback(ctx context.Context, _ bot.Chat, data json.RawMessage) (*bot.Result, error) {
	var sel daySlot
	if err := json.Unmarshal(data, &sel); err != nil || sel.Date == "" {
		return nil, fmt.Errorf("%w: expected a date, got %s", apperrors.ErrMalformedCallback, data)
	}

	slots, err := h.booker.TimeSlots(ctx, sel.Date)
	if err != nil {
		return nil, apperrors.Wrapf("dialog", "list_time_slots", err, "could not fetch time slots for %s", sel.Date)
	}
	if len(slots) == 0 {
		return &bot.Result{Text: "no time slots available"}, nil
	}

	items := make([]keyboard.Item, 0, len(slots))
	for _, slot := range slots {
		item, err := menuItem(slot, tagBookSlot, daySlot{Date: sel.Date, Time: slot})
		if err != nil {
			return nil, apperrors.Wrap("dialog", "build_menu", err, "could not build the time slot menu")
		}
		items = append(items, item)
	}

	return &bot.Result{
		Text: "choose a time slot",
		Menu: keyboard.Pack(items, keyboard.CountPolicy{MaxPerRow: h.cfg.TimeSlotsPerRow}),
	}, nil
}

// bookSlotCallback lists the free courts of the chosen date and time.
func (h *Handler) bookSlotCallback(ctx context.Context, _ bot.Chat, data json.RawMessage) (*bot.Result, error) {
	var sel daySlot
	if err := json.Unmarshal(data, &sel); err != nil || sel.Date == "" || sel.Time == "" {
		return nil, fmt.Errorf("%w: expected a date and time, got %s", apperrors.ErrMalformedCallback, data)
	}

	courts, err := h.booker.AvailableCourts(ctx, sel.Date+" "+sel.Time)
	if err != nil {
		return nil, apperrors.Wrapf("dialog", "list_courts", err, "could not fetch courts for %s %s", sel.Date, sel.Time)
	}
	if len(courts) == 0 {
		return &bot.Result{Text: "no courts available"}, nil
	}

	items := make([]keyboard.Item, 0, len(courts))
	for _, c := range courts {
		choice := courtChoice{BookingID: c.BookingID, Date: sel.Date}
		item, err := menuItem(fmt.Sprintf("court %d", c.CourtNumber), tagBookCourt, choice)
		if err != nil {
			return nil, apperrors.Wrap("dialog", "build_menu", err, "could not build the court menu")
		}
		items = append(items, item)
	}

	return &bot.Result{
		Text: "choose a court",
		Menu: keyboard.Pack(items, keyboard.CountPolicy{MaxPerRow: h.cfg.WeekdaysPerRow}),
	}, nil
}

// bookCourtCallback places the reservation. Terminal step of the wizard.
func (h *Handler) bookCourtCallback(ctx context.Context, _ bot.Chat, data json.RawMessage) (*bot.Result, error) {
	var choice courtChoice
	if err := json.Unmarshal(data, &choice); err != nil || choice.BookingID == "" || choice.Date == "" {
		return nil, fmt.Errorf("%w: expected a court choice, got %s", apperrors.ErrMalformedCallback, data)
	}

	if err := h.booker.CreateBooking(ctx, choice.BookingID, choice.Date); err != nil {
		return nil, apperrors.Wrap("dialog", "create_booking", err, "could not book the court")
	}
	return &bot.Result{Text: "ok"}, nil
}

// startOfWeek truncates t to the Monday of its week.
func startOfWeek(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location())
}
