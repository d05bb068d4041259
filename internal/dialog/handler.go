package dialog

import (
	"context"
	"time"

	"github.com/wanabot/wanabot-go/internal/booker"
	"github.com/wanabot/wanabot-go/internal/bot"
	"github.com/wanabot/wanabot-go/internal/config"
	"github.com/wanabot/wanabot-go/internal/keyboard"
	"github.com/wanabot/wanabot-go/internal/logger"
)

// Action tags carried in callback payloads. One tag per wizard step.
const (
	tagAddDay    = "add.day"
	tagAddBot    = "add.bot"
	tagDelete    = "delete"
	tagCancel    = "cancel"
	tagAccept    = "accept"
	tagBookWeek  = "book.week"
	tagBookDay   = "book.day"
	tagBookSlot  = "book.slot"
	tagBookCourt = "book.court"
)

// Booker is the slice of the booker API the dialog handlers consume.
// *booker.Client satisfies it; tests substitute a fake.
type Booker interface {
	Bookings(ctx context.Context) ([]booker.Booking, error)
	CancelBooking(ctx context.Context, id string) error
	CreateBooking(ctx context.Context, bookingID, date string) error
	TimeSlots(ctx context.Context, date string) ([]string, error)
	AvailableCourts(ctx context.Context, datetime string) ([]booker.Court, error)
	Bots(ctx context.Context) ([]booker.Bot, error)
	CreateBot(ctx context.Context, b booker.Bot) error
	DeleteBot(ctx context.Context, name string) error
	DeployBots(ctx context.Context) error
}

// Handler holds the dialog step handlers for every wizard.
// It closes only over outbound clients and layout configuration; all dialog
// state travels inside callback payloads.
type Handler struct {
	booker Booker
	log    *logger.Logger
	cfg    config.BotConfig
	now    func() time.Time
}

// HandlerOption is a functional option for configuring Handler.
type HandlerOption func(*Handler)

// WithClock overrides the time source used by the book-court wizard.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.now = now
	}
}

// NewHandler creates the dialog handler set.
func NewHandler(b Booker, log *logger.Logger, cfg config.BotConfig, opts ...HandlerOption) *Handler {
	h := &Handler{
		booker: b,
		log:    log.WithModule("dialog"),
		cfg:    cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register binds every command and wizard step to the registry.
// Called once at startup; the registry is immutable afterwards.
func (h *Handler) Register(r *bot.Registry) {
	r.RegisterCommand("bookings", h.bookingsCommand)
	r.RegisterCommand("bots", h.botsCommand)
	r.RegisterCommand("deploy", h.deployCommand)
	r.RegisterCommand("add", h.addCommand)
	r.RegisterCommand("delete", h.deleteCommand)
	r.RegisterCommand("cancel", h.cancelCommand)
	r.RegisterCommand("accept", h.acceptCommand)
	r.RegisterCommand("book", h.bookCommand)
	r.RegisterCommand("help", h.helpCommand)

	r.RegisterCallback(tagAddDay, h.addDayCallback)
	r.RegisterCallback(tagAddBot, h.addBotCallback)
	r.RegisterCallback(tagDelete, h.deleteCallback)
	r.RegisterCallback(tagCancel, h.cancelCallback)
	r.RegisterCallback(tagAccept, h.acceptCallback)
	r.RegisterCallback(tagBookWeek, h.bookWeekCallback)
	r.RegisterCallback(tagBookDay, h.bookDayCallback)
	r.RegisterCallback(tagBookSlot, h.bookSlotCallback)
	r.RegisterCallback(tagBookCourt, h.bookCourtCallback)
}

// menuItem builds one button, failing fast when the payload does not fit
// the transport budget.
func menuItem(label, tag string, data any) (keyboard.Item, error) {
	payload, err := bot.EncodePayload(tag, data)
	if err != nil {
		return keyboard.Item{}, err
	}
	return keyboard.Item{Label: label, Payload: payload}, nil
}

const helpText = `accept - accept court(s) attending
add - create a bot for day of week at specific slot time
book - book a court
bookings - display all bookings
bots - display all bots and their statuses
cancel - cancel a booking
delete - delete a bot
deploy - start all the created bots
help - display this message`

func (h *Handler) helpCommand(context.Context, bot.Chat, string) (*bot.Result, error) {
	return &bot.Result{Text: helpText}, nil
}
