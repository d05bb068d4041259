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
	"github.com/wanabot/wanabot-go/internal/keyboard"
)

// Time-slot menu bounds: slots run from firstSlot to lastSlot inclusive,
// one every SlotDuration.
const (
	firstSlot = "09:00"
	lastSlot  = "23:00"
)

var weekdays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// botsCommand renders all bots and their statuses as a monospace table.
func (h *Handler) botsCommand(ctx context.Context, _ bot.Chat, _ string) (*bot.Result, error) {
	bots, err := h.booker.Bots(ctx)
	if err != nil {
		return nil, apperrors.Wrap("dialog", "list_bots", err, "could not fetch bots")
	}

	var sb strings.Builder
	sb.WriteString("<pre>\n")
	sb.WriteString("       Name         | Status\n")
	sb.WriteString(" ------------------ | ------\n")
	if len(bots) == 0 {
		sb.WriteString("no bots found\n")
	} else {
		for _, b := range bots {
			status := " ☐ "
			if b.Status == booker.StatusRunning {
				status = " ☑ "
			}
			fmt.Fprintf(&sb, "%-19s |%s\n", b.Name, status)
		}
	}
	sb.WriteString("</pre>")

	return &bot.Result{Text: sb.String(), HTML: true}, nil
}

// deployCommand starts all created bots.
func (h *Handler) deployCommand(ctx context.Context, _ bot.Chat, _ string) (*bot.Result, error) {
	if err := h.booker.DeployBots(ctx); err != nil {
		return nil, apperrors.Wrap("dialog", "deploy_bots", err, "could not deploy bots")
	}
	return &bot.Result{Text: "ok"}, nil
}

// addCommand starts the add-bot wizard with a weekday menu.
func (h *Handler) addCommand(_ context.Context, _ bot.Chat, _ string) (*bot.Result, error) {
	items := make([]keyboard.Item, 0, len(weekdays))
	for _, day := range weekdays {
		item, err := menuItem(day, tagAddDay, strings.ToLower(day))
		if err != nil {
			return nil, apperrors.Wrap("dialog", "build_menu", err, "could not build the weekday menu")
		}
		items = append(items, item)
	}

	return &bot.Result{
		Text: "choose a day",
		Menu: keyboard.Pack(items, keyboard.CountPolicy{MaxPerRow: h.cfg.WeekdaysPerRow}),
	}, nil
}

// addDayCallback presents the time-slot menu for the chosen weekday.
// Each button embeds the fully composed bot name, so the terminal step
// needs nothing else.
func (h *Handler) addDayCallback(_ context.Context, _ bot.Chat, data json.RawMessage) (*bot.Result, error) {
	var day string
	if err := json.Unmarshal(data, &day); err != nil || day == "" {
		return nil, fmt.Errorf("%w: expected a weekday, got %s", apperrors.ErrMalformedCallback, data)
	}

	var items []keyboard.Item
	slot, _ := time.Parse(courtTimeLayout, firstSlot)
	last, _ := time.Parse(courtTimeLayout, lastSlot)
	for !slot.After(last) {
		label := slot.Format(courtTimeLayout)
		name := fmt.Sprintf("bot_%s_%s", day, slot.Format("15_04"))
		item, err := menuItem(label, tagAddBot, name)
		if err != nil {
			return nil, apperrors.Wrap("dialog", "build_menu", err, "could not build the time slot menu")
		}
		items = append(items, item)
		slot = slot.Add(SlotDuration)
	}

	return &bot.Result{
		Text: "choose a time slot",
		Menu: keyboard.Pack(items, keyboard.CountPolicy{MaxPerRow: h.cfg.TimeSlotsPerRow}),
	}, nil
}

// addBotCallback creates the bot named by the pressed button.
// Names look like "bot_monday_09_40"; the week day and court time are
// recovered from the name itself.
func (h *Handler) addBotCallback(ctx context.Context, _ bot.Chat, data json.RawMessage) (*bot.Result, error) {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return nil, fmt.Errorf("%w: expected a bot name, got %s", apperrors.ErrMalformedCallback, data)
	}

	parts := strings.Split(name, "_")
	if len(parts) != 4 || parts[0] != "bot" {
		return nil, fmt.Errorf("%w: unexpected bot name %q", apperrors.ErrMalformedCallback, name)
	}

	newBot := booker.Bot{
		Name:      name,
		WeekDay:   capitalize(parts[1]),
		CourtTime: parts[2] + ":" + parts[3],
		Status:    booker.StatusCreated,
	}
	if err := h.booker.CreateBot(ctx, newBot); err != nil {
		return nil, apperrors.Wrapf("dialog", "create_bot", err, "could not create %s", name)
	}
	return &bot.Result{Text: "ok"}, nil
}

// deleteCommand presents one button per existing bot.
func (h *Handler) deleteCommand(ctx context.Context, _ bot.Chat, _ string) (*bot.Result, error) {
	bots, err := h.booker.Bots(ctx)
	if err != nil {
		return nil, apperrors.Wrap("dialog", "list_bots", err, "could not fetch bots")
	}
	if len(bots) == 0 {
		return &bot.Result{Text: "no bots found"}, nil
	}

	items := make([]keyboard.Item, 0, len(bots))
	for _, b := range bots {
		item, err := menuItem(b.Name, tagDelete, b.Name)
		if err != nil {
			return nil, apperrors.Wrap("dialog", "build_menu", err, "could not build the bot menu")
		}
		items = append(items, item)
	}

	return &bot.Result{
		Text: "choose a bot to delete",
		Menu: keyboard.Pack(items, keyboard.CountPolicy{MaxPerRow: h.cfg.BotsPerRow}),
	}, nil
}

// deleteCallback removes the chosen bot.
func (h *Handler) deleteCallback(ctx context.Context, _ bot.Chat, data json.RawMessage) (*bot.Result, error) {
	var name string
	if err := json.Unmarshal(data, &name); err != nil || name == "" {
		return nil, fmt.Errorf("%w: expected a bot name, got %s", apperrors.ErrMalformedCallback, data)
	}

	if err := h.booker.DeleteBot(ctx, name); err != nil {
		return nil, apperrors.Wrapf("dialog", "delete_bot", err, "could not delete %s", name)
	}
	return &bot.Result{Text: "ok"}, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
