package bot

import (
	"context"
	"errors"

	apperrors "github.com/wanabot/wanabot-go/internal/errors"
	"github.com/wanabot/wanabot-go/internal/logger"
	"github.com/wanabot/wanabot-go/internal/metrics"
)

// maxAckTextLength keeps callback acknowledgement notices short; Telegram
// caps them at 200 characters.
const maxAckTextLength = 200

// Router routes decoded button presses to their step handlers and turns
// the outcome into visible effects on the gateway.
//
// Per callback event: received -> decoded -> dispatched -> completed
// (result sent, press acknowledged, menu deleted) or failed (press
// acknowledged with an error notice, menu kept so the user can retry).
// The chat is never left without feedback.
type Router struct {
	registry *Registry
	gateway  Gateway
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// NewRouter creates a router over a fully populated registry.
// The metrics recorder may be nil.
func NewRouter(registry *Registry, gateway Gateway, log *logger.Logger, m *metrics.Metrics) *Router {
	return &Router{
		registry: registry,
		gateway:  gateway,
		log:      log.WithModule("router"),
		metrics:  m,
	}
}

// Route handles one button-press event to completion.
func (r *Router) Route(ctx context.Context, payload string, chat Chat) {
	tag, data, err := DecodePayload(payload)
	if err != nil {
		r.log.WithChatID(chat.ID).WithError(err).Warn("Malformed callback payload")
		r.metrics.RecordCallback("malformed", "failed")
		r.fail(ctx, chat, "that button didn't make sense, try the menu again")
		return
	}

	log := r.log.WithChatID(chat.ID).WithField("action", tag)

	handler, ok := r.registry.Callback(tag)
	if !ok {
		log.WithError(apperrors.ErrUnknownAction).Warn("No handler for action tag")
		r.metrics.RecordCallback(tag, "failed")
		r.fail(ctx, chat, "this menu is no longer supported, ask for a fresh one")
		return
	}

	result, err := handler(ctx, chat, data)
	if err != nil {
		log.WithError(err).Error("Callback handler failed")
		r.metrics.RecordCallback(tag, "failed")
		r.fail(ctx, chat, apperrors.GetUserMessage(err))
		return
	}

	r.complete(ctx, chat, result, log)
	r.metrics.RecordCallback(tag, "completed")
}

// complete sends the handler's result, acknowledges the press and deletes
// the originating menu so stale buttons cannot be reused with outdated
// state.
func (r *Router) complete(ctx context.Context, chat Chat, result *Result, log *logger.Logger) {
	if result != nil {
		if err := r.send(ctx, chat, result); err != nil {
			log.WithError(err).Error("Failed to deliver handler result")
		}
	}

	ack := ""
	if result != nil && !result.HTML && result.Menu == nil && len(result.Text) <= maxAckTextLength {
		ack = result.Text
	}
	if err := r.gateway.AcknowledgeCallback(ctx, chat.CallbackID, ack); err != nil {
		log.WithError(err).Warn("Failed to acknowledge callback")
	}

	if chat.MessageID != 0 {
		if err := r.gateway.DeleteMessage(ctx, chat.ID, chat.MessageID); err != nil {
			log.WithError(err).Warn("Failed to delete menu message")
		}
	}
}

// send delivers a step result to the chat.
func (r *Router) send(ctx context.Context, chat Chat, result *Result) error {
	var errs []error

	switch {
	case result.Menu != nil:
		errs = append(errs, r.gateway.SendMenu(ctx, chat.ID, result.Text, result.Menu))
	case result.HTML && result.Text != "":
		errs = append(errs, r.gateway.SendHTML(ctx, chat.ID, result.Text))
	case result.Text != "":
		errs = append(errs, r.gateway.SendText(ctx, chat.ID, result.Text))
	}

	if result.File != nil {
		errs = append(errs, r.gateway.SendFile(ctx, chat.ID, result.File.Name, result.File.Data))
	}

	return errors.Join(errs...)
}

// fail acknowledges the press with an error notice and keeps the menu in
// place. If the acknowledgement itself fails, the notice is sent as a plain
// message instead: silence is a design bug.
func (r *Router) fail(ctx context.Context, chat Chat, userMessage string) {
	if err := r.gateway.AcknowledgeCallback(ctx, chat.CallbackID, userMessage); err != nil {
		r.log.WithChatID(chat.ID).WithError(err).Warn("Failed to acknowledge callback with error")
		if err := r.gateway.SendText(ctx, chat.ID, userMessage); err != nil {
			r.log.WithChatID(chat.ID).WithError(err).Error("Failed to deliver error feedback")
		}
	}
}
