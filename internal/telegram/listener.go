package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/wanabot/wanabot-go/internal/bot"
	"github.com/wanabot/wanabot-go/internal/ctxutil"
	apperrors "github.com/wanabot/wanabot-go/internal/errors"
	"github.com/wanabot/wanabot-go/internal/logger"
	"github.com/wanabot/wanabot-go/internal/metrics"
	"github.com/wanabot/wanabot-go/internal/ratelimit"
	"github.com/wanabot/wanabot-go/internal/sentry"
)

const (
	pollTimeoutSeconds = 30

	unknownCommandReply = "Sorry, I didn't understand that command. Try /help."
	rateLimitedReply    = "Too many requests, slow down a bit."
)

// Listener long-polls Telegram for updates and dispatches them.
//
// Updates are handled concurrently across chats but serialized within one
// chat, so a user's wizard steps cannot interleave. Per-chat rate limiting
// drops floods with a notice instead of queueing them.
type Listener struct {
	gateway  *Gateway
	registry *bot.Registry
	router   *bot.Router
	limiter  *ratelimit.PerChatLimiter
	log      *logger.Logger
	metrics  *metrics.Metrics

	chatLocks sync.Map // chat id -> *sync.Mutex
	wg        sync.WaitGroup
}

// NewListener wires the update loop. The metrics recorder may be nil.
func NewListener(
	gateway *Gateway,
	registry *bot.Registry,
	router *bot.Router,
	limiter *ratelimit.PerChatLimiter,
	log *logger.Logger,
	m *metrics.Metrics,
) *Listener {
	return &Listener{
		gateway:  gateway,
		registry: registry,
		router:   router,
		limiter:  limiter,
		log:      log.WithModule("listener"),
		metrics:  m,
	}
}

// Run polls for updates until ctx is cancelled, then waits for in-flight
// handlers to drain.
func (l *Listener) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeoutSeconds
	updates := l.gateway.api.GetUpdatesChan(cfg)

	l.log.Info("Listening for updates")

	for {
		select {
		case <-ctx.Done():
			l.gateway.api.StopReceivingUpdates()
			l.wg.Wait()
			l.log.Info("Update loop stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				l.wg.Wait()
				return nil
			}
			l.dispatch(ctx, update)
		}
	}
}

// dispatch classifies one update and hands it to a goroutine holding the
// chat's lock.
func (l *Listener) dispatch(ctx context.Context, update tgbotapi.Update) {
	chatID, ok := updateChatID(update)
	if !ok {
		return
	}

	if !l.limiter.Allow(chatID) {
		l.metrics.RecordUpdate(updateType(update), "dropped", 0)
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			if err := l.gateway.SendText(ctx, chatID, rateLimitedReply); err != nil {
				l.log.WithChatID(chatID).WithError(err).Warn("Failed to send rate limit notice")
			}
		}()
		return
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		lock := l.chatLock(chatID)
		lock.Lock()
		defer lock.Unlock()

		l.handle(ctx, update, chatID)
	}()
}

// handle processes one update with panic recovery and timing.
func (l *Listener) handle(ctx context.Context, update tgbotapi.Update, chatID int64) {
	requestID := uuid.NewString()
	ctx = ctxutil.WithRequestID(ctxutil.WithChatID(ctx, chatID), requestID)
	log := l.log.WithChatID(chatID).WithRequestID(requestID)

	kind := updateType(update)
	start := time.Now()
	status := "success"

	defer func() {
		if r := recover(); r != nil {
			status = "error"
			log.WithField("panic", r).Error("Recovered from panic in update handler")
			sentry.CaptureException(fmt.Errorf("panic handling %s update: %v", kind, r))
		}
		l.metrics.RecordUpdate(kind, status, time.Since(start).Seconds())
	}()

	switch {
	case update.CallbackQuery != nil:
		l.router.Route(ctx, update.CallbackQuery.Data, callbackChat(update.CallbackQuery))
	case update.Message != nil && update.Message.IsCommand():
		if !l.handleCommand(ctx, update.Message, log) {
			status = "error"
		}
	}
}

// handleCommand dispatches a chat command through the registry.
func (l *Listener) handleCommand(ctx context.Context, msg *tgbotapi.Message, log *logger.Logger) bool {
	name := msg.Command()
	handler, ok := l.registry.Command(name)
	if !ok {
		log.WithField("command", name).Info("Unknown command")
		if err := l.gateway.SendText(ctx, msg.Chat.ID, unknownCommandReply); err != nil {
			log.WithError(err).Warn("Failed to reply to unknown command")
		}
		return true
	}

	chat := bot.Chat{ID: msg.Chat.ID}
	result, err := handler(ctx, chat, msg.CommandArguments())
	if err != nil {
		log.WithField("command", name).WithError(err).Error("Command handler failed")
		sentry.CaptureException(err)
		if err := l.gateway.SendText(ctx, chat.ID, apperrors.GetUserMessage(err)); err != nil {
			log.WithError(err).Error("Failed to deliver command error")
		}
		return false
	}
	if result == nil {
		return true
	}

	if err := l.deliver(ctx, chat.ID, result); err != nil {
		log.WithField("command", name).WithError(err).Error("Failed to deliver command result")
		return false
	}
	return true
}

// deliver sends a command result to the chat.
func (l *Listener) deliver(ctx context.Context, chatID int64, result *bot.Result) error {
	var errs []error

	switch {
	case result.Menu != nil:
		errs = append(errs, l.gateway.SendMenu(ctx, chatID, result.Text, result.Menu))
	case result.HTML && result.Text != "":
		errs = append(errs, l.gateway.SendHTML(ctx, chatID, result.Text))
	case result.Text != "":
		errs = append(errs, l.gateway.SendText(ctx, chatID, result.Text))
	}

	if result.File != nil {
		errs = append(errs, l.gateway.SendFile(ctx, chatID, result.File.Name, result.File.Data))
	}

	return errors.Join(errs...)
}

// chatLock returns the mutex serializing one chat's updates.
func (l *Listener) chatLock(chatID int64) *sync.Mutex {
	lock, _ := l.chatLocks.LoadOrStore(chatID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// callbackChat extracts the chat coordinates of a button press. The menu
// message can be absent when the press arrives after Telegram expired it.
func callbackChat(cq *tgbotapi.CallbackQuery) bot.Chat {
	chat := bot.Chat{CallbackID: cq.ID}
	if cq.Message != nil {
		chat.ID = cq.Message.Chat.ID
		chat.MessageID = cq.Message.MessageID
	} else if cq.From != nil {
		chat.ID = cq.From.ID
	}
	return chat
}

func updateChatID(update tgbotapi.Update) (int64, bool) {
	switch {
	case update.CallbackQuery != nil:
		chat := callbackChat(update.CallbackQuery)
		return chat.ID, chat.ID != 0
	case update.Message != nil:
		return update.Message.Chat.ID, true
	default:
		return 0, false
	}
}

func updateType(update tgbotapi.Update) string {
	if update.CallbackQuery != nil {
		return "callback"
	}
	return "command"
}
