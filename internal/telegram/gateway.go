// Package telegram adapts the dialog engine to the Telegram Bot API:
// an outbound gateway for messages, menus and files, and a long-polling
// listener that feeds updates into the registry and router.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/wanabot/wanabot-go/internal/keyboard"
	"github.com/wanabot/wanabot-go/internal/logger"
)

// Gateway implements bot.Gateway over the Telegram Bot API.
type Gateway struct {
	api *tgbotapi.BotAPI
	log *logger.Logger
}

// NewGateway authenticates against the Telegram Bot API.
func NewGateway(token string, log *logger.Logger) (*Gateway, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: authenticate bot: %w", err)
	}

	log.WithModule("telegram").WithField("username", api.Self.UserName).Info("Authenticated with Telegram")
	return &Gateway{api: api, log: log.WithModule("telegram")}, nil
}

// SendText sends a plain text message.
func (g *Gateway) SendText(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := g.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return fmt.Errorf("telegram: send message to %d: %w", chatID, err)
	}
	return nil
}

// SendHTML sends a message rendered with Telegram's HTML parse mode.
func (g *Gateway) SendHTML(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := g.api.Send(msg); err != nil {
		return fmt.Errorf("telegram: send html message to %d: %w", chatID, err)
	}
	return nil
}

// SendMenu sends a message with an inline keyboard attached.
func (g *Gateway) SendMenu(ctx context.Context, chatID int64, text string, grid keyboard.Grid) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = toInlineKeyboard(grid)
	if _, err := g.api.Send(msg); err != nil {
		return fmt.Errorf("telegram: send menu to %d: %w", chatID, err)
	}
	return nil
}

// SendFile delivers a document attachment from memory.
func (g *Gateway) SendFile(ctx context.Context, chatID int64, filename string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	if _, err := g.api.Send(doc); err != nil {
		return fmt.Errorf("telegram: send file %q to %d: %w", filename, chatID, err)
	}
	return nil
}

// AcknowledgeCallback answers a button press. A non-empty text shows as a
// toast notification in the client.
func (g *Gateway) AcknowledgeCallback(ctx context.Context, callbackID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := g.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("telegram: answer callback %s: %w", callbackID, err)
	}
	return nil
}

// DeleteMessage removes a previously sent message.
func (g *Gateway) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := g.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("telegram: delete message %d in %d: %w", messageID, chatID, err)
	}
	return nil
}

// toInlineKeyboard converts a packed grid into Telegram's inline keyboard
// markup, row for row.
func toInlineKeyboard(grid keyboard.Grid) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(grid))
	for _, row := range grid {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, item := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(item.Label, item.Payload))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}
