// Package bot provides the dialog engine core: the stateless callback
// payload codec, the action registry, and the router that turns button
// presses into visible effects on the messaging gateway.
//
// The engine keeps no server-side session. The entire state of a wizard
// step travels inside the pressed button's payload; every event is decoded,
// dispatched and answered independently.
package bot

import (
	"context"
	"encoding/json"

	"github.com/wanabot/wanabot-go/internal/keyboard"
)

// Chat identifies the conversation an event came from, plus the transport
// handles needed to answer it. MessageID and CallbackID are only set for
// button-press events.
type Chat struct {
	ID         int64
	MessageID  int    // message carrying the menu that produced the event
	CallbackID string // id used to acknowledge the button press
}

// Gateway is the messaging transport as seen by the dialog engine.
// Implementations live outside the core (see internal/telegram).
type Gateway interface {
	// SendText sends a plain text message to the chat.
	SendText(ctx context.Context, chatID int64, text string) error

	// SendHTML sends a text message rendered with HTML markup.
	SendHTML(ctx context.Context, chatID int64, text string) error

	// SendMenu sends a text message with an inline keyboard attached.
	SendMenu(ctx context.Context, chatID int64, text string, grid keyboard.Grid) error

	// SendFile delivers a document attachment to the chat.
	SendFile(ctx context.Context, chatID int64, filename string, data []byte) error

	// AcknowledgeCallback answers a button press, optionally with a short
	// notice shown to the user.
	AcknowledgeCallback(ctx context.Context, callbackID, text string) error

	// DeleteMessage removes a previously sent message from the chat.
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// File is a document attachment produced by a terminal step.
type File struct {
	Name string
	Data []byte
}

// Result is what a dialog step produces: either the next menu of the
// wizard, or the outcome of a terminal action. Exactly one of Menu or
// Text/File is expected to be meaningful.
type Result struct {
	Text string        // message to send (menu prompt when Menu is set)
	HTML bool          // render Text as HTML
	Menu keyboard.Grid // next menu to display, nil for terminal steps
	File *File         // optional attachment (calendar invite)
}

// CallbackFunc handles a decoded button press. The data argument is the
// raw JSON value carried in the payload; handlers decode it themselves.
type CallbackFunc func(ctx context.Context, chat Chat, data json.RawMessage) (*Result, error)

// CommandFunc handles a chat command with its trailing arguments.
type CommandFunc func(ctx context.Context, chat Chat, args string) (*Result, error)
