package bot

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/wanabot/wanabot-go/internal/errors"
)

// MaxPayloadLength is the hard ceiling the transport imposes on a button's
// callback payload, in bytes (Telegram callback_data limit). Handlers must
// keep encoded payloads under it, e.g. by embedding a grouped key instead
// of a full id list.
const MaxPayloadLength = 64

// envelope is the wire form of a callback payload: a short action tag plus
// an arbitrary JSON value. Keys are single letters to spare the budget.
type envelope struct {
	Action string          `json:"a"`
	Data   json.RawMessage `json:"d,omitempty"`
}

// EncodePayload packs an action tag and a JSON-serializable value into a
// button payload string. Returns ErrPayloadTooLarge when the encoded form
// exceeds MaxPayloadLength, so an oversized payload fails while the menu is
// being built rather than producing a dead button.
func EncodePayload(tag string, data any) (string, error) {
	if tag == "" {
		return "", fmt.Errorf("encode payload: empty action tag")
	}

	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return "", fmt.Errorf("encode payload data for %q: %w", tag, err)
		}
		raw = encoded
	}

	payload, err := json.Marshal(envelope{Action: tag, Data: raw})
	if err != nil {
		return "", fmt.Errorf("encode payload for %q: %w", tag, err)
	}

	if len(payload) > MaxPayloadLength {
		return "", fmt.Errorf("payload for %q is %d bytes (max %d): %w",
			tag, len(payload), MaxPayloadLength, apperrors.ErrPayloadTooLarge)
	}

	return string(payload), nil
}

// DecodePayload unpacks a button payload into its action tag and raw data.
// Decoding is idempotent: the same payload always yields the same pair.
// Returns ErrMalformedCallback when the payload is not valid encoded data.
func DecodePayload(payload string) (string, json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return "", nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedCallback, err)
	}
	if env.Action == "" {
		return "", nil, fmt.Errorf("%w: missing action tag", apperrors.ErrMalformedCallback)
	}
	return env.Action, env.Data, nil
}
