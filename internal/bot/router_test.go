package bot

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/wanabot/wanabot-go/internal/errors"
	"github.com/wanabot/wanabot-go/internal/keyboard"
	"github.com/wanabot/wanabot-go/internal/logger"
)

// fakeGateway records every effect the router produces.
type fakeGateway struct {
	texts    []string
	htmls    []string
	menus    []keyboard.Grid
	files    []string
	acks     []string
	deleted  []int
	ackErr   error
	sendErr  error
}

func (g *fakeGateway) SendText(_ context.Context, _ int64, text string) error {
	g.texts = append(g.texts, text)
	return g.sendErr
}

func (g *fakeGateway) SendHTML(_ context.Context, _ int64, text string) error {
	g.htmls = append(g.htmls, text)
	return g.sendErr
}

func (g *fakeGateway) SendMenu(_ context.Context, _ int64, _ string, grid keyboard.Grid) error {
	g.menus = append(g.menus, grid)
	return g.sendErr
}

func (g *fakeGateway) SendFile(_ context.Context, _ int64, filename string, _ []byte) error {
	g.files = append(g.files, filename)
	return g.sendErr
}

func (g *fakeGateway) AcknowledgeCallback(_ context.Context, _ string, text string) error {
	if g.ackErr != nil {
		return g.ackErr
	}
	g.acks = append(g.acks, text)
	return nil
}

func (g *fakeGateway) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	g.deleted = append(g.deleted, messageID)
	return nil
}

func testChat() Chat {
	return Chat{ID: 7, MessageID: 99, CallbackID: "cb-1"}
}

func newTestRouter(registry *Registry, gateway Gateway) *Router {
	return NewRouter(registry, gateway, logger.New("error"), nil)
}

func TestRouteSuccessDeletesMenu(t *testing.T) {
	t.Parallel()

	deletes := 0
	registry := NewRegistry()
	registry.RegisterCallback("delete", func(_ context.Context, _ Chat, data json.RawMessage) (*Result, error) {
		var name string
		require.NoError(t, json.Unmarshal(data, &name))
		assert.Equal(t, "bot_monday_09_00", name)
		deletes++
		return &Result{Text: "ok"}, nil
	})

	gateway := &fakeGateway{}
	router := newTestRouter(registry, gateway)

	payload, err := EncodePayload("delete", "bot_monday_09_00")
	require.NoError(t, err)

	router.Route(context.Background(), payload, testChat())

	// Exactly one terminal action, one acknowledgement, one menu deletion.
	assert.Equal(t, 1, deletes)
	require.Len(t, gateway.acks, 1)
	assert.Equal(t, []int{99}, gateway.deleted)
	assert.Equal(t, []string{"ok"}, gateway.texts)
}

func TestRouteUnknownActionKeepsMenu(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{}
	router := newTestRouter(NewRegistry(), gateway)

	router.Route(context.Background(), `{"a":"bogus","d":null}`, testChat())

	assert.Empty(t, gateway.deleted, "menu must stay in place on unknown action")
	require.Len(t, gateway.acks, 1, "user must still get feedback")
	assert.NotEmpty(t, gateway.acks[0])
	assert.Empty(t, gateway.texts)
}

func TestRouteMalformedPayloadKeepsMenu(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{}
	router := newTestRouter(NewRegistry(), gateway)

	router.Route(context.Background(), "press me", testChat())

	assert.Empty(t, gateway.deleted)
	require.Len(t, gateway.acks, 1)
}

func TestRouteHandlerFailureKeepsMenu(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.RegisterCallback("cancel", func(context.Context, Chat, json.RawMessage) (*Result, error) {
		return nil, apperrors.Wrap("dialog", "cancel", errors.New("status 502"), "could not cancel the booking")
	})

	gateway := &fakeGateway{}
	router := newTestRouter(registry, gateway)

	payload, err := EncodePayload("cancel", []string{"101"})
	require.NoError(t, err)

	router.Route(context.Background(), payload, testChat())

	assert.Empty(t, gateway.deleted, "menu must stay for retry")
	require.Len(t, gateway.acks, 1)
	assert.Equal(t, "could not cancel the booking", gateway.acks[0])
}

func TestRouteNextMenuResult(t *testing.T) {
	t.Parallel()

	grid := keyboard.Grid{{{Label: "09:00", Payload: `{"a":"x"}`}}}
	registry := NewRegistry()
	registry.RegisterCallback("add.day", func(context.Context, Chat, json.RawMessage) (*Result, error) {
		return &Result{Text: "choose a time slot", Menu: grid}, nil
	})

	gateway := &fakeGateway{}
	router := newTestRouter(registry, gateway)

	payload, err := EncodePayload("add.day", "monday")
	require.NoError(t, err)

	router.Route(context.Background(), payload, testChat())

	require.Len(t, gateway.menus, 1)
	assert.Equal(t, []int{99}, gateway.deleted, "old menu is replaced by the next step")
	require.Len(t, gateway.acks, 1)
	assert.Empty(t, gateway.acks[0], "menu results do not echo the prompt in the ack")
}

func TestRouteFileResult(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.RegisterCallback("accept", func(context.Context, Chat, json.RawMessage) (*Result, error) {
		return &Result{Text: "ok", File: &File{Name: "invite.squash.ics", Data: []byte("BEGIN:VCALENDAR")}}, nil
	})

	gateway := &fakeGateway{}
	router := newTestRouter(registry, gateway)

	payload, err := EncodePayload("accept", []string{"101", "102"})
	require.NoError(t, err)

	router.Route(context.Background(), payload, testChat())

	assert.Equal(t, []string{"invite.squash.ics"}, gateway.files)
	assert.Equal(t, []string{"ok"}, gateway.texts)
	assert.Len(t, gateway.deleted, 1)
}

func TestRouteFallsBackToTextWhenAckFails(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{ackErr: errors.New("query too old")}
	router := newTestRouter(NewRegistry(), gateway)

	router.Route(context.Background(), `{"a":"bogus"}`, testChat())

	require.Len(t, gateway.texts, 1, "failed ack must fall back to a plain message")
}
