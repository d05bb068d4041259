package bot

import (
	"context"
	"encoding/json"
	"testing"
)

func noopCallback(context.Context, Chat, json.RawMessage) (*Result, error) { return nil, nil }
func noopCommand(context.Context, Chat, string) (*Result, error) { return nil, nil }

func TestRegistryLookup(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.RegisterCallback("delete", noopCallback)
	r.RegisterCommand("bots", noopCommand)

	if _, ok := r.Callback("delete"); !ok {
		t.Error("registered callback not found")
	}
	if _, ok := r.Callback("bogus"); ok {
		t.Error("unregistered tag resolved to a handler")
	}
	if _, ok := r.Command("bots"); !ok {
		t.Error("registered command not found")
	}
}

func TestRegistryDuplicateTagPanics(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.RegisterCallback("add.day", noopCallback)

	defer func() {
		if recover() == nil {
			t.Error("duplicate tag registration should panic")
		}
	}()
	r.RegisterCallback("add.day", noopCallback)
}

func TestRegistryCommandNamesSorted(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.RegisterCommand("help", noopCommand)
	r.RegisterCommand("add", noopCommand)
	r.RegisterCommand("cancel", noopCommand)

	names := r.CommandNames()
	want := []string{"add", "cancel", "help"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
