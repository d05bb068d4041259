package bot

import (
	"fmt"
	"sort"
)

// Registry maps action tags to callback handlers and command names to
// command handlers. It is populated once at startup and read-only
// afterwards, so no locking is needed on the dispatch path.
type Registry struct {
	callbacks map[string]CallbackFunc
	commands  map[string]CommandFunc
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{
		callbacks: make(map[string]CallbackFunc),
		commands:  make(map[string]CommandFunc),
	}
}

// RegisterCallback binds an action tag to a handler.
// A duplicate or empty tag is a programming error and panics at startup.
func (r *Registry) RegisterCallback(tag string, fn CallbackFunc) {
	if tag == "" || fn == nil {
		panic("bot: RegisterCallback requires a tag and a handler")
	}
	if _, exists := r.callbacks[tag]; exists {
		panic(fmt.Sprintf("bot: action tag %q registered twice", tag))
	}
	r.callbacks[tag] = fn
}

// RegisterCommand binds a command name to a handler.
// A duplicate or empty name is a programming error and panics at startup.
func (r *Registry) RegisterCommand(name string, fn CommandFunc) {
	if name == "" || fn == nil {
		panic("bot: RegisterCommand requires a name and a handler")
	}
	if _, exists := r.commands[name]; exists {
		panic(fmt.Sprintf("bot: command %q registered twice", name))
	}
	r.commands[name] = fn
}

// Callback looks up the handler for an action tag.
func (r *Registry) Callback(tag string) (CallbackFunc, bool) {
	fn, ok := r.callbacks[tag]
	return fn, ok
}

// Command looks up the handler for a command name.
func (r *Registry) Command(name string) (CommandFunc, bool) {
	fn, ok := r.commands[name]
	return fn, ok
}

// CommandNames returns all registered command names, sorted.
func (r *Registry) CommandNames() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
