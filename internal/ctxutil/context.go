// Package ctxutil provides type-safe context value management.
// Uses private key types to prevent collisions.
package ctxutil

import (
	"context"
)

type contextKey string

const (
	chatIDKey    contextKey = "ctxutil.chatID"
	requestIDKey contextKey = "ctxutil.requestID"
)

// WithChatID adds a chat ID to the context.
// Chat ID identifies the Telegram conversation and is used for
// rate limiting and log correlation.
func WithChatID(ctx context.Context, chatID int64) context.Context {
	return context.WithValue(ctx, chatIDKey, chatID)
}

// GetChatID retrieves the chat ID from the context.
// Returns the chat ID and true if found, zero and false otherwise.
func GetChatID(ctx context.Context) (int64, bool) {
	chatID, ok := ctx.Value(chatIDKey).(int64)
	return chatID, ok
}

// WithRequestID adds a request ID to the context for tracing.
// Request ID is generated per incoming update for log correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
// Returns the request ID and true if found, empty string and false otherwise.
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	return requestID, ok
}
