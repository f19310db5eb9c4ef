package ai

import (
	"context"

	"agendia/models"
)

// ChatService answers a visitor message, optionally performing agenda
// operations (availability lookups, bookings) on the visitor's behalf.
type ChatService interface {
	ProcessMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
}

// ContextStore persists per-session conversation history between requests.
type ContextStore interface {
	Get(ctx context.Context, sessionID string) (*models.ChatContext, error)
	Set(ctx context.Context, sessionID string, chatCtx *models.ChatContext) error
	Clear(ctx context.Context, sessionID string) error
}
