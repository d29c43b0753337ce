package service

import (
	"context"
	"log/slog"

	"github.com/playmesh/connectfour-backend/internal/apperror"
	"github.com/playmesh/connectfour-backend/internal/protocol"
)

// ChatService relays sanitized chat messages to a room.
type ChatService struct {
	logger *slog.Logger

	broadcaster Broadcaster
	scrubber    Scrubber
}

func NewChatService(logger *slog.Logger, broadcaster Broadcaster, scrubber Scrubber) *ChatService {
	return &ChatService{
		logger:      logger.With("component", "chat"),
		broadcaster: broadcaster,
		scrubber:    scrubber,
	}
}

// SendChatMessage - validates the payload, scrubs the username and message
// and broadcasts the result to the whole room.
func (that *ChatService) SendChatMessage(_ context.Context, senderID string, payload *protocol.ChatPayload) error {
	if payload == nil || payload.Room == nil || payload.Username == nil || payload.Message == nil {
		return apperror.ErrInvalidPayload
	}

	room := *payload.Room
	username := that.scrubber.Scrub(*payload.Username)
	message := that.scrubber.Scrub(*payload.Message)

	that.broadcaster.ToRoom(room, protocol.EventSendChatMessageResponse, protocol.ChatResponse{
		Result:   protocol.ResultSuccess,
		Username: username,
		Room:     room,
		Message:  message,
	})

	that.logger.Debug("chat message relayed", "connection", senderID, "room", room)

	return nil
}
