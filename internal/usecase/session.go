package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/playmesh/connectfour-backend/internal/apperror"
	"github.com/playmesh/connectfour-backend/internal/protocol"
	"github.com/playmesh/connectfour-backend/internal/service"
)

// Session is the single command dispatcher the transport talks to. Every
// inbound message maps to one handler; a handler error becomes exactly one
// fail response on the command's own response event, sent to the sender only.
type Session struct {
	logger *slog.Logger

	matchmaking *service.MatchmakingService
	gameplay    *service.GameplayService
	chat        *service.ChatService
	broadcaster service.Broadcaster

	handlers map[string]commandHandler
}

type commandHandler struct {
	responseEvent string
	handle        func(ctx context.Context, senderID string, payload json.RawMessage) error
}

func NewSession(
	logger *slog.Logger,
	matchmaking *service.MatchmakingService,
	gameplay *service.GameplayService,
	chat *service.ChatService,
	broadcaster service.Broadcaster,
) *Session {
	session := &Session{
		logger:      logger.With("component", "session"),
		matchmaking: matchmaking,
		gameplay:    gameplay,
		chat:        chat,
		broadcaster: broadcaster,
	}

	session.handlers = map[string]commandHandler{
		protocol.ActionJoinRoom: {
			responseEvent: protocol.EventJoinRoomResponse,
			handle:        session.handleJoinRoom,
		},
		protocol.ActionInvite: {
			responseEvent: protocol.EventInviteResponse,
			handle:        session.handleInvite,
		},
		protocol.ActionUninvite: {
			responseEvent: protocol.EventUninvited,
			handle:        session.handleUninvite,
		},
		protocol.ActionGameStart: {
			responseEvent: protocol.EventGameStartResponse,
			handle:        session.handleGameStart,
		},
		protocol.ActionSendChatMessage: {
			responseEvent: protocol.EventSendChatMessageResponse,
			handle:        session.handleSendChatMessage,
		},
		protocol.ActionPlayToken: {
			responseEvent: protocol.EventPlayTokenResponse,
			handle:        session.handlePlayToken,
		},
	}

	return session
}

// HandleCommand - dispatches one inbound message. Unknown actions are logged
// and dropped; a failed command never mutates state and never broadcasts.
func (that *Session) HandleCommand(ctx context.Context, senderID string, message *protocol.Message) {
	handler, ok := that.handlers[message.Action]
	if !ok {
		that.logger.Warn("unknown action", "action", message.Action, "connection", senderID)
		return
	}

	if err := handler.handle(ctx, senderID, message.Payload); err != nil {
		that.logger.Info("command failed", "action", message.Action, "connection", senderID, "error", err)
		that.broadcaster.ToConn(senderID, handler.responseEvent, protocol.NewFail(err.Error()))
	}
}

// Disconnect - forwards the implicit disconnect command.
func (that *Session) Disconnect(ctx context.Context, senderID string) {
	that.gameplay.Disconnect(ctx, senderID)
}

func (that *Session) handleJoinRoom(ctx context.Context, senderID string, raw json.RawMessage) error {
	payload, err := decode[protocol.JoinRoomPayload](raw)
	if err != nil {
		return err
	}

	return that.gameplay.JoinRoom(ctx, senderID, payload)
}

func (that *Session) handleInvite(ctx context.Context, senderID string, raw json.RawMessage) error {
	payload, err := decode[protocol.InvitePayload](raw)
	if err != nil {
		return err
	}

	return that.matchmaking.Invite(ctx, senderID, payload)
}

func (that *Session) handleUninvite(ctx context.Context, senderID string, raw json.RawMessage) error {
	payload, err := decode[protocol.InvitePayload](raw)
	if err != nil {
		return err
	}

	return that.matchmaking.Uninvite(ctx, senderID, payload)
}

func (that *Session) handleGameStart(ctx context.Context, senderID string, raw json.RawMessage) error {
	payload, err := decode[protocol.InvitePayload](raw)
	if err != nil {
		return err
	}

	return that.matchmaking.GameStart(ctx, senderID, payload)
}

func (that *Session) handleSendChatMessage(ctx context.Context, senderID string, raw json.RawMessage) error {
	payload, err := decode[protocol.ChatPayload](raw)
	if err != nil {
		return err
	}

	return that.chat.SendChatMessage(ctx, senderID, payload)
}

func (that *Session) handlePlayToken(ctx context.Context, senderID string, raw json.RawMessage) error {
	payload, err := decode[protocol.PlayTokenPayload](raw)
	if err != nil {
		return err
	}

	return that.gameplay.PlayToken(ctx, senderID, payload)
}

// decode - an absent payload dispatches as nil so services report it as an
// invalid payload; malformed JSON is reported the same way.
func decode[T any](raw json.RawMessage) (*T, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var payload T
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, apperror.ErrInvalidPayload
	}

	return &payload, nil
}
