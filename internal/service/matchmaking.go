package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/playmesh/connectfour-backend/internal/apperror"
	"github.com/playmesh/connectfour-backend/internal/pkg"
	"github.com/playmesh/connectfour-backend/internal/protocol"
)

// MatchmakingService implements the stateless invite / uninvite / game_start
// handshake. It coordinates two clients' next join_room; the only thing it
// ever mints is the game identifier.
type MatchmakingService struct {
	logger *slog.Logger

	players     *PlayerService
	rooms       RoomMembership
	broadcaster Broadcaster
}

func NewMatchmakingService(logger *slog.Logger, players *PlayerService, rooms RoomMembership, broadcaster Broadcaster) *MatchmakingService {
	return &MatchmakingService{
		logger:      logger.With("component", "matchmaking"),
		players:     players,
		rooms:       rooms,
		broadcaster: broadcaster,
	}
}

// Invite - notifies the requester and the target that an invite is open.
func (that *MatchmakingService) Invite(ctx context.Context, senderID string, payload *protocol.InvitePayload) error {
	target, err := that.validateHandshake(ctx, senderID, payload)
	if err != nil {
		return err
	}

	that.broadcaster.ToConn(senderID, protocol.EventInviteResponse, protocol.HandshakeResponse{
		Result:   protocol.ResultSuccess,
		SocketID: target,
	})
	that.broadcaster.ToConn(target, protocol.EventInvited, protocol.HandshakeResponse{
		Result:   protocol.ResultSuccess,
		SocketID: senderID,
	})

	that.logger.Info("invite succeeded", "from", senderID, "to", target)

	return nil
}

// Uninvite - withdraws an invite; both parties receive an uninvited event.
func (that *MatchmakingService) Uninvite(ctx context.Context, senderID string, payload *protocol.InvitePayload) error {
	target, err := that.validateHandshake(ctx, senderID, payload)
	if err != nil {
		return err
	}

	that.broadcaster.ToConn(senderID, protocol.EventUninvited, protocol.HandshakeResponse{
		Result:   protocol.ResultSuccess,
		SocketID: target,
	})
	that.broadcaster.ToConn(target, protocol.EventUninvited, protocol.HandshakeResponse{
		Result:   protocol.ResultSuccess,
		SocketID: senderID,
	})

	that.logger.Info("uninvite succeeded", "from", senderID, "to", target)

	return nil
}

// GameStart - mints a fresh game identifier and hands it to both parties.
// The identifier doubles as the game room name; joining that room is the
// clients' follow-up, not part of this command.
func (that *MatchmakingService) GameStart(ctx context.Context, senderID string, payload *protocol.InvitePayload) error {
	target, err := that.validateHandshake(ctx, senderID, payload)
	if err != nil {
		return err
	}

	gameID, err := pkg.GenerateGameID()
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInternal, err)
	}

	response := protocol.GameStartResponse{
		Result:   protocol.ResultSuccess,
		GameID:   gameID,
		SocketID: target,
	}
	that.broadcaster.ToConn(senderID, protocol.EventGameStartResponse, response)
	that.broadcaster.ToConn(target, protocol.EventGameStartResponse, response)

	that.logger.Info("game start succeeded", "from", senderID, "to", target, "gameID", gameID)

	return nil
}

// validateHandshake - the shared validation path: payload present, target
// specified, requester registered with a room and name, target still a member
// of the requester's room. Returns the target connection id.
func (that *MatchmakingService) validateHandshake(ctx context.Context, senderID string, payload *protocol.InvitePayload) (string, error) {
	if payload == nil || payload.RequestedUser == nil || *payload.RequestedUser == "" {
		return "", apperror.ErrInvalidPayload
	}

	sender, ok := that.players.GetByID(senderID)
	if !ok || sender.Room == "" || sender.Username == "" {
		return "", apperror.ErrNotRegistered
	}

	members, err := that.rooms.Members(ctx, sender.Room)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperror.ErrInternal, err)
	}

	target := *payload.RequestedUser
	if !slices.Contains(members, target) {
		return "", apperror.ErrTargetNotInRoom
	}

	return target, nil
}
