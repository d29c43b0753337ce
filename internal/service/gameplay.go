package service

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/playmesh/connectfour-backend/internal/apperror"
	"github.com/playmesh/connectfour-backend/internal/entity"
	"github.com/playmesh/connectfour-backend/internal/protocol"
)

const (
	tieOutcome      = "Tie game!"
	archiveTimeout  = 5 * time.Second
	maxBoundPlayers = 2
)

// GameplayService orchestrates room joins, the per-room game state machine
// and the broadcasts that keep every room member's view consistent.
type GameplayService struct {
	logger *slog.Logger

	players     *PlayerService
	games       *GameService
	rooms       RoomMembership
	broadcaster Broadcaster
	scrubber    Scrubber
	archive     GameArchive
}

func NewGameplayService(
	logger *slog.Logger,
	players *PlayerService,
	games *GameService,
	rooms RoomMembership,
	broadcaster Broadcaster,
	scrubber Scrubber,
	archive GameArchive,
) *GameplayService {
	return &GameplayService{
		logger:      logger.With("component", "gameplay"),
		players:     players,
		games:       games,
		rooms:       rooms,
		broadcaster: broadcaster,
		scrubber:    scrubber,
		archive:     archive,
	}
}

// JoinRoom - adds the connection to the named room, registers the player and
// announces the full roster to everyone in the room. Joining a non-Lobby room
// also triggers a state broadcast so the first two entrants receive the
// initial board.
func (that *GameplayService) JoinRoom(ctx context.Context, senderID string, payload *protocol.JoinRoomPayload) error {
	if payload == nil || payload.Room == nil || payload.Username == nil {
		return apperror.ErrInvalidPayload
	}

	room := *payload.Room
	username := that.scrubber.Scrub(*payload.Username)

	if err := that.rooms.Join(ctx, senderID, room); err != nil {
		that.logger.Error("failed to join room", "room", room, "error", err)
		return apperror.ErrInternal
	}

	members, err := that.rooms.Members(ctx, room)
	if err != nil {
		that.logger.Error("failed to list room members", "room", room, "error", err)
		return apperror.ErrInternal
	}

	// The join only takes effect once the membership snapshot confirms it.
	if !slices.Contains(members, senderID) {
		return apperror.ErrInternal
	}

	that.players.Register(&entity.Player{ID: senderID, Username: username, Room: room})

	// Everyone in the room learns the whole roster; clients recognize their
	// own connection id in the feed and skip the self-announcement.
	for _, member := range members {
		player, ok := that.players.GetByID(member)
		if !ok {
			continue
		}

		that.broadcaster.ToRoom(room, protocol.EventJoinRoomResponse, protocol.JoinRoomResponse{
			Result:   protocol.ResultSuccess,
			SocketID: member,
			Room:     player.Room,
			Username: player.Username,
			Count:    len(members),
		})
	}

	that.logger.Info("join_room succeeded", "connection", senderID, "room", room, "username", username)

	if room != protocol.LobbyRoom {
		that.BroadcastState(ctx, room, "initial update")
	}

	return nil
}

// BroadcastState - the state-broadcast step: lazily creates the room's game,
// re-runs the idempotent color-assignment pass over the current membership
// snapshot and publishes the canonical game_update.
func (that *GameplayService) BroadcastState(ctx context.Context, gameID, message string) {
	err := that.games.WithGame(gameID, func(game *entity.Game) error {
		members, err := that.rooms.Members(ctx, gameID)
		if err != nil {
			return err
		}

		// Only the first two distinct connections can hold seats; anyone
		// else in the room is a third party and gets evicted.
		for i, member := range members {
			if i >= maxBoundPlayers {
				break
			}

			player, ok := that.players.GetByID(member)
			if !ok {
				continue
			}

			if !game.AssignSeat(member, player.Username) {
				that.logger.Info("evicting third player from game room", "connection", member, "gameID", gameID)

				if leaveErr := that.rooms.Leave(ctx, member, gameID); leaveErr != nil {
					that.logger.Error("failed to evict player", "connection", member, "error", leaveErr)
				}
			}
		}

		that.broadcaster.ToRoom(gameID, protocol.EventGameUpdate, protocol.GameUpdate{
			Result:  protocol.ResultSuccess,
			GameID:  gameID,
			Game:    *game,
			Message: message,
		})

		return nil
	})
	if err != nil {
		that.logger.Error("state broadcast failed", "gameID", gameID, "error", err)
	}
}

// PlayToken - validates and applies one move. Failures short-circuit back to
// the sender only and never touch the board; an accepted move answers the
// sender, resolves gravity, flips the turn and broadcasts the new state. A
// decided outcome additionally broadcasts game_over and arms the one-shot
// cleanup timer.
func (that *GameplayService) PlayToken(ctx context.Context, senderID string, payload *protocol.PlayTokenPayload) error {
	if payload == nil {
		return apperror.ErrInvalidPayload
	}

	player, ok := that.players.GetByID(senderID)
	if !ok || player.Username == "" {
		return apperror.ErrNotRegistered
	}

	gameID := player.Room
	if gameID == "" {
		return apperror.ErrGameNotFound
	}

	if payload.Row == nil || payload.Column == nil || payload.Color == nil {
		return apperror.ErrInvalidPayload
	}

	row, column, color := *payload.Row, *payload.Column, *payload.Color
	if !entity.ValidPosition(row, column) {
		return apperror.ErrInvalidPayload
	}

	return that.games.WithExistingGame(gameID, func(game *entity.Game) error {
		if color != game.WhoseTurn {
			return apperror.ErrWrongTurn
		}

		if game.SeatFor(color).Socket != senderID {
			return apperror.ErrWrongPlayer
		}

		// The move is accepted; the sender's acknowledgment is decoupled
		// from the board broadcast below.
		that.broadcaster.ToConn(senderID, protocol.EventPlayTokenResponse, protocol.PlayTokenResponse{
			Result: protocol.ResultSuccess,
		})

		landedRow := game.ApplyMove(row, column, color)

		that.broadcaster.ToRoom(gameID, protocol.EventGameUpdate, protocol.GameUpdate{
			Result:  protocol.ResultSuccess,
			GameID:  gameID,
			Game:    *game,
			Message: " played a token",
		})

		openSpots := game.OpenSpots()
		won := game.HasWinningLine(landedRow, column, color)

		if !won && openSpots > 0 {
			return nil
		}

		// A winning move that also fills the board still reports a tie;
		// longstanding protocol behavior the clients rely on.
		whoWon := color + " won!"
		if openSpots == 0 {
			whoWon = tieOutcome
		}

		that.broadcaster.ToRoom(gameID, protocol.EventGameOver, protocol.GameOverEvent{
			Result: protocol.ResultSuccess,
			GameID: gameID,
			Game:   *game,
			WhoWon: whoWon,
		})

		that.logger.Info("game over", "gameID", gameID, "outcome", whoWon)

		that.games.ScheduleCleanup(gameID)
		that.archiveResult(gameID, whoWon, entity.BoardRows*entity.BoardCols-openSpots)

		return nil
	})
}

// Disconnect - removes the registry entry and tells the former room. Unknown
// connections are a no-op; an abandoned game simply stalls.
func (that *GameplayService) Disconnect(ctx context.Context, senderID string) {
	player, ok := that.players.Remove(senderID)
	if !ok {
		return
	}

	that.broadcaster.ToRoom(player.Room, protocol.EventPlayerDisconnected, protocol.PlayerDisconnectedEvent{
		Username: player.Username,
		Room:     player.Room,
		Count:    that.players.Count(),
		SocketID: senderID,
	})

	that.logger.Info("player disconnected", "connection", senderID, "room", player.Room)
}

// archiveResult - records the finished game off the hot path.
func (that *GameplayService) archiveResult(gameID, outcome string, moves int) {
	if that.archive == nil {
		return
	}

	record := &entity.GameRecord{
		GameID:     gameID,
		Outcome:    outcome,
		Moves:      moves,
		FinishedAt: time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()

		if err := that.archive.Save(ctx, record); err != nil {
			that.logger.Error("failed to archive game result", "gameID", gameID, "error", err)
		}
	}()
}
