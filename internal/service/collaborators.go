package service

import (
	"context"

	"github.com/playmesh/connectfour-backend/internal/entity"
)

// RoomMembership is the transport's group-membership primitive. Membership
// queries are awaited calls; the snapshot they return may already be stale,
// which is why the color-assignment pass is re-run on every state broadcast.
type RoomMembership interface {
	Join(ctx context.Context, connectionID, room string) error
	Leave(ctx context.Context, connectionID, room string) error
	Members(ctx context.Context, room string) ([]string, error)
}

// Broadcaster fans structured events out to a room or a single connection.
type Broadcaster interface {
	ToRoom(room, event string, payload any)
	ToConn(connectionID, event string, payload any)
}

// Scrubber sanitizes client-supplied text. Must be idempotent.
type Scrubber interface {
	Scrub(text string) string
}

// GameArchive keeps records of finished games for the REST read endpoint.
type GameArchive interface {
	Save(ctx context.Context, record *entity.GameRecord) error
}
