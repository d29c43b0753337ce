package service

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/playmesh/connectfour-backend/internal/entity"
	"github.com/playmesh/connectfour-backend/internal/sanitize"
)

const testRetention = 30 * time.Millisecond

type recordedEvent struct {
	scope   string // "room" or "conn"
	target  string
	name    string
	payload any
}

// fakeHub implements RoomMembership and Broadcaster, recording every emitted
// event so tests can assert on fan-out.
type fakeHub struct {
	mu        sync.Mutex
	rooms     map[string][]string
	events    []recordedEvent
	dropJoins bool
}

func newFakeHub() *fakeHub {
	return &fakeHub{rooms: make(map[string][]string)}
}

func (that *fakeHub) Join(_ context.Context, connectionID, room string) error {
	if that.dropJoins {
		return nil
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if !slices.Contains(that.rooms[room], connectionID) {
		that.rooms[room] = append(that.rooms[room], connectionID)
	}

	return nil
}

func (that *fakeHub) Leave(_ context.Context, connectionID, room string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	members := that.rooms[room]
	for i, member := range members {
		if member == connectionID {
			that.rooms[room] = append(members[:i], members[i+1:]...)
			break
		}
	}

	return nil
}

func (that *fakeHub) Members(_ context.Context, room string) ([]string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	members := make([]string, len(that.rooms[room]))
	copy(members, that.rooms[room])

	return members, nil
}

func (that *fakeHub) ToRoom(room, event string, payload any) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, recordedEvent{scope: "room", target: room, name: event, payload: payload})
}

func (that *fakeHub) ToConn(connectionID, event string, payload any) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, recordedEvent{scope: "conn", target: connectionID, name: event, payload: payload})
}

func (that *fakeHub) eventsNamed(name string) []recordedEvent {
	that.mu.Lock()
	defer that.mu.Unlock()

	var matched []recordedEvent
	for _, event := range that.events {
		if event.name == name {
			matched = append(matched, event)
		}
	}

	return matched
}

func (that *fakeHub) reset() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = nil
}

type fakeArchive struct {
	mu      sync.Mutex
	records []*entity.GameRecord
}

func (that *fakeArchive) Save(_ context.Context, record *entity.GameRecord) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.records = append(that.records, record)

	return nil
}

func (that *fakeArchive) saved() []*entity.GameRecord {
	that.mu.Lock()
	defer that.mu.Unlock()

	return slices.Clone(that.records)
}

type testEnv struct {
	hub     *fakeHub
	archive *fakeArchive

	players     *PlayerService
	games       *GameService
	gameplay    *GameplayService
	matchmaking *MatchmakingService
	chat        *ChatService
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := newFakeHub()
	archive := &fakeArchive{}
	scrubber := sanitize.New()

	players := NewPlayerService()
	games := NewGameService(logger, testRetention)

	return &testEnv{
		hub:         h,
		archive:     archive,
		players:     players,
		games:       games,
		gameplay:    NewGameplayService(logger, players, games, h, h, scrubber, archive),
		matchmaking: NewMatchmakingService(logger, players, h, h),
		chat:        NewChatService(logger, h, scrubber),
	}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
