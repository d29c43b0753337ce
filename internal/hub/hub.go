package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/playmesh/connectfour-backend/internal/protocol"
)

const sendBufferSize = 256

// Client is one registered connection. The transport drains Send and writes
// the frames to the socket.
type Client struct {
	ID   string
	send chan []byte
}

func NewClient(id string) *Client {
	return &Client{
		ID:   id,
		send: make(chan []byte, sendBufferSize),
	}
}

// Send - the outbound frame channel; closed when the client is unregistered.
func (that *Client) Send() <-chan []byte {
	return that.send
}

// Hub tracks registered clients and named rooms, and fans events out to them.
// Room membership keeps join order; the color-assignment pass depends on
// enumeration order being stable.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string][]string
}

func New(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With("component", "hub"),
		clients: make(map[string]*Client),
		rooms:   make(map[string][]string),
	}
}

func (that *Hub) Register(client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[client.ID] = client
}

// Unregister - drops the client from every room and closes its send channel.
func (that *Hub) Unregister(connectionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	client, ok := that.clients[connectionID]
	if !ok {
		return
	}

	delete(that.clients, connectionID)

	for room := range that.rooms {
		that.removeFromRoom(connectionID, room)
	}

	close(client.send)
}

// Join - adds the connection to the named room, creating the room on first use.
func (that *Hub) Join(ctx context.Context, connectionID, room string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("join canceled: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.clients[connectionID]; !ok {
		return fmt.Errorf("unknown connection %q", connectionID)
	}

	for _, member := range that.rooms[room] {
		if member == connectionID {
			return nil
		}
	}

	that.rooms[room] = append(that.rooms[room], connectionID)

	return nil
}

// Leave - removes the connection from the named room.
func (that *Hub) Leave(ctx context.Context, connectionID, room string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("leave canceled: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.removeFromRoom(connectionID, room)

	return nil
}

// Members - returns the room's members in join order.
func (that *Hub) Members(ctx context.Context, room string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("members canceled: %w", err)
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	members := make([]string, len(that.rooms[room]))
	copy(members, that.rooms[room])

	return members, nil
}

// ToRoom - emits the event to every member of the room.
func (that *Hub) ToRoom(room, event string, payload any) {
	frame, err := encodeFrame(event, payload)
	if err != nil {
		that.logger.Error("failed to encode event", "event", event, "error", err)
		return
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, member := range that.rooms[room] {
		if client, ok := that.clients[member]; ok {
			that.enqueue(client, event, frame)
		}
	}
}

// ToConn - emits the event to a single connection.
func (that *Hub) ToConn(connectionID, event string, payload any) {
	frame, err := encodeFrame(event, payload)
	if err != nil {
		that.logger.Error("failed to encode event", "event", event, "error", err)
		return
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	if client, ok := that.clients[connectionID]; ok {
		that.enqueue(client, event, frame)
	}
}

// enqueue - queues the frame without blocking; a client that cannot keep up
// loses the frame rather than stalling the room.
func (that *Hub) enqueue(client *Client, event string, frame []byte) {
	select {
	case client.send <- frame:
	default:
		that.logger.Warn("dropping frame for slow client", "connection", client.ID, "event", event)
	}
}

// removeFromRoom - caller must hold the write lock.
func (that *Hub) removeFromRoom(connectionID, room string) {
	members := that.rooms[room]

	for i, member := range members {
		if member == connectionID {
			that.rooms[room] = append(members[:i], members[i+1:]...)
			break
		}
	}

	if len(that.rooms[room]) == 0 {
		delete(that.rooms, room)
	}
}

func encodeFrame(event string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	frame, err := json.Marshal(protocol.Message{Action: event, Payload: body})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return frame, nil
}
