package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/playmesh/connectfour-backend/internal/hub"
	"github.com/playmesh/connectfour-backend/internal/pkg"
	"github.com/playmesh/connectfour-backend/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	shutdownTimeout = 5 * time.Second
)

type session interface {
	HandleCommand(ctx context.Context, senderID string, message *protocol.Message)
	Disconnect(ctx context.Context, senderID string)
}

type Server struct {
	logger   *slog.Logger
	hub      *hub.Hub
	session  session
	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, h *hub.Hub, session session) *Server {
	return &Server{
		logger:  logger.With("component", "websocket"),
		hub:     h,
		session: session,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Start - serves the websocket endpoint until the context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("websocket server shutdown failed", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveConnection - upgrades the request, registers the connection with the
// hub and runs the read loop. Commands from one connection are handled in
// arrival order; different connections proceed concurrently.
func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		that.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	client := hub.NewClient(pkg.GenerateConnectionID())
	that.hub.Register(client)

	log := that.logger.With("connection", client.ID)
	log.Info("websocket connection established")

	go that.writePump(conn, client, log)
	that.readPump(ctx, conn, client, log)
}

func (that *Server) readPump(ctx context.Context, conn *websocket.Conn, client *hub.Client, log *slog.Logger) {
	defer func() {
		that.session.Disconnect(ctx, client.ID)
		that.hub.Unregister(client.ID)
		_ = conn.Close()

		log.Info("websocket connection closed")
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("unexpected close", "error", err)
			}
			return
		}

		var message protocol.Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		that.session.HandleCommand(ctx, client.ID, &message)
	}
}

func (that *Server) writePump(conn *websocket.Conn, client *hub.Client, log *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case frame, ok := <-client.Send():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Error("failed to write frame", "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
