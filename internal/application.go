package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/playmesh/connectfour-backend/internal/config"
	"github.com/playmesh/connectfour-backend/internal/hub"
	"github.com/playmesh/connectfour-backend/internal/repository"
	"github.com/playmesh/connectfour-backend/internal/repository/storage"
	"github.com/playmesh/connectfour-backend/internal/sanitize"
	"github.com/playmesh/connectfour-backend/internal/service"
	"github.com/playmesh/connectfour-backend/internal/usecase"
	"github.com/playmesh/connectfour-backend/transport/rest"
	"github.com/playmesh/connectfour-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - wires the components together and runs the servers until a signal
// or a server error stops them.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisClient, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisClient.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	archiveRepo := repository.NewGameArchiveRepository(redisClient)

	roomHub := hub.New(logger)
	scrubber := sanitize.New()

	players := service.NewPlayerService()
	games := service.NewGameService(logger, conf.GameRetention)
	matchmaking := service.NewMatchmakingService(logger, players, roomHub, roomHub)
	gameplay := service.NewGameplayService(logger, players, games, roomHub, roomHub, scrubber, archiveRepo)
	chat := service.NewChatService(logger, roomHub, scrubber)

	session := usecase.NewSession(logger, matchmaking, gameplay, chat, roomHub)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(conf.HTTPPort, archiveRepo); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, roomHub, session)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
