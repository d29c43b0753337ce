package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/playmesh/connectfour-backend/internal/entity"
)

type gameArchive interface {
	Recent(ctx context.Context, limit int) ([]entity.GameRecord, error)
}

// Start - serves the health check and the finished-game feed.
func Start(port string, archive gameArchive) error {
	h := &handlers{archive: archive}

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", h.ping)
	mux.HandleFunc("/games/recent", h.recentGames)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
