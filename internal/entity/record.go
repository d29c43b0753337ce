package entity

import "time"

// GameRecord is the archived summary of a finished game.
type GameRecord struct {
	GameID     string    `json:"game_id"`
	Outcome    string    `json:"outcome"`
	Moves      int       `json:"moves"`
	FinishedAt time.Time `json:"finished_at"`
}
