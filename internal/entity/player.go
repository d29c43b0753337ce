package entity

// Player is one registry entry per live connection.
type Player struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Room     string `json:"room,omitempty"`
}
