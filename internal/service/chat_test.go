package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playmesh/connectfour-backend/internal/apperror"
	"github.com/playmesh/connectfour-backend/internal/protocol"
)

func TestChatService_SendChatMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("message is scrubbed and relayed to the room", func(t *testing.T) {
		env := newTestEnv()

		payload := &protocol.ChatPayload{
			Room:     strPtr(protocol.LobbyRoom),
			Username: strPtr("alice"),
			Message:  strPtr("hi <script>alert(1)</script>there"),
		}
		require.NoError(t, env.chat.SendChatMessage(ctx, "conn-a", payload))

		events := env.hub.eventsNamed(protocol.EventSendChatMessageResponse)
		require.Len(t, events, 1)
		assert.Equal(t, protocol.LobbyRoom, events[0].target)

		response := events[0].payload.(protocol.ChatResponse)
		assert.Equal(t, "alice", response.Username)
		assert.NotContains(t, response.Message, "<script>")
	})

	t.Run("missing fields are invalid", func(t *testing.T) {
		env := newTestEnv()

		err := env.chat.SendChatMessage(ctx, "conn-a", nil)
		require.ErrorIs(t, err, apperror.ErrInvalidPayload)

		err = env.chat.SendChatMessage(ctx, "conn-a", &protocol.ChatPayload{Room: strPtr("Lobby")})
		require.ErrorIs(t, err, apperror.ErrInvalidPayload)

		assert.Empty(t, env.hub.events)
	})
}
