package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthmate-be/internal/container"
	"healthmate-be/internal/security"
	"healthmate-be/internal/service"
	"healthmate-be/pkg/logger"
	"healthmate-be/pkg/redis"
)

func newChatContainer(t *testing.T) *container.Container {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient, err := redis.NewClient("redis://"+mr.Addr(), "development", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { redisClient.Close() })

	log := &logger.Logger{Logger: zap.NewNop()}
	return &container.Container{
		Logger:      log,
		RedisClient: redisClient,
		Services: &service.Services{
			Chat: service.NewChatService(redisClient, security.NewTextSanitizer(), log),
		},
	}
}

func TestChatPageOpensConversation(t *testing.T) {
	handler := NewChatHandler(newChatContainer(t))

	rec := httptest.NewRecorder()
	handler.Page(rec, httptest.NewRequest(http.MethodGet, "/anonymous-chat", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Success        bool   `json:"success"`
		ConversationID string `json:"conversation_id"`
		Messages       []struct {
			Sender string `json:"sender"`
			Text   string `json:"text"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.True(t, response.Success)
	assert.NotEmpty(t, response.ConversationID)
	require.Len(t, response.Messages, 1)
	assert.Equal(t, "bot", response.Messages[0].Sender)
	assert.NotEmpty(t, response.Messages[0].Text)
}

func TestChatPageConversationsAreIndependent(t *testing.T) {
	handler := NewChatHandler(newChatContainer(t))

	ids := make(map[string]bool)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.Page(rec, httptest.NewRequest(http.MethodGet, "/anonymous-chat", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var response struct {
			ConversationID string `json:"conversation_id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		ids[response.ConversationID] = true
	}

	assert.Len(t, ids, 2, "each page visit opens its own conversation")
}
