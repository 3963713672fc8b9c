package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthmate-be/internal/domain"
	"healthmate-be/internal/security"
	"healthmate-be/pkg/redis"
)

func newChatService(t *testing.T) *chatService {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := redis.NewClient("redis://"+mr.Addr(), "development", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return &chatService{
		redis:     client,
		sanitizer: security.NewTextSanitizer(),
		pick:      func(n int) int { return 0 },
		logger:    testLogger(),
	}
}

func TestStartConversation(t *testing.T) {
	svc := newChatService(t)

	conversationID, greeting, err := svc.StartConversation(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, conversationID)
	require.NotNil(t, greeting)
	assert.Equal(t, domain.ChatSenderBot, greeting.Sender)
	assert.Equal(t, chatGreeting, greeting.Text)
}

func TestSendMessageReturnsScriptedReply(t *testing.T) {
	svc := newChatService(t)
	ctx := context.Background()

	conversationID, _, err := svc.StartConversation(ctx)
	require.NoError(t, err)

	userMsg, botMsg, err := svc.SendMessage(ctx, conversationID, "I feel overwhelmed")
	require.NoError(t, err)

	assert.Equal(t, domain.ChatSenderUser, userMsg.Sender)
	assert.Equal(t, "I feel overwhelmed", userMsg.Text)
	assert.Equal(t, domain.ChatSenderBot, botMsg.Sender)
	assert.Equal(t, scriptedResponses[0], botMsg.Text)
}

func TestSendMessageSanitizesMarkup(t *testing.T) {
	svc := newChatService(t)
	ctx := context.Background()

	conversationID, _, err := svc.StartConversation(ctx)
	require.NoError(t, err)

	userMsg, _, err := svc.SendMessage(ctx, conversationID, "<b>I can't sleep</b>")
	require.NoError(t, err)
	assert.Equal(t, "I can't sleep", userMsg.Text)
}

func TestSendMessageRejectsEmptyAfterSanitizing(t *testing.T) {
	svc := newChatService(t)
	ctx := context.Background()

	conversationID, _, err := svc.StartConversation(ctx)
	require.NoError(t, err)

	_, _, err = svc.SendMessage(ctx, conversationID, "  <img src=x>  ")
	assert.Error(t, err)
}

func TestTranscriptOldestFirst(t *testing.T) {
	svc := newChatService(t)
	ctx := context.Background()

	conversationID, _, err := svc.StartConversation(ctx)
	require.NoError(t, err)

	_, _, err = svc.SendMessage(ctx, conversationID, "first message")
	require.NoError(t, err)
	_, _, err = svc.SendMessage(ctx, conversationID, "second message")
	require.NoError(t, err)

	messages, err := svc.Transcript(ctx, conversationID)
	require.NoError(t, err)
	require.Len(t, messages, 5)

	assert.Equal(t, chatGreeting, messages[0].Text)
	assert.Equal(t, "first message", messages[1].Text)
	assert.Equal(t, "second message", messages[3].Text)
}

func TestTranscriptUnknownConversation(t *testing.T) {
	svc := newChatService(t)

	messages, err := svc.Transcript(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, messages)
}
