package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"healthmate-be/internal/domain"
	"healthmate-be/internal/security"
	"healthmate-be/pkg/errors"
	"healthmate-be/pkg/logger"
	"healthmate-be/pkg/redis"
)

const chatGreeting = "Hi, I'm here to listen. Everything you share stays anonymous. What's on your mind today?"

// scriptedResponses are the canned supportive replies; one is chosen at
// random per user message
var scriptedResponses = []string{
	"I understand how you're feeling. Can you tell me more about what's on your mind?",
	"That sounds really challenging. You're not alone in feeling this way.",
	"Thank you for sharing that with me. How long have you been feeling this way?",
	"I hear you, and your feelings are valid. What would be most helpful for you right now?",
	"That's a lot to deal with. Have you considered talking to someone in person about this?",
	"I'm here to listen. What's the most difficult part of what you're going through?",
}

// chatService runs the anonymous support chat. Conversations are identified
// by a random id with no link to the signed-in user; transcripts live in
// Redis with a bounded retention.
type chatService struct {
	redis     *redis.Client
	sanitizer security.Sanitizer
	pick      func(n int) int
	logger    *logger.Logger
}

// NewChatService creates the anonymous chat service
func NewChatService(redisClient *redis.Client, sanitizer security.Sanitizer, logger *logger.Logger) ChatService {
	return &chatService{
		redis:     redisClient,
		sanitizer: sanitizer,
		pick:      rand.Intn,
		logger:    logger,
	}
}

// StartConversation opens a new anonymous conversation
func (s *chatService) StartConversation(ctx context.Context) (string, *domain.ChatMessage, error) {
	conversationID := uuid.NewString()

	greeting := &domain.ChatMessage{
		ID:     uuid.NewString(),
		Sender: domain.ChatSenderBot,
		Text:   chatGreeting,
		SentAt: time.Now().UTC(),
	}

	if err := s.append(ctx, conversationID, greeting); err != nil {
		return "", nil, err
	}

	s.logger.WithField("conversation_id", conversationID).Debug("Conversation started")
	return conversationID, greeting, nil
}

// SendMessage records a sanitized user message and the scripted bot reply
func (s *chatService) SendMessage(ctx context.Context, conversationID, text string) (*domain.ChatMessage, *domain.ChatMessage, error) {
	clean := s.sanitizer.Sanitize(text)
	if clean == "" {
		return nil, nil, errors.NewValidationError("Message text is required", nil)
	}

	now := time.Now().UTC()
	userMsg := &domain.ChatMessage{
		ID:     uuid.NewString(),
		Sender: domain.ChatSenderUser,
		Text:   clean,
		SentAt: now,
	}
	botMsg := &domain.ChatMessage{
		ID:     uuid.NewString(),
		Sender: domain.ChatSenderBot,
		Text:   scriptedResponses[s.pick(len(scriptedResponses))],
		SentAt: now,
	}

	if err := s.append(ctx, conversationID, userMsg, botMsg); err != nil {
		return nil, nil, err
	}
	return userMsg, botMsg, nil
}

// Transcript returns the conversation so far, oldest first
func (s *chatService) Transcript(ctx context.Context, conversationID string) ([]domain.ChatMessage, error) {
	key := s.redis.KeyBuilder.KeyChatTranscript(conversationID)
	raw, err := s.redis.LRange(ctx, key, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	messages := make([]domain.ChatMessage, 0, len(raw))
	for _, entry := range raw {
		var msg domain.ChatMessage
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chat message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *chatService) append(ctx context.Context, conversationID string, messages ...*domain.ChatMessage) error {
	key := s.redis.KeyBuilder.KeyChatTranscript(conversationID)

	values := make([]interface{}, 0, len(messages))
	for _, msg := range messages {
		raw, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal chat message: %w", err)
		}
		values = append(values, raw)
	}

	if err := s.redis.RPush(ctx, key, values...); err != nil {
		return fmt.Errorf("failed to append to transcript: %w", err)
	}
	if err := s.redis.Expire(ctx, key, redis.TTLChatTranscript); err != nil {
		s.logger.WithError(err).Warn("Failed to set transcript retention")
	}
	return nil
}
