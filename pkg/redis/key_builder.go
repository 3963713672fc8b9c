package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// Auth key builders
func (kb *KeyBuilder) KeyAuthSession() string {
	return kb.BuildKey(KeyAuthSession)
}

// Emergency key builders
func (kb *KeyBuilder) KeyEmergencyLocation() string {
	return kb.BuildKey(KeyEmergencyLocation)
}

func (kb *KeyBuilder) KeyEmergencyHandoff() string {
	return kb.BuildKey(KeyEmergencyHandoff)
}

// Chat key builders
func (kb *KeyBuilder) KeyChatTranscript(conversationID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyChatTranscript, conversationID))
}
