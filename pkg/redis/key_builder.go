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

// Analytics key builders

func (kb *KeyBuilder) KeySnapshot(windowDays int) string {
	return kb.BuildKey(fmt.Sprintf(KeySnapshot, windowDays))
}

func (kb *KeyBuilder) KeySnapshotVersion() string {
	return kb.BuildKey(KeySnapshotVersion)
}

// Tracking key builders

func (kb *KeyBuilder) KeyTrackRateLimit(ipHash string) string {
	return kb.BuildKey(fmt.Sprintf(KeyTrackRateLimit, ipHash))
}

// KeyCustom builds a prefixed key from an arbitrary pattern
func (kb *KeyBuilder) KeyCustom(pattern string, args ...interface{}) string {
	key := fmt.Sprintf(pattern, args...)
	return kb.BuildKey(key)
}
