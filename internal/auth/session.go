package auth

import "fmt"

const sessionKeyPrefix = "session"

// SessionKey is the cache key holding a live session
func SessionKey(userId, sessionId string) string {
	return fmt.Sprintf("%s:%s:%s", sessionKeyPrefix, userId, sessionId)
}

// SessionKeyPrefix matches every session of a user
func SessionKeyPrefix(userId string) string {
	return fmt.Sprintf("%s:%s:", sessionKeyPrefix, userId)
}
