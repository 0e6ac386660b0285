package cache

import "strings"

// GenerateCacheKey builds a colon-joined cache key from an object type and an
// identifier, with optional extra parts appended.
func GenerateCacheKey(objectType, identifier string, parts ...string) string {
	key := strings.Join([]string{objectType, identifier}, ":")
	if len(parts) > 0 {
		key = key + ":" + strings.Join(parts, "_")
	}
	return key
}

// QuizKey is the cache key of a quiz projection. Its shape is part of the
// deployment contract: other processes invalidate by this exact key.
func QuizKey(quizID string) string {
	return GenerateCacheKey("quiz", quizID)
}
