package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a new unique identifier string.
// Used to tag connections and broadcast tasks in logs.
func GenerateID() string {
	return uuid.New().String()
}
