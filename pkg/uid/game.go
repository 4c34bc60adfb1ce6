package uid

import "github.com/google/uuid"

// GenerateGameID returns a random (v4) uuid for a new game
func GenerateGameID() string {
	return uuid.NewString()
}

// GenerateSessionID returns a random (v4) uuid for a new session
func GenerateSessionID() string {
	return uuid.NewString()
}

// IsValid reports whether id parses as a uuid
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
