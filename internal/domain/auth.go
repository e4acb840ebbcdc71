package domain

import "time"

// Token represents issued access token metadata.
type Token struct {
	SubjectID string
	Email     string
	ExpiresAt time.Time
	IssuedAt  time.Time
}
