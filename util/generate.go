package util

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a random v4 UUID as 32 lowercase hex characters with no
// separators.
func NewID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")
}
