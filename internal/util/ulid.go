package util

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewID generates a new ULID string. ULIDs sort by creation time, which keeps
// ids roughly aligned with created_at ordering.
func NewID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)

	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
