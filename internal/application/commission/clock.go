// Package commission holds the admin and viewer use cases over commission
// documents and their update lists.
package commission

import (
	"time"

	"github.com/google/uuid"
)

// Clock returns the current time.
type Clock func() time.Time

// IDGenerator returns a fresh identifier for new commissions and updates.
type IDGenerator func() uuid.UUID

func defaults(clock Clock, ids IDGenerator) (Clock, IDGenerator) {
	if clock == nil {
		clock = time.Now
	}
	if ids == nil {
		ids = uuid.New
	}
	return clock, ids
}
