package bookmark

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces bookmark ids. Ids must sort lexicographically in
// creation order.
type IDGenerator interface {
	NewID() (string, error)
}

// UUIDv7Generator issues RFC 9562 version 7 UUIDs. Their canonical string
// form starts with the millisecond timestamp, so string order follows time.
// The last id is remembered so that successive ids from one generator are
// strictly increasing even if the wall clock steps back.
type UUIDv7Generator struct {
	mu   sync.Mutex
	last string
}

// NewUUIDv7Generator returns a ready generator.
func NewUUIDv7Generator() *UUIDv7Generator {
	return &UUIDv7Generator{}
}

func (g *UUIDv7Generator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// uuid.NewV7 is monotonic within the process; a few retries cover a
	// clock rollback between calls.
	for range 8 {
		id, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("generate bookmark id: %w", err)
		}
		s := id.String()
		if s > g.last {
			g.last = s
			return s, nil
		}
	}
	return "", fmt.Errorf("generate bookmark id: clock moved backwards")
}
