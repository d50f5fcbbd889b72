package core

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces identifiers for notes and tasks.
type IDGenerator interface {
	NewID() string
}

// TimestampIDs generates millisecond timestamps rendered in decimal,
// the format the app has always used. Consecutive ids are strictly
// increasing: a call landing in an already used millisecond borrows the next one.
type TimestampIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewTimestampIDs creates a generator reading the given clock (time.Now when nil).
func NewTimestampIDs(now func() time.Time) *TimestampIDs {
	if now == nil {
		now = time.Now
	}
	return &TimestampIDs{now: now}
}

func (g *TimestampIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}

// UUIDIDs generates time-ordered UUIDv7 strings.
type UUIDIDs struct{}

func (UUIDIDs) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// DefaultIDs is used by helpers that are not handed a generator.
var DefaultIDs IDGenerator = NewTimestampIDs(nil)
