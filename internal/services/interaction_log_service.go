package services

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const defaultInteractionLogCapacity = 256

type interactionLog struct {
	mu       sync.Mutex
	entries  []InteractionRecord
	capacity int
	clock    func() time.Time
	idGen    func() string
}

// InteractionLogDeps bundles constructor inputs for the in-memory interaction log.
type InteractionLogDeps struct {
	Capacity int
	Clock    func() time.Time
	IDGen    func() string
}

// NewInteractionLog creates a bounded in-memory interaction log. When the
// capacity is reached the oldest records are discarded.
func NewInteractionLog(deps InteractionLogDeps) InteractionLog {
	capacity := deps.Capacity
	if capacity <= 0 {
		capacity = defaultInteractionLogCapacity
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	idGen := deps.IDGen
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}

	return &interactionLog{
		entries:  make([]InteractionRecord, 0, capacity),
		capacity: capacity,
		clock:    func() time.Time { return clock().UTC() },
		idGen:    idGen,
	}
}

// Record appends an interaction record, stamping identity and time when absent.
func (l *interactionLog) Record(record InteractionRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if record.ID == "" {
		record.ID = l.idGen()
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = l.clock()
	}

	if len(l.entries) == l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:l.capacity-1]
	}
	l.entries = append(l.entries, record)
}

// Recent returns up to limit records, newest first. A non-positive limit
// returns every retained record.
func (l *interactionLog) Recent(limit int) []InteractionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := len(l.entries)
	if limit > 0 && limit < count {
		count = limit
	}

	out := make([]InteractionRecord, 0, count)
	for i := len(l.entries) - 1; i >= len(l.entries)-count; i-- {
		out = append(out, l.entries[i])
	}
	return out
}
