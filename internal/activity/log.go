// Package activity keeps a fixed-capacity, in-memory record of database
// operations for the monitor panel. Readers either poll Tail or hold a
// Subscribe channel fed by every Add.
package activity

import (
	"sync"

	"detection-service/internal/domain"
)

const defaultCapacity = 500

type Log struct {
	mu     sync.RWMutex
	buf    []domain.ActivityEntry
	next   int
	full   bool
	subs   map[int]chan domain.ActivityEntry
	nextID int
}

func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Log{
		buf:  make([]domain.ActivityEntry, capacity),
		subs: make(map[int]chan domain.ActivityEntry),
	}
}

// Add appends an entry, evicting the oldest once capacity is reached,
// and fans it out to subscribers. Slow subscribers drop entries rather
// than block the writer.
func (l *Log) Add(e domain.ActivityEntry) {
	l.mu.Lock()
	l.buf[l.next] = e
	l.next++
	if l.next >= len(l.buf) {
		l.next = 0
		l.full = true
	}
	for _, ch := range l.subs {
		select {
		case ch <- e:
		default:
		}
	}
	l.mu.Unlock()
}

// Tail returns up to limit of the most recent entries in append order.
// limit <= 0 returns everything retained.
func (l *Log) Tail(limit int) []domain.ActivityEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []domain.ActivityEntry
	if l.full {
		out = make([]domain.ActivityEntry, 0, len(l.buf))
		out = append(out, l.buf[l.next:]...)
		out = append(out, l.buf[:l.next]...)
	} else {
		out = append([]domain.ActivityEntry(nil), l.buf[:l.next]...)
	}

	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Clear discards all retained entries. Subscribers are unaffected.
func (l *Log) Clear() {
	l.mu.Lock()
	l.next = 0
	l.full = false
	l.mu.Unlock()
}

// Subscribe registers a listener for new entries. The returned id must
// be passed to Unsubscribe when the listener goes away.
func (l *Log) Subscribe() (int, <-chan domain.ActivityEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	ch := make(chan domain.ActivityEntry, 16)
	l.subs[id] = ch
	return id, ch
}

func (l *Log) Unsubscribe(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ch, ok := l.subs[id]; ok {
		close(ch)
		delete(l.subs, id)
	}
}
