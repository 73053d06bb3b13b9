package activity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"detection-service/internal/domain"
)

func entry(action string) domain.ActivityEntry {
	return domain.ActivityEntry{
		Timestamp: time.Now(),
		Type:      "INSERT",
		Table:     "detections",
		Action:    action,
		Status:    domain.ActivityStatusSuccess,
	}
}

func TestTail_AppendOrder(t *testing.T) {
	l := New(10)
	l.Add(entry("a"))
	l.Add(entry("b"))
	l.Add(entry("c"))

	got := l.Tail(0)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Action)
	assert.Equal(t, "c", got[2].Action)
}

func TestTail_Limit(t *testing.T) {
	l := New(10)
	for i := 0; i < 5; i++ {
		l.Add(entry(fmt.Sprintf("op-%d", i)))
	}

	got := l.Tail(2)
	require.Len(t, got, 2)
	assert.Equal(t, "op-3", got[0].Action)
	assert.Equal(t, "op-4", got[1].Action)
}

func TestAdd_EvictsOldest(t *testing.T) {
	l := New(3)
	for i := 0; i < 5; i++ {
		l.Add(entry(fmt.Sprintf("op-%d", i)))
	}

	got := l.Tail(0)
	require.Len(t, got, 3)
	assert.Equal(t, "op-2", got[0].Action)
	assert.Equal(t, "op-4", got[2].Action)
}

func TestClear(t *testing.T) {
	l := New(10)
	l.Add(entry("a"))
	l.Add(entry("b"))

	l.Clear()
	assert.Empty(t, l.Tail(0))

	// Still usable after clearing.
	l.Add(entry("c"))
	got := l.Tail(0)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].Action)
}

func TestSubscribe_ReceivesNewEntries(t *testing.T) {
	l := New(10)
	id, ch := l.Subscribe()
	defer l.Unsubscribe(id)

	l.Add(entry("live"))

	select {
	case e := <-ch:
		assert.Equal(t, "live", e.Action)
	case <-time.After(time.Second):
		t.Fatal("no entry received")
	}
}

func TestUnsubscribe_ClosesChannel(t *testing.T) {
	l := New(10)
	id, ch := l.Subscribe()
	l.Unsubscribe(id)

	_, open := <-ch
	assert.False(t, open)
}

func TestAdd_SlowSubscriberDoesNotBlock(t *testing.T) {
	l := New(10)
	id, _ := l.Subscribe()
	defer l.Unsubscribe(id)

	// Overflow the subscriber buffer; Add must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			l.Add(entry("burst"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Add blocked on a slow subscriber")
	}
}
