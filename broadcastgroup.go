// broadcastgroup.go
package qudit

import (
	"sync"
	"time"
)

/*
	Snapshot is the state of a register after one executor step.

Amplitudes is a copy and Measured holds the digits observed during the step,
keyed by qudit index.
*/
type Snapshot struct {
	Step       int
	Amplitudes Vector
	Measured   map[int]int
}

/*
	FilterFunc decides whether a snapshot should reach a subscriber.

Returns:
  - bool: True if the snapshot should be delivered, false to skip it
*/
type FilterFunc func(Snapshot) bool

/*
	BroadcastGroup publishes register snapshots to observers.

The register itself stays a plain owned value; anything that wants to follow
its evolution (a renderer, a recorder, a test) subscribes here instead.
Delivery never blocks the simulation: a subscriber whose buffer is full
misses the snapshot and the drop is counted.
*/
type BroadcastGroup struct {
	mu sync.RWMutex

	ID          string
	subscribers map[string]chan Snapshot
	filters     map[string][]FilterFunc
	metrics     *BroadcastMetrics
	closed      bool
}

/*
	BroadcastMetrics tracks delivery for the broadcast group.
*/
type BroadcastMetrics struct {
	MessagesSent      int64
	MessagesDropped   int64
	ActiveSubscribers int
	LastBroadcastTime time.Time
}

// NewBroadcastGroup creates an empty broadcast group.
func NewBroadcastGroup(id string) *BroadcastGroup {
	return &BroadcastGroup{
		ID:          id,
		subscribers: make(map[string]chan Snapshot),
		filters:     make(map[string][]FilterFunc),
		metrics:     &BroadcastMetrics{},
	}
}

/*
	Subscribe adds a new subscriber with optional filters.

Parameters:
  - subscriberID: Unique identifier for the subscriber
  - bufferSize: Size of the subscriber's snapshot buffer
  - filters: Optional filters; a snapshot is delivered if any of them accepts it

Returns:
  - <-chan Snapshot: Channel for receiving snapshots, closed on Unsubscribe or Close

Thread-safe: This method uses mutual exclusion to ensure safe concurrent access.
*/
func (bg *BroadcastGroup) Subscribe(subscriberID string, bufferSize int, filters ...FilterFunc) <-chan Snapshot {
	bg.mu.Lock()
	defer bg.mu.Unlock()

	ch := make(chan Snapshot, bufferSize)

	if bg.closed {
		close(ch)
		return ch
	}

	if old, exists := bg.subscribers[subscriberID]; exists {
		close(old)
		bg.metrics.ActiveSubscribers--
	}

	bg.subscribers[subscriberID] = ch

	if len(filters) > 0 {
		bg.filters[subscriberID] = filters
	} else {
		delete(bg.filters, subscriberID)
	}

	bg.metrics.ActiveSubscribers++
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (bg *BroadcastGroup) Unsubscribe(subscriberID string) {
	bg.mu.Lock()
	defer bg.mu.Unlock()

	if ch, exists := bg.subscribers[subscriberID]; exists {
		close(ch)
		delete(bg.subscribers, subscriberID)
		delete(bg.filters, subscriberID)
		bg.metrics.ActiveSubscribers--
	}
}

/*
	Send delivers a snapshot to every subscriber whose filters accept it.

Thread-safe: This method uses mutual exclusion to ensure safe concurrent access.
*/
func (bg *BroadcastGroup) Send(snapshot Snapshot) {
	bg.mu.Lock()
	defer bg.mu.Unlock()

	bg.metrics.LastBroadcastTime = time.Now()

	for id, ch := range bg.subscribers {
		if !bg.accepts(id, snapshot) {
			continue
		}

		select {
		case ch <- snapshot:
			bg.metrics.MessagesSent++
		default:
			bg.metrics.MessagesDropped++
		}
	}
}

func (bg *BroadcastGroup) accepts(subscriberID string, snapshot Snapshot) bool {
	filters, ok := bg.filters[subscriberID]
	if !ok {
		return true
	}

	for _, filter := range filters {
		if filter(snapshot) {
			return true
		}
	}

	return false
}

// GetMetrics returns a copy of the current delivery metrics.
func (bg *BroadcastGroup) GetMetrics() BroadcastMetrics {
	bg.mu.RLock()
	defer bg.mu.RUnlock()
	return *bg.metrics
}

/*
	Close closes every subscriber channel. Later sends are no-ops and later
subscribers receive an already closed channel.
*/
func (bg *BroadcastGroup) Close() {
	bg.mu.Lock()
	defer bg.mu.Unlock()

	for _, ch := range bg.subscribers {
		close(ch)
	}

	bg.subscribers = make(map[string]chan Snapshot)
	bg.filters = make(map[string][]FilterFunc)
	bg.metrics.ActiveSubscribers = 0
	bg.closed = true
}

// MeasuredOnly is a filter that passes snapshots of steps that observed a qudit.
func MeasuredOnly(snapshot Snapshot) bool {
	return len(snapshot.Measured) > 0
}
