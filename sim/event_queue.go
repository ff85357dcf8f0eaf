package sim

import "container/heap"

// eventQueue holds the events injected into one model that have not been
// consumed yet.
// Ordering: occurrence time → kind rank → arrival sequence
type eventQueue[K Kind] struct {
	events []Event[K]
}

func newEventQueue[K Kind]() *eventQueue[K] {
	q := &eventQueue[K]{events: make([]Event[K], 0)}
	heap.Init(q)
	return q
}

// Len implements heap.Interface
func (q *eventQueue[K]) Len() int {
	return len(q.events)
}

// Less implements heap.Interface with deterministic ordering
func (q *eventQueue[K]) Less(i, j int) bool {
	ei, ej := q.events[i], q.events[j]

	// Primary: occurrence time (earlier first)
	if ei.At != ej.At {
		return ei.At < ej.At
	}

	// Secondary: domain priority (lower rank applied first)
	if ei.Kind.Rank() != ej.Kind.Rank() {
		return ei.Kind.Rank() < ej.Kind.Rank()
	}

	// Tertiary: arrival order
	return ei.seq < ej.seq
}

// Swap implements heap.Interface
func (q *eventQueue[K]) Swap(i, j int) {
	q.events[i], q.events[j] = q.events[j], q.events[i]
}

// Push implements heap.Interface
func (q *eventQueue[K]) Push(x any) {
	q.events = append(q.events, x.(Event[K]))
}

// Pop implements heap.Interface
func (q *eventQueue[K]) Pop() any {
	old := q.events
	n := len(old)
	item := old[n-1]
	q.events = old[0 : n-1]
	return item
}

// schedule adds an event to the queue
func (q *eventQueue[K]) schedule(e Event[K]) {
	heap.Push(q, e)
}

// peek returns the earliest event without removing it
func (q *eventQueue[K]) peek() (Event[K], bool) {
	if q.Len() == 0 {
		return Event[K]{}, false
	}
	return q.events[0], true
}

// popAt removes and returns, in priority order, every event occurring at t.
func (q *eventQueue[K]) popAt(t Instant) []Event[K] {
	var batch []Event[K]
	for q.Len() > 0 && q.events[0].At == t {
		batch = append(batch, heap.Pop(q).(Event[K]))
	}
	return batch
}

// reset drops every pending event.
func (q *eventQueue[K]) reset() {
	q.events = q.events[:0]
}
