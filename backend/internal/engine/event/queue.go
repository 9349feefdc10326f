package event

import "github.com/google/uuid"

// Log is the append-only, ever-growing record of every event processed,
// kept for replay and for reaction bookkeeping (spec.md §4.10's
// "has already reacted to event" check).
type Log struct {
	events   []Event
	reacted  map[uuid.UUID]map[uuid.UUID]struct{} // event id -> reactor handle key -> reacted
}

// NewLog returns an empty event log.
func NewLog() *Log {
	return &Log{reacted: make(map[uuid.UUID]map[uuid.UUID]struct{})}
}

// Append records ev at the end of the log.
func (l *Log) Append(ev Event) { l.events = append(l.events, ev) }

// Events returns every event recorded so far, oldest first.
func (l *Log) Events() []Event { return l.events }

// MarkReacted records that reactor (identified by an arbitrary stable
// key, typically derived from an entity.Handle) has already reacted to
// eventID, so it is not offered the same reaction twice.
func (l *Log) MarkReacted(eventID, reactor uuid.UUID) {
	set, ok := l.reacted[eventID]
	if !ok {
		set = make(map[uuid.UUID]struct{})
		l.reacted[eventID] = set
	}
	set[reactor] = struct{}{}
}

// HasReacted reports whether reactor has already reacted to eventID.
func (l *Log) HasReacted(eventID, reactor uuid.UUID) bool {
	set, ok := l.reacted[eventID]
	if !ok {
		return false
	}
	_, reacted := set[reactor]
	return reacted
}

// Queue is the pending FIFO of events awaiting processing.
type Queue struct {
	pending []Event
}

// NewQueue returns an empty pending-event queue.
func NewQueue() *Queue { return &Queue{} }

// Push enqueues ev at the back of the queue.
func (q *Queue) Push(ev Event) { q.pending = append(q.pending, ev) }

// Pop removes and returns the front event, or false if the queue is empty.
func (q *Queue) Pop() (Event, bool) {
	if len(q.pending) == 0 {
		return Event{}, false
	}
	ev := q.pending[0]
	q.pending = q.pending[1:]
	return ev, true
}

// Len reports how many events are pending.
func (q *Queue) Len() int { return len(q.pending) }

// Dispatcher ties the log, the pending queue, and the set of listeners
// awaiting a response together, implementing spec.md §4.10's
// process_event: log the event, then — if a registered listener awaits
// it as a response — run that listener's callback exactly once,
// removing it first so a callback can re-arm a fresh listener on the
// same trigger id without instantly re-matching its own input.
type Dispatcher struct {
	Log       *Log
	listeners map[uuid.UUID]Listener
}

// NewDispatcher returns a dispatcher backed by a fresh log.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{Log: NewLog(), listeners: make(map[uuid.UUID]Listener)}
}

// AddListener registers l to await its trigger event.
func (d *Dispatcher) AddListener(l Listener) { d.listeners[l.TriggerID] = l }

// Process logs ev, and if ev is the response a registered listener is
// waiting for, removes that listener and runs its callback, enqueueing
// or re-arming per the returned Outcome. It returns the new event to
// enqueue next, if any.
func (d *Dispatcher) Process(ev Event) *Event {
	d.Log.Append(ev)
	return d.HandleResponse(ev)
}

// HandleResponse runs the listener-matching half of Process without
// logging ev anywhere — for a caller that routes an event's storage
// itself (the controller layer mirrors in-combat events into their
// encounter's own log instead of this dispatcher's global one).
func (d *Dispatcher) HandleResponse(ev Event) *Event {
	if ev.ResponseTo == nil {
		return nil
	}
	listener, ok := d.listeners[*ev.ResponseTo]
	if !ok || !listener.Matches(ev) {
		return nil
	}
	delete(d.listeners, *ev.ResponseTo)

	outcome := listener.Callback(ev)
	if outcome.Rearm != nil {
		d.AddListener(*outcome.Rearm)
	}
	return outcome.NextEvent
}
