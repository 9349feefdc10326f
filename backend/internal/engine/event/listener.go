package event

import "github.com/google/uuid"

// Listener waits for an event whose ResponseTo matches TriggerID, then
// runs Callback exactly once and is removed — the fire-once-then-remove
// semantics of spec.md §4.10.
type Listener struct {
	TriggerID uuid.UUID
	Callback  Callback
}

// Callback reacts to the awaited event and decides what happens next:
// either a brand-new event enters the queue, or the listener re-arms
// itself (typically against a different trigger id) to keep waiting.
type Callback func(Event) Outcome

// Outcome is the result of running a Listener's Callback — the
// EventOrListener union of spec.md §4.10.
type Outcome struct {
	NextEvent *Event
	Rearm     *Listener
}

// Emits builds an Outcome that enqueues next.
func Emits(next Event) Outcome { return Outcome{NextEvent: &next} }

// Rearms builds an Outcome that re-registers l to keep listening.
func Rearms(l Listener) Outcome { return Outcome{Rearm: &l} }

// Matches reports whether ev is the awaited response to l's trigger.
func (l Listener) Matches(ev Event) bool {
	return ev.ResponseTo != nil && *ev.ResponseTo == l.TriggerID
}
