// Package event implements the reactive poll-style subscription model
// (spec.md §4.3): an opaque predicate closure plus a release function,
// checked by the dispatch loop rather than delivered by callback so the
// whole runtime stays single-threaded and trivially cancellable.
package event

// Event is a subscription handle returned by Device.Subscribe. Check
// reports whether the named condition has fired since the last call.
// Release must be called when the subscriber is done with it.
type Event struct {
	checkFn   func() bool
	releaseFn func()
	released  bool
}

// New wraps a check predicate and an optional release callback.
func New(check func() bool, release func()) *Event {
	return &Event{checkFn: check, releaseFn: release}
}

// Check reports whether the event has fired since the last check. A
// released event always reports false.
func (e *Event) Check() bool {
	if e.released {
		return false
	}
	return e.checkFn()
}

// Release marks the event inert and runs its release callback, if any.
// Release is idempotent.
func (e *Event) Release() {
	if e.released {
		return
	}
	e.released = true
	if e.releaseFn != nil {
		e.releaseFn()
	}
}

// NewCounterWatcher builds a value_change-style event: it reads counter
// once at subscription time, then fires the first time a later read
// differs from the last-seen value, updating last-seen on each fire.
func NewCounterWatcher(counter func() uint64) *Event {
	lastSeen := counter()
	check := func() bool {
		cur := counter()
		if cur != lastSeen {
			lastSeen = cur
			return true
		}
		return false
	}
	return New(check, nil)
}
