// Package libev is a small in-process eventing toolkit: an ordered listener
// registry (Event), a keyed channel router with gating hooks (Mediator) and a
// finite state machine that fires a per-state event on every transition
// (Machine). Everything is synchronous and confined to the caller goroutine;
// see the Event documentation for the threading contract.
package libev

// Event is an ordered, mutable collection of listeners sharing one signature.
// Listeners are invoked front to back and their results are aggregated in the
// same order. The zero value is an empty registry ready for use.
//
// An Event performs no internal locking. Registries are meant to be owned by
// a single goroutine; callers sharing one across goroutines must bring their
// own synchronization.
type Event[T, R any] struct {
	listeners []Listener[T, R]
}

// NewEvent creates an empty registry.
func NewEvent[T, R any]() *Event[T, R] {
	return &Event[T, R]{}
}

// Append inserts the given listeners at the back, in the given order. Nil
// listeners are skipped. Duplicates are allowed and occupy one slot per
// insertion.
func (e *Event[T, R]) Append(ls ...Listener[T, R]) {
	for _, l := range ls {
		if l == nil {
			continue
		}
		e.listeners = append(e.listeners, l)
	}
}

// Prepend inserts the given listeners at the front, keeping their relative
// order: after Prepend(a, b) the registry starts with a, then b, then the
// previous front. Nil listeners are skipped.
func (e *Event[T, R]) Prepend(ls ...Listener[T, R]) {
	head := make([]Listener[T, R], 0, len(ls)+len(e.listeners))
	for _, l := range ls {
		if l == nil {
			continue
		}
		head = append(head, l)
	}
	if len(head) == 0 {
		return
	}
	e.listeners = append(head, e.listeners...)
}

// Remove deletes every slot equal to any of the given listeners, keeping the
// order of the survivors, and reports how many slots were dropped. Absent
// listeners are ignored. See Func for what equality means for wrapped
// functions.
func (e *Event[T, R]) Remove(ls ...Listener[T, R]) int {
	if len(e.listeners) == 0 || len(ls) == 0 {
		return 0
	}
	kept := e.listeners[:0]
	removed := 0
	for _, cur := range e.listeners {
		if matchAny(cur, ls) {
			removed++
			continue
		}
		kept = append(kept, cur)
	}
	for i := len(kept); i < len(e.listeners); i++ {
		e.listeners[i] = nil // release references
	}
	e.listeners = kept
	return removed
}

// Clear drops every listener in one step.
func (e *Event[T, R]) Clear() {
	e.listeners = nil
}

// Len reports the number of listener slots currently registered.
func (e *Event[T, R]) Len() int {
	return len(e.listeners)
}

// Empty reports whether the registry holds no listeners.
func (e *Event[T, R]) Empty() bool {
	return len(e.listeners) == 0
}

// Front returns the first listener. It fails with ErrEmptyRegistry on an
// empty registry, as do Back, PopFront and PopBack.
func (e *Event[T, R]) Front() (Listener[T, R], error) {
	if len(e.listeners) == 0 {
		return nil, ErrEmptyRegistry
	}
	return e.listeners[0], nil
}

// Back returns the last listener.
func (e *Event[T, R]) Back() (Listener[T, R], error) {
	if len(e.listeners) == 0 {
		return nil, ErrEmptyRegistry
	}
	return e.listeners[len(e.listeners)-1], nil
}

// PopFront removes and returns the first listener.
func (e *Event[T, R]) PopFront() (Listener[T, R], error) {
	if len(e.listeners) == 0 {
		return nil, ErrEmptyRegistry
	}
	l := e.listeners[0]
	e.listeners[0] = nil
	e.listeners = e.listeners[1:]
	return l, nil
}

// PopBack removes and returns the last listener.
func (e *Event[T, R]) PopBack() (Listener[T, R], error) {
	if len(e.listeners) == 0 {
		return nil, ErrEmptyRegistry
	}
	last := len(e.listeners) - 1
	l := e.listeners[last]
	e.listeners[last] = nil
	e.listeners = e.listeners[:last]
	return l, nil
}

// Invoke calls every listener registered at the moment of the call, front to
// back, and returns their results in the same order. An empty registry yields
// a nil slice. Iteration works on a snapshot, so listeners that mutate the
// registry while it runs never affect the current pass.
func (e *Event[T, R]) Invoke(arg T) []R {
	if len(e.listeners) == 0 {
		return nil
	}
	snapshot := e.Listeners()
	results := make([]R, 0, len(snapshot))
	for _, l := range snapshot {
		results = append(results, l.Handle(arg))
	}
	return results
}

// Fire behaves like Invoke but discards the results.
func (e *Event[T, R]) Fire(arg T) {
	if len(e.listeners) == 0 {
		return
	}
	for _, l := range e.Listeners() {
		l.Handle(arg)
	}
}

// Listeners returns a copy of the current listener sequence, front to back.
func (e *Event[T, R]) Listeners() []Listener[T, R] {
	if len(e.listeners) == 0 {
		return nil
	}
	snapshot := make([]Listener[T, R], len(e.listeners))
	copy(snapshot, e.listeners)
	return snapshot
}

// Copy produces an independent registry holding the same listener sequence.
// Mutating either side afterwards leaves the other untouched.
func (e *Event[T, R]) Copy() *Event[T, R] {
	return &Event[T, R]{listeners: e.Listeners()}
}
