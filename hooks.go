package libev

// vetoed runs the gating protocol over a hook registry: hooks run on a
// snapshot, in registration order, and the first false return aborts the
// pending call without consulting the remaining hooks.
func vetoed[T any](hooks *Event[T, bool], arg T) bool {
	for _, h := range hooks.Listeners() {
		if !h.Handle(arg) {
			return true
		}
	}
	return false
}

// appendVetoHooks wraps plain veto functions and appends them to a hook
// registry. It returns the listeners actually registered so callers can
// remove them later. Nil functions are skipped.
func appendVetoHooks[T any](reg *Event[T, bool], fns []func(T) bool) []Listener[T, bool] {
	ls := make([]Listener[T, bool], 0, len(fns))
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		ls = append(ls, Func(fn))
	}
	reg.Append(ls...)
	return ls
}

// appendNotifyHooks does the same for result-less notification functions,
// wrapping each through Sink so every registration keeps its own identity.
func appendNotifyHooks[T any](reg *Event[T, bool], fns []func(T)) []Listener[T, bool] {
	ls := make([]Listener[T, bool], 0, len(fns))
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		ls = append(ls, Sink[T, bool](fn))
	}
	reg.Append(ls...)
	return ls
}
