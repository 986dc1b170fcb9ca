package libev

import "reflect"

type (
	// Listener is implemented by values that respond to an event invocation
	// with a T argument and an R result.
	Listener[T, R any] interface {
		Handle(arg T) R
	}

	// ListenerFunc adapts a plain function to the Listener interface.
	ListenerFunc[T, R any] func(T) R
)

// Handle calls fn(arg).
func (fn ListenerFunc[T, R]) Handle(arg T) R {
	return fn(arg)
}

// Func wraps fn into a Listener. Wrapped functions compare by code pointer:
// wrapping the same declared function twice yields equal listeners, so it can
// be removed from a registry by wrapping it again. Closures built from one
// function literal share a code pointer and are therefore indistinguishable;
// use Sink or a pointer listener when each registration needs its own
// identity.
func Func[T, R any](fn func(T) R) Listener[T, R] {
	if fn == nil {
		return nil
	}
	return ListenerFunc[T, R](fn)
}

// sinkListener gives a result-less function its own identity per wrap.
type sinkListener[T, R any] struct {
	fn func(T)
}

func (s *sinkListener[T, R]) Handle(arg T) R {
	s.fn(arg)
	var zero R
	return zero
}

// Sink wraps a function with no result into a Listener that reports the zero
// R. Every call yields a distinct listener; keep the returned value around to
// remove it later.
func Sink[T, R any](fn func(T)) Listener[T, R] {
	if fn == nil {
		return nil
	}
	return &sinkListener[T, R]{fn: fn}
}

// noopListener ignores every invocation.
type noopListener[T, R any] struct{}

func (noopListener[T, R]) Handle(T) R {
	var zero R
	return zero
}

// NoopListener returns a listener that does nothing and reports the zero R.
// All noop listeners of one instantiation are equal to each other.
func NoopListener[T, R any]() Listener[T, R] {
	return noopListener[T, R]{}
}

// sameListener reports whether two listeners are the same callable: the
// dynamic types must match, then comparable types use Go equality (pointer
// listeners compare by target identity) and function types compare by code
// pointer. Uncomparable non-function listeners never match.
func sameListener[T, R any](a, b Listener[T, R]) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta == nil || ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	if ta.Kind() == reflect.Func {
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	}
	return false
}

// matchAny reports whether l equals any of the targets. Nil targets are
// skipped.
func matchAny[T, R any](l Listener[T, R], targets []Listener[T, R]) bool {
	for _, t := range targets {
		if t == nil {
			continue
		}
		if sameListener(l, t) {
			return true
		}
	}
	return false
}
