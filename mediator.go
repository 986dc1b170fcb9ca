package libev

import (
	"reflect"

	"github.com/pkg/errors"
)

type (
	// Mediator routes calls to named channels so emitters and listeners only
	// share a key, never each other. Each channel owns one registry whose
	// listener signature is fixed by the Channel descriptor that first used
	// it; reusing a key under a different signature fails with
	// *SignatureMismatchError. Registries materialize on first subscription,
	// and emitting to a channel nobody ever subscribed to is a quiet no-op.
	//
	// Like Event, a Mediator performs no internal locking.
	Mediator[K comparable] struct {
		channels map[K]registryView
		before   *Event[K, bool]
		after    *Event[K, bool]
		logger   Logger
		stats    MediatorStats
	}

	// Channel binds a mediator key to the argument and result types routed
	// under it. Descriptors are cheap immutable values meant to be declared
	// once, next to the key constants, and shared by every call site.
	Channel[K comparable, T, R any] struct {
		key K
	}

	// MediatorStats counts routing outcomes since construction.
	MediatorStats struct {
		Emits  uint64 // emits that reached a channel registry
		Vetoed uint64 // emits aborted by a before hook
		Misses uint64 // emits to channels nobody ever subscribed to
	}
)

// registryView is the type-erased surface of an Event that raw key mediator
// operations work through.
type registryView interface {
	Len() int
	Clear()
}

// NewMediator creates a mediator with no channels materialized. A nil logger
// is replaced by NewEmptyLogger().
func NewMediator[K comparable](log Logger) *Mediator[K] {
	if log == nil {
		log = NewEmptyLogger()
	}
	return &Mediator[K]{
		channels: make(map[K]registryView),
		before:   NewEvent[K, bool](),
		after:    NewEvent[K, bool](),
		logger:   log,
	}
}

// NewChannel declares a channel routing T arguments to listeners that answer
// with R, under the given key.
func NewChannel[K comparable, T, R any](key K) Channel[K, T, R] {
	return Channel[K, T, R]{key: key}
}

// Key returns the channel key.
func (c Channel[K, T, R]) Key() K {
	return c.key
}

// Func adapts fn into a listener with this channel's signature. Identity
// semantics are those of the package level Func.
func (c Channel[K, T, R]) Func(fn func(T) R) Listener[T, R] {
	return Func(fn)
}

// Sink adapts a result-less fn into a listener with this channel's
// signature. Identity semantics are those of the package level Sink.
func (c Channel[K, T, R]) Sink(fn func(T)) Listener[T, R] {
	return Sink[T, R](fn)
}

// Before returns the registry of veto hooks. Hooks observe the channel key of
// every emit and may abort it by returning false; see Emit for the full
// protocol.
func (m *Mediator[K]) Before() *Event[K, bool] {
	return m.before
}

// After returns the registry of notification hooks, fired once a routed
// emit's listeners have completed. Hook results are ignored.
func (m *Mediator[K]) After() *Event[K, bool] {
	return m.after
}

// BeforeEach appends plain-function veto hooks and returns the listeners
// actually registered, for later removal through Before().Remove.
func (m *Mediator[K]) BeforeEach(fns ...func(K) bool) []Listener[K, bool] {
	return appendVetoHooks(m.before, fns)
}

// AfterEach appends result-less notification hooks and returns the listeners
// actually registered, for later removal through After().Remove.
func (m *Mediator[K]) AfterEach(fns ...func(K)) []Listener[K, bool] {
	return appendNotifyHooks(m.after, fns)
}

// Channels returns the keys of every materialized channel, in no particular
// order.
func (m *Mediator[K]) Channels() []K {
	if len(m.channels) == 0 {
		return nil
	}
	keys := make([]K, 0, len(m.channels))
	for k := range m.channels {
		keys = append(keys, k)
	}
	return keys
}

// Len reports how many listeners are subscribed under the given key. Unlike
// the descriptor operations it can name arbitrary keys, so it fails with
// ErrUnknownChannel for channels that never materialized.
func (m *Mediator[K]) Len(key K) (int, error) {
	reg, ok := m.channels[key]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownChannel, "channel %v", key)
	}
	return reg.Len(), nil
}

// Clear drops every listener subscribed under the given key. It fails with
// ErrUnknownChannel for channels that never materialized.
func (m *Mediator[K]) Clear(key K) error {
	reg, ok := m.channels[key]
	if !ok {
		return errors.Wrapf(ErrUnknownChannel, "channel %v", key)
	}
	reg.Clear()
	return nil
}

// Stats returns the routing counters accumulated so far.
func (m *Mediator[K]) Stats() MediatorStats {
	return m.stats
}

// resolve returns the typed registry behind ch, materializing it when create
// is set. Without create, a channel that never materialized resolves to
// (nil, nil). A key already bound to a different signature yields
// *SignatureMismatchError.
func resolve[K comparable, T, R any](m *Mediator[K], ch Channel[K, T, R], create bool) (*Event[T, R], error) {
	stored, ok := m.channels[ch.key]
	if !ok {
		if !create {
			return nil, nil
		}
		reg := NewEvent[T, R]()
		m.channels[ch.key] = reg
		m.logger.WithField("channel", ch.key).Debugln("channel registry materialized")
		return reg, nil
	}
	reg, ok := stored.(*Event[T, R])
	if !ok {
		m.logger.WithField("channel", ch.key).Debugln("channel signature mismatch")
		return nil, &SignatureMismatchError{
			Key:        ch.key,
			Registered: reflect.TypeOf(stored),
			Requested:  reflect.TypeOf((*Event[T, R])(nil)),
		}
	}
	return reg, nil
}

// On subscribes listeners to ch, materializing its registry on first use.
func On[K comparable, T, R any](m *Mediator[K], ch Channel[K, T, R], ls ...Listener[T, R]) error {
	reg, err := resolve(m, ch, true)
	if err != nil {
		return err
	}
	reg.Append(ls...)
	return nil
}

// Off removes every occurrence of the given listeners from ch and reports how
// many slots were dropped. Unsubscribing from a channel that never
// materialized is a no-op.
func Off[K comparable, T, R any](m *Mediator[K], ch Channel[K, T, R], ls ...Listener[T, R]) (int, error) {
	reg, err := resolve(m, ch, false)
	if err != nil {
		return 0, err
	}
	if reg == nil {
		return 0, nil
	}
	return reg.Remove(ls...), nil
}

// Registry returns the registry behind ch, materializing it on first use, so
// callers can reach the full Event surface of a channel directly.
func Registry[K comparable, T, R any](m *Mediator[K], ch Channel[K, T, R]) (*Event[T, R], error) {
	return resolve(m, ch, true)
}

// Emit routes one call through ch. Before hooks observe the key first and the
// earliest false return aborts the emit with no results and no error. A
// channel that never materialized is a quiet miss. Otherwise the channel's
// listeners run and, once they complete, after hooks are notified with the
// key.
func Emit[K comparable, T, R any](m *Mediator[K], ch Channel[K, T, R], arg T) ([]R, error) {
	if vetoed(m.before, ch.key) {
		m.stats.Vetoed++
		m.logger.WithField("channel", ch.key).Debugln("emit vetoed")
		return nil, nil
	}
	reg, err := resolve(m, ch, false)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		m.stats.Misses++
		m.logger.WithField("channel", ch.key).Debugln("emit without subscribers")
		return nil, nil
	}
	results := reg.Invoke(arg)
	m.stats.Emits++
	m.after.Fire(ch.key)
	m.logger.WithField("channel", ch.key).Debugf("emit routed to %d listeners", len(results))
	return results, nil
}
