package libev

import (
	"fmt"

	"github.com/pkg/errors"
)

type (
	// Machine pairs a closed set of states with one registry per state and
	// fires that registry whenever a transition lands on the state. The state
	// set is fixed at construction; registries exist from the start, so
	// listeners can subscribe before any transition happens.
	//
	// A machine begins in an initial pseudo-state that belongs to no declared
	// state: it owns no registry and can never be a transition target, it is
	// only observable through the ok flag of State. Self transitions are
	// permitted and run the target registry again.
	//
	// Like Event, a Machine performs no internal locking.
	Machine[S comparable, T, R any] struct {
		registries map[S]*Event[T, R]
		order      []S
		current    S
		previous   S
		started    bool
		hasPrev    bool
		before     *Event[Transition[S], bool]
		after      *Event[Transition[S], bool]
		logger     Logger
		stats      MachineStats
	}

	// Transition describes one pending or completed state change as observed
	// by machine hooks. From holds the zero S and Initial is true while the
	// machine has not left its initial pseudo-state yet.
	Transition[S comparable] struct {
		From    S
		To      S
		Initial bool
	}

	// MachineStats counts transition outcomes since construction.
	MachineStats struct {
		Transitions uint64 // transitions that ran the target registry
		Vetoed      uint64 // transitions aborted by a before hook
	}
)

// String renders the transition as "from -> to", with the initial
// pseudo-state spelled "initial".
func (t Transition[S]) String() string {
	if t.Initial {
		return fmt.Sprintf("initial -> %v", t.To)
	}
	return fmt.Sprintf("%v -> %v", t.From, t.To)
}

// NewMachine declares a machine over the given state set, creating every
// state's registry eagerly. Declaring a state twice fails with
// ErrDuplicateState. A nil logger is replaced by NewEmptyLogger().
func NewMachine[S comparable, T, R any](log Logger, states ...S) (*Machine[S, T, R], error) {
	if log == nil {
		log = NewEmptyLogger()
	}
	m := &Machine[S, T, R]{
		registries: make(map[S]*Event[T, R], len(states)),
		order:      make([]S, 0, len(states)),
		before:     NewEvent[Transition[S], bool](),
		after:      NewEvent[Transition[S], bool](),
		logger:     log,
	}
	for _, s := range states {
		if _, dup := m.registries[s]; dup {
			return nil, errors.Wrapf(ErrDuplicateState, "state %v", s)
		}
		m.registries[s] = NewEvent[T, R]()
		m.order = append(m.order, s)
	}
	return m, nil
}

// States returns the declared states in declaration order.
func (m *Machine[S, T, R]) States() []S {
	states := make([]S, len(m.order))
	copy(states, m.order)
	return states
}

// State returns the current state. ok is false while the machine still sits
// in its initial pseudo-state, before the first transition completed.
func (m *Machine[S, T, R]) State() (s S, ok bool) {
	return m.current, m.started
}

// Previous returns the state the machine held before the current one. ok is
// false until a transition has moved the machine out of a declared state.
func (m *Machine[S, T, R]) Previous() (s S, ok bool) {
	return m.previous, m.hasPrev
}

// Registry returns the registry owned by the given state, so callers can
// reach the full Event surface of a state directly. Undeclared states fail
// with ErrUnknownState.
func (m *Machine[S, T, R]) Registry(s S) (*Event[T, R], error) {
	reg, ok := m.registries[s]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownState, "state %v", s)
	}
	return reg, nil
}

// On appends listeners to the given state's registry.
func (m *Machine[S, T, R]) On(s S, ls ...Listener[T, R]) error {
	reg, err := m.Registry(s)
	if err != nil {
		return err
	}
	reg.Append(ls...)
	return nil
}

// Off removes every occurrence of the given listeners from the given state's
// registry and reports how many slots were dropped.
func (m *Machine[S, T, R]) Off(s S, ls ...Listener[T, R]) (int, error) {
	reg, err := m.Registry(s)
	if err != nil {
		return 0, err
	}
	return reg.Remove(ls...), nil
}

// Before returns the registry of transition veto hooks. Hooks observe the
// pending Transition and may abort it by returning false; see Transition for
// the full protocol.
func (m *Machine[S, T, R]) Before() *Event[Transition[S], bool] {
	return m.before
}

// After returns the registry of transition notification hooks, fired once a
// completed transition's listeners have run. Hook results are ignored.
func (m *Machine[S, T, R]) After() *Event[Transition[S], bool] {
	return m.after
}

// BeforeEach appends plain-function veto hooks and returns the listeners
// actually registered, for later removal through Before().Remove.
func (m *Machine[S, T, R]) BeforeEach(fns ...func(Transition[S]) bool) []Listener[Transition[S], bool] {
	return appendVetoHooks(m.before, fns)
}

// AfterEach appends result-less notification hooks and returns the listeners
// actually registered, for later removal through After().Remove.
func (m *Machine[S, T, R]) AfterEach(fns ...func(Transition[S])) []Listener[Transition[S], bool] {
	return appendNotifyHooks(m.after, fns)
}

// Transition moves the machine to the target state. Undeclared targets fail
// with ErrUnknownState before anything runs. Before hooks then observe the
// pending change and the earliest false return aborts it: no listener runs,
// the state is untouched and the call returns no results and no error.
// Otherwise the target state's listeners run with arg while State still
// reports the old state, the machine moves, and after hooks are notified.
// The listener results are returned in registration order.
func (m *Machine[S, T, R]) Transition(to S, arg T) ([]R, error) {
	reg, ok := m.registries[to]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownState, "transition to %v", to)
	}
	tr := Transition[S]{From: m.current, To: to, Initial: !m.started}
	if vetoed(m.before, tr) {
		m.stats.Vetoed++
		m.logger.WithField("transition", tr).Debugln("transition vetoed")
		return nil, nil
	}
	results := reg.Invoke(arg)
	m.previous, m.hasPrev = m.current, m.started
	m.current = to
	m.started = true
	m.stats.Transitions++
	m.after.Fire(tr)
	m.logger.WithField("transition", tr).Debugln("transition completed")
	return results, nil
}

// Stats returns the transition counters accumulated so far.
func (m *Machine[S, T, R]) Stats() MachineStats {
	return m.stats
}
