package libev

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyRegistry is returned by the end accessors of an Event when the
	// registry holds no listeners.
	ErrEmptyRegistry = errors.New("registry has no listeners")
	// ErrUnknownState is returned by machine operations naming a state that
	// was not declared at construction.
	ErrUnknownState = errors.New("state is not declared on this machine")
	// ErrDuplicateState is returned by NewMachine when a state is declared
	// more than once.
	ErrDuplicateState = errors.New("state is declared more than once")
	// ErrUnknownChannel is returned by raw key mediator operations naming a
	// channel that was never used.
	ErrUnknownChannel = errors.New("channel has never been used")
	// ErrSignatureMismatch matches every SignatureMismatchError through
	// errors.Is.
	ErrSignatureMismatch = errors.New("channel signature mismatch")
)

// SignatureMismatchError reports a mediator key that is already bound to one
// listener signature being used through a descriptor carrying another.
type SignatureMismatchError struct {
	Key        any
	Registered reflect.Type // registry type the key was first used with
	Requested  reflect.Type // registry type presented by the failing call
}

func (e *SignatureMismatchError) Error() string {
	return fmt.Sprintf("channel %v: registered as %s, requested as %s", e.Key, e.Registered, e.Requested)
}

// Is reports whether target is ErrSignatureMismatch.
func (e *SignatureMismatchError) Is(target error) bool {
	return target == ErrSignatureMismatch
}
