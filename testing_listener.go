package libev

import "github.com/stretchr/testify/mock"

type mockListener[T, R any] struct {
	mock.Mock

	tapHandle func(arg T)
}

func (m *mockListener[T, R]) Handle(arg T) R {
	if m.tapHandle != nil {
		m.tapHandle(arg)
	}
	args := m.Called(arg)
	return args.Get(0).(R)
}

// recorderListener records every argument it handles and answers with a fixed
// result. Each recorder is its own identity: registries match it by pointer.
type recorderListener[T, R any] struct {
	got    []T
	result R
}

func (r *recorderListener[T, R]) Handle(arg T) R {
	r.got = append(r.got, arg)
	return r.result
}

type funcListener[T, R any] struct {
	HandleFunc func(arg T) R
}

func (f *funcListener[T, R]) Handle(arg T) R {
	return f.HandleFunc(arg)
}
