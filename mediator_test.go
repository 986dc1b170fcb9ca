package libev

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediatorRoutesToSubscribers(t *testing.T) {
	m := NewMediator[string](nil)
	increment := NewChannel[string, int, bool]("increment")

	counter := 0
	require.NoError(t, On(m, increment, increment.Sink(func(amount int) {
		counter += amount
	})))

	_, err := Emit(m, increment, 5)
	require.NoError(t, err)
	_, err = Emit(m, increment, 3)
	require.NoError(t, err)

	assert.Equal(t, 8, counter)
	assert.Equal(t, uint64(2), m.Stats().Emits)
}

func TestMediatorEmitCollectsResults(t *testing.T) {
	m := NewMediator[string](nil)
	sum := NewChannel[string, int, int]("sum")

	require.NoError(t, On(m, sum, sum.Func(addOne), sum.Func(timesTwo)))

	results, err := Emit(m, sum, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 8}, results)
}

func TestMediatorBeforeHookVeto(t *testing.T) {
	m := NewMediator[string](nil)
	increment := NewChannel[string, int, bool]("increment")

	counter := 0
	require.NoError(t, On(m, increment, increment.Sink(func(amount int) {
		counter += amount
	})))

	// The hook only lets the "reset" channel through.
	m.BeforeEach(func(channel string) bool { return channel == "reset" })

	afterRan := false
	m.AfterEach(func(string) { afterRan = true })

	results, err := Emit(m, increment, 5)

	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Equal(t, 0, counter, "vetoed emit must not reach listeners")
	assert.False(t, afterRan, "after hooks must not run for vetoed emits")
	assert.Equal(t, uint64(1), m.Stats().Vetoed)
	assert.Equal(t, uint64(0), m.Stats().Emits)
}

func TestMediatorBeforeHooksShortCircuit(t *testing.T) {
	m := NewMediator[string](nil)
	var order []string

	m.BeforeEach(
		func(string) bool { order = append(order, "first"); return true },
		func(string) bool { order = append(order, "second"); return false },
		func(string) bool { order = append(order, "third"); return true },
	)

	_, err := Emit(m, NewChannel[string, int, bool]("anything"), 1)

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestMediatorEmitWithoutSubscribersIsQuiet(t *testing.T) {
	m := NewMediator[string](nil)
	ghost := NewChannel[string, int, bool]("ghost")

	var seen []string
	m.BeforeEach(func(channel string) bool {
		seen = append(seen, channel)
		return true
	})
	afterRan := false
	m.AfterEach(func(string) { afterRan = true })

	results, err := Emit(m, ghost, 99)

	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Equal(t, []string{"ghost"}, seen, "before hooks observe misses too")
	assert.False(t, afterRan, "after hooks only run for routed emits")
	assert.Equal(t, uint64(1), m.Stats().Misses)
}

func TestMediatorEmitToEmptiedChannel(t *testing.T) {
	m := NewMediator[string](nil)
	jobs := NewChannel[string, int, bool]("jobs")

	l := jobs.Sink(func(int) {})
	require.NoError(t, On(m, jobs, l))
	removed, err := Off(m, jobs, l)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	afterRan := false
	m.AfterEach(func(string) { afterRan = true })

	// The channel materialized once, so the emit still routes.
	results, err := Emit(m, jobs, 1)

	require.NoError(t, err)
	assert.Empty(t, results)
	assert.True(t, afterRan)
	assert.Equal(t, uint64(1), m.Stats().Emits)
	assert.Equal(t, uint64(0), m.Stats().Misses)
}

func TestMediatorAfterHooksRunInOrder(t *testing.T) {
	m := NewMediator[string](nil)
	ping := NewChannel[string, string, bool]("ping")

	var order []string
	require.NoError(t, On(m, ping, ping.Sink(func(string) {
		order = append(order, "listener")
	})))
	m.AfterEach(
		func(string) { order = append(order, "after-1") },
		func(string) { order = append(order, "after-2") },
	)

	_, err := Emit(m, ping, "hello")

	require.NoError(t, err)
	assert.Equal(t, []string{"listener", "after-1", "after-2"}, order)
}

func TestMediatorSignatureMismatch(t *testing.T) {
	m := NewMediator[string](nil)
	ints := NewChannel[string, int, bool]("metrics")
	strs := NewChannel[string, string, bool]("metrics")

	require.NoError(t, On(m, ints, NoopListener[int, bool]()))

	err := On(m, strs, NoopListener[string, bool]())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSignatureMismatch)

	var mismatch *SignatureMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, strs.Key(), mismatch.Key)
	assert.Contains(t, err.Error(), "metrics")

	// Off and Emit trip over the same binding.
	_, err = Off(m, strs, NoopListener[string, bool]())
	assert.ErrorIs(t, err, ErrSignatureMismatch)
	_, err = Emit(m, strs, "boom")
	assert.ErrorIs(t, err, ErrSignatureMismatch)

	// The original binding keeps working.
	_, err = Emit(m, ints, 1)
	assert.NoError(t, err)
}

func TestMediatorChannelsWithUnrelatedSignatures(t *testing.T) {
	type order struct {
		id     string
		amount int
	}

	m := NewMediator[string](nil)
	placed := NewChannel[string, order, error]("order.placed")
	notified := NewChannel[string, string, bool]("user.notified")

	var placedIDs []string
	require.NoError(t, On(m, placed, placed.Func(func(o order) error {
		placedIDs = append(placedIDs, o.id)
		return nil
	})))
	notifiedCount := 0
	require.NoError(t, On(m, notified, notified.Sink(func(string) {
		notifiedCount++
	})))

	results, err := Emit(m, placed, order{id: "A-1", amount: 3})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NoError(t, results[0])

	_, err = Emit(m, notified, "A-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"A-1"}, placedIDs)
	assert.Equal(t, 1, notifiedCount)
}

func TestMediatorOffRemovesEveryOccurrence(t *testing.T) {
	m := NewMediator[string](nil)
	jobs := NewChannel[string, int, bool]("jobs")

	l := NoopListener[int, bool]()
	require.NoError(t, On(m, jobs, l, l, l))

	removed, err := Off(m, jobs, l)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	n, err := m.Len("jobs")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMediatorOffUnknownChannelIsNoop(t *testing.T) {
	m := NewMediator[string](nil)

	removed, err := Off(m, NewChannel[string, int, bool]("ghost"), NoopListener[int, bool]())

	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestMediatorRawKeyOperations(t *testing.T) {
	m := NewMediator[string](nil)
	jobs := NewChannel[string, int, bool]("jobs")

	_, err := m.Len("jobs")
	assert.ErrorIs(t, err, ErrUnknownChannel)
	assert.ErrorIs(t, m.Clear("jobs"), ErrUnknownChannel)
	assert.Nil(t, m.Channels())

	require.NoError(t, On(m, jobs, NoopListener[int, bool](), NoopListener[int, bool]()))

	n, err := m.Len("jobs")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"jobs"}, m.Channels())

	require.NoError(t, m.Clear("jobs"))
	n, err = m.Len("jobs")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMediatorRegistryAccess(t *testing.T) {
	m := NewMediator[string](nil)
	jobs := NewChannel[string, int, int]("jobs")

	reg, err := Registry(m, jobs)
	require.NoError(t, err)

	// The registry is live: composing through it is visible to Emit.
	reg.Append(&funcListener[int, int]{HandleFunc: timesTwo})
	reg.Prepend(Func(addOne))

	results, err := Emit(m, jobs, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 10}, results)
}

func TestMediatorMockListener(t *testing.T) {
	m := NewMediator[string](nil)
	jobs := NewChannel[string, int, bool]("jobs")

	var tapped []int
	ml := &mockListener[int, bool]{tapHandle: func(arg int) { tapped = append(tapped, arg) }}
	ml.On("Handle", 7).Return(true)

	require.NoError(t, On(m, jobs, ml))

	results, err := Emit(m, jobs, 7)
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, results)

	ml.AssertExpectations(t)
	ml.AssertNumberOfCalls(t, "Handle", 1)
	assert.Equal(t, []int{7}, tapped)
}

func TestMediatorLogsVeto(t *testing.T) {
	var buf bytes.Buffer
	m := NewMediator[string](newWriterLogger(&buf))
	m.BeforeEach(func(string) bool { return false })

	_, err := Emit(m, NewChannel[string, int, bool]("blocked"), 1)

	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "emit vetoed"))
	assert.True(t, strings.Contains(buf.String(), "channel=blocked"))
}
