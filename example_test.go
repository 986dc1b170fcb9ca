package libev_test

import (
	"fmt"

	"github.com/sonirico/libev"
)

func ExampleEvent() {
	registry := libev.NewEvent[int, int]()
	registry.Append(
		libev.Func(func(n int) int { return n + 1 }),
		libev.Func(func(n int) int { return n * n }),
	)

	fmt.Println(registry.Invoke(4))
	// Output: [5 16]
}

func ExampleMediator() {
	m := libev.NewMediator[string](nil)
	increment := libev.NewChannel[string, int, bool]("increment")

	counter := 0
	if err := libev.On(m, increment, increment.Sink(func(amount int) {
		counter += amount
	})); err != nil {
		fmt.Println(err)
		return
	}

	// Emits survive as long as no before hook answers false.
	m.BeforeEach(func(channel string) bool { return channel != "blocked" })

	libev.Emit(m, increment, 5)
	libev.Emit(m, increment, 3)

	fmt.Println(counter)
	// Output: 8
}

func ExampleMachine() {
	machine, err := libev.NewMachine[string, string, bool](nil, "running", "stopped")
	if err != nil {
		fmt.Println(err)
		return
	}

	machine.On("running", libev.Sink[string, bool](func(reason string) {
		fmt.Println("started:", reason)
	}))
	machine.On("stopped", libev.Sink[string, bool](func(reason string) {
		fmt.Println("halted:", reason)
	}))
	machine.AfterEach(func(tr libev.Transition[string]) {
		fmt.Println("moved", tr.String())
	})

	machine.Transition("running", "boot")
	machine.Transition("stopped", "shutdown")

	// Output:
	// started: boot
	// moved initial -> running
	// halted: shutdown
	// moved running -> stopped
}

func ExampleEvent_prepend() {
	registry := libev.NewEvent[string, string]()
	registry.Append(libev.Func(func(s string) string { return s + "-last" }))
	registry.Prepend(
		libev.Func(func(s string) string { return s + "-first" }),
		libev.Func(func(s string) string { return s + "-second" }),
	)

	fmt.Println(registry.Invoke("x"))
	// Output: [x-first x-second x-last]
}
