package statespace

import (
	"math/rand/v2"
	"strings"
	"testing"
)

// Model enumerates every subset of a set of named mutations, applies each subset to a fresh
// initial state, and asserts a list of invariants over the subject's result for that state.
//
// Mutations within a subset are applied in a random order to surface order dependence.
// The random source is seeded per model and the seed is included in failure messages.
type Model[State any, Result any] struct {
	initial     func() State
	subject     func(State) Result
	transitions []mutation[State]
	invariants  []invariant[State, Result]
	seed        uint64
}

type invariant[T any, TT any] struct {
	Name   string
	Assert func(T, TT) bool
}

type mutation[T any] struct {
	Name string
	Func func(T) T
}

// Test creates a new model for testing the given subject.
func Test[T any, TT any](fn func(T) TT) *Model[T, TT] {
	return &Model[T, TT]{subject: fn, seed: rand.Uint64()}
}

// WithInitialState sets the constructor of the state before any mutation is applied.
// It's called once per subset so mutations can modify the state in place.
func (m *Model[T, TT]) WithInitialState(fn func() T) *Model[T, TT] {
	m.initial = fn
	return m
}

func (m *Model[T, TT]) WithMutation(name string, fn func(T) T) *Model[T, TT] {
	m.transitions = append(m.transitions, mutation[T]{Name: name, Func: fn})
	return m
}

func (m *Model[T, TT]) WithInvariant(name string, fn func(state T, result TT) bool) *Model[T, TT] {
	m.invariants = append(m.invariants, invariant[T, TT]{Name: name, Assert: fn})
	return m
}

// WithSeed pins the random source, typically to reproduce a reported failure.
func (m *Model[T, TT]) WithSeed(seed uint64) *Model[T, TT] {
	m.seed = seed
	return m
}

func (m *Model[T, TT]) Evaluate(t testing.TB) {
	t.Helper()
	m.evaluate(t.Errorf)
}

func (m *Model[T, TT]) evaluate(fail func(msg string, args ...any)) {
	rng := rand.New(rand.NewPCG(m.seed, m.seed))

	n := len(m.transitions)
	for _, i := range rng.Perm(1 << n) {
		enabled := make([]bool, n)
		for j := range enabled {
			enabled[j] = (i>>j)&1 == 1
		}

		var state T
		if m.initial != nil {
			state = m.initial()
		}
		for _, j := range rng.Perm(n) {
			if enabled[j] {
				state = m.transitions[j].Func(state)
			}
		}

		result := m.subject(state)
		for _, inv := range m.invariants {
			if inv.Assert(state, result) {
				continue
			}
			var names []string
			for j, on := range enabled {
				if on {
					names = append(names, m.transitions[j].Name)
				}
			}
			fail("invariant '%s' failed with mutations [%s] (seed %d)", inv.Name, strings.Join(names, ", "), m.seed)
		}
	}
}
