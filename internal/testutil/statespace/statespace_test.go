package statespace

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasics(t *testing.T) {
	failures := []string{}
	subject := func(state int) string { return strconv.Itoa(state) }

	Test(subject).
		WithSeed(1).
		WithMutation("increment by one", func(state int) int {
			return state + 1
		}).
		WithMutation("increment by 10", func(state int) int {
			return state + 10
		}).
		WithInvariant("fail on initial", func(_ int, result string) bool {
			return result != "0"
		}).
		WithInvariant("never fail", func(_ int, result string) bool {
			return result != ""
		}).
		WithInvariant("fail when 1", func(_ int, result string) bool {
			return result != "1"
		}).
		WithInvariant("fail when 11", func(state int, result string) bool {
			return result != "11"
		}).
		evaluate(func(msg string, args ...any) {
			failures = append(failures, fmt.Sprintf(msg, args...))
		})

	assert.ElementsMatch(t, []string{
		"invariant 'fail on initial' failed with mutations [] (seed 1)",
		"invariant 'fail when 1' failed with mutations [increment by one] (seed 1)",
		"invariant 'fail when 11' failed with mutations [increment by one, increment by 10] (seed 1)",
	}, failures)
}

func TestInitialStateIsFresh(t *testing.T) {
	Test(func(s []string) int { return len(s) }).
		WithInitialState(func() []string { return []string{} }).
		WithMutation("a", func(s []string) []string { return append(s, "a") }).
		WithMutation("b", func(s []string) []string { return append(s, "b") }).
		WithMutation("c", func(s []string) []string { return append(s, "c") }).
		WithInvariant("no duplicates", func(s []string, _ int) bool {
			return len(s) <= 3 && !strings.Contains(strings.Join(s, ""), "aa")
		}).
		Evaluate(t)
}

func TestEnumeratesEverySubset(t *testing.T) {
	seen := map[int]bool{}
	Test(func(s int) int { seen[s] = true; return s }).
		WithMutation("1", func(s int) int { return s | 1 }).
		WithMutation("2", func(s int) int { return s | 2 }).
		WithMutation("4", func(s int) int { return s | 4 }).
		WithMutation("8", func(s int) int { return s | 8 }).
		Evaluate(t)

	assert.Len(t, seen, 16)
}
