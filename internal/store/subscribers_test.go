package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscribers_OrderAndRemoval(t *testing.T) {
	var subs subscribers[int]
	var calls []string

	subs.add(func(v int) { calls = append(calls, "a") })
	removeB := subs.add(func(v int) { calls = append(calls, "b") })
	subs.add(func(v int) { calls = append(calls, "c") })

	subs.notify(1)
	assert.Equal(t, []string{"a", "b", "c"}, calls)

	removeB()
	calls = nil
	subs.notify(2)
	assert.Equal(t, []string{"a", "c"}, calls)
	assert.Equal(t, 2, subs.len())
}

func TestSubscribers_UnsubscribeDuringNotify(t *testing.T) {
	var subs subscribers[int]
	count := 0

	var remove func()
	remove = subs.add(func(int) {
		count++
		remove()
	})

	subs.notify(1)
	subs.notify(2)
	assert.Equal(t, 1, count)
	assert.Zero(t, subs.len())
}
