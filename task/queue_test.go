package task

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_ScheduleDefersUntilDrain(t *testing.T) {
	q := NewQueue()
	ran := false
	q.Schedule(func() { ran = true })

	assert.False(t, ran)
	assert.Equal(t, 1, q.Len())

	assert.Equal(t, 1, q.Drain())
	assert.True(t, ran)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_DrainRunsInOrder(t *testing.T) {
	q := NewQueue()
	var got []int
	for i := 0; i < 3; i++ {
		q.Schedule(func() { got = append(got, i) })
	}
	q.Drain()
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestQueue_TasksScheduledDuringDrainWait(t *testing.T) {
	q := NewQueue()
	var got []string
	q.Schedule(func() {
		got = append(got, "first")
		q.Schedule(func() { got = append(got, "second") })
	})

	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, []string{"first"}, got)

	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestQueue_NilTaskIgnored(t *testing.T) {
	q := NewQueue()
	q.Schedule(nil)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_WaitYieldsReady(t *testing.T) {
	q := NewQueue()
	done := make(chan any, 1)
	go func() { done <- q.Wait()() }()

	select {
	case <-done:
		t.Fatal("Wait returned before anything was scheduled")
	case <-time.After(20 * time.Millisecond):
	}

	q.Schedule(func() {})
	select {
	case msg := <-done:
		ready, ok := msg.(ReadyMsg)
		require.True(t, ok)
		assert.Same(t, q, ready.Queue)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Schedule")
	}
}

func TestQueue_ConcurrentSchedule(t *testing.T) {
	q := NewQueue()
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		n  int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Schedule(func() {
				mu.Lock()
				n++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, q.Drain())
	assert.Equal(t, 50, n)
}
