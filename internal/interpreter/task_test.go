package interpreter

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jclot/clot/internal/object"
)

func TestTaskRegistryUnboundedRunsConcurrently(t *testing.T) {
	r := NewTaskRegistry(0)
	var current, max int32
	release := make(chan struct{})

	spawnTracked := func() int64 {
		return r.Spawn(func() (object.Value, error) {
			n := atomic.AddInt32(&current, 1)
			for {
				old := atomic.LoadInt32(&max)
				if n <= old || atomic.CompareAndSwapInt32(&max, old, n) {
					break
				}
			}
			<-release
			atomic.AddInt32(&current, -1)
			return object.Int(0), nil
		})
	}

	ids := []int64{spawnTracked(), spawnTracked(), spawnTracked()}
	time.Sleep(20 * time.Millisecond)
	close(release)
	for _, id := range ids {
		r.Await(id)
	}

	if atomic.LoadInt32(&max) < 2 {
		t.Fatalf("expected unbounded pool to run tasks concurrently, max observed = %d", max)
	}
}

func TestTaskRegistryBoundedLimitsConcurrency(t *testing.T) {
	const workers = 2
	r := NewTaskRegistry(workers)
	var current, max int32
	var wg sync.WaitGroup
	release := make(chan struct{})

	spawnTracked := func() int64 {
		return r.Spawn(func() (object.Value, error) {
			n := atomic.AddInt32(&current, 1)
			for {
				old := atomic.LoadInt32(&max)
				if n <= old || atomic.CompareAndSwapInt32(&max, old, n) {
					break
				}
			}
			<-release
			atomic.AddInt32(&current, -1)
			return object.Int(0), nil
		})
	}

	ids := make([]int64, 5)
	for i := range ids {
		ids[i] = spawnTracked()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)

	wg.Add(len(ids))
	for _, id := range ids {
		id := id
		go func() {
			defer wg.Done()
			r.Await(id)
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&max) > int32(workers) {
		t.Fatalf("expected at most %d tasks running at once, observed %d", workers, max)
	}
}

func TestTaskRegistrySpawnDoesNotBlockWhenPoolSaturated(t *testing.T) {
	r := NewTaskRegistry(1)
	release := make(chan struct{})
	r.Spawn(func() (object.Value, error) {
		<-release
		return object.Int(0), nil
	})

	done := make(chan struct{})
	go func() {
		r.Spawn(func() (object.Value, error) {
			<-release
			return object.Int(0), nil
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Spawn blocked while the worker pool was saturated")
	}
	close(release)
}
