package sync_test

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	psync "github.com/plinthlabs/plinth/libs/sync"
)

func TestMutexLifecycleHeapShape(t *testing.T) {
	m, err := psync.NewMutex()
	require.NoError(t, err)
	require.NotNil(t, m)

	m.Lock()
	m.Unlock()
	m.Destroy()
}

func TestMutexLifecycleInPlaceShape(t *testing.T) {
	type queue struct {
		mtx   psync.Mutex
		items []int
	}

	var q queue
	require.NoError(t, q.mtx.Init())

	q.mtx.Lock()
	q.items = append(q.items, 1)
	q.mtx.Unlock()

	q.mtx.Fini()
}

func TestMutexCreateThenDestroy(t *testing.T) {
	// Construct-then-immediately-destroy must not trip the fatal path,
	// for either lifecycle shape.
	m, err := psync.NewMutex()
	require.NoError(t, err)
	m.Destroy()

	var n psync.Mutex
	require.NoError(t, n.Init())
	n.Fini()
}

func TestTryLockBusy(t *testing.T) {
	defer leaktest.Check(t)()

	m, err := psync.NewMutex()
	require.NoError(t, err)

	acquired := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Lock()
		close(acquired)
		<-release
		m.Unlock()
	}()

	<-acquired
	require.ErrorIs(t, m.TryLock(), psync.ErrBusy)

	close(release)
	<-done

	require.NoError(t, m.TryLock())
	m.Unlock()
	m.Destroy()
}

func TestTryLockDoesNotBlock(t *testing.T) {
	m, err := psync.NewMutex()
	require.NoError(t, err)
	m.Lock()

	start := time.Now()
	err = m.TryLock()
	require.ErrorIs(t, err, psync.ErrBusy)
	assert.Less(t, time.Since(start), time.Second)

	m.Unlock()
	m.Destroy()
}

func TestMutualExclusionUnderContention(t *testing.T) {
	defer leaktest.Check(t)()

	m, err := psync.NewMutex()
	require.NoError(t, err)

	const (
		goroutines = 16
		rounds     = 200
	)

	var (
		inCritical int32
		collisions int32
	)

	var g errgroup.Group
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			for j := 0; j < rounds; j++ {
				if err := m.TryLock(); err != nil {
					runtime.Gosched()
					continue
				}
				if atomic.AddInt32(&inCritical, 1) != 1 {
					atomic.AddInt32(&collisions, 1)
				}
				atomic.AddInt32(&inCritical, -1)
				m.Unlock()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.Zero(t, atomic.LoadInt32(&collisions), "two goroutines observed the critical section at once")
	m.Destroy()
}

func TestBlockingLockHandsOff(t *testing.T) {
	defer leaktest.Check(t)()

	m, err := psync.NewMutex()
	require.NoError(t, err)

	const goroutines = 8

	var held int32
	var g errgroup.Group
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			m.Lock()
			if atomic.AddInt32(&held, 1) != 1 {
				t.Error("lock held by more than one goroutine")
			}
			atomic.AddInt32(&held, -1)
			m.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())
	m.Destroy()
}

func TestUnlockNotHeldIsFatal(t *testing.T) {
	restore := psync.SwapAbort(nil)
	defer restore()

	m, err := psync.NewMutex()
	require.NoError(t, err)

	require.Panics(t, func() { m.Unlock() })
}

func TestUnlockByNonHolderIsFatal(t *testing.T) {
	restore := psync.SwapAbort(nil)
	defer restore()

	m, err := psync.NewMutex()
	require.NoError(t, err)

	locked := make(chan struct{})
	go func() {
		m.Lock()
		close(locked)
	}()
	<-locked

	require.Panics(t, func() { m.Unlock() })
}

func TestRelockByHolderIsFatal(t *testing.T) {
	restore := psync.SwapAbort(nil)
	defer restore()

	m, err := psync.NewMutex()
	require.NoError(t, err)
	m.Lock()

	require.Panics(t, func() { m.Lock() })
}

func TestDestroyHeldIsFatal(t *testing.T) {
	restore := psync.SwapAbort(nil)
	defer restore()

	m, err := psync.NewMutex()
	require.NoError(t, err)
	m.Lock()

	require.Panics(t, func() { m.Destroy() })
}

func TestUseAfterDestroyIsFatal(t *testing.T) {
	restore := psync.SwapAbort(nil)
	defer restore()

	m, err := psync.NewMutex()
	require.NoError(t, err)
	m.Destroy()

	require.Panics(t, func() { m.Lock() })
	require.Panics(t, func() { _ = m.TryLock() })
	require.Panics(t, func() { m.Destroy() })
}

func TestDoubleInitIsFatal(t *testing.T) {
	restore := psync.SwapAbort(nil)
	defer restore()

	var m psync.Mutex
	require.NoError(t, m.Init())
	require.Panics(t, func() { _ = m.Init() })
}
