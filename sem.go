package qadataswap

import (
	"errors"
	"sync/atomic"
	"time"
)

// semState is the shared-memory-resident state backing a futex-based
// counting semaphore. The original shared memory header names a pair
// of POSIX named semaphores (write_sem_name / read_sem_name); Go has no
// cgo-free binding for sem_open, so the same counting behaviour is
// reconstructed here directly on top of the futex primitives the arena
// already needs for its slot protocol. count is the number of
// available permits; seq is a futex word bumped on every Post so that
// blocked waiters are woken.
type semState struct {
	count uint32
	seq   uint32
}

// Sem is a handle to a semState living in shared memory. It is safe for
// concurrent use by multiple processes mapping the same memory.
type Sem struct {
	state *semState
}

// newSem returns a Sem wrapping state.
func newSem(state *semState) *Sem {
	return &Sem{state: state}
}

// initSem sets the initial permit count for a freshly created
// semaphore. Callers must only do this once, before any process begins
// waiting on or posting to the semaphore.
func initSem(state *semState, count uint32) {
	state.count = count
	state.seq = 0
}

// Wait blocks until a permit is available or timeoutMs elapses, then
// consumes one permit.
//
// timeoutMs > 0 waits up to that many milliseconds and returns
// ErrTimeout if none became available in time. timeoutMs == 0 polls
// once, returning ErrTimeout immediately if no permit is free.
// timeoutMs < 0 waits indefinitely.
func (s *Sem) Wait(timeoutMs int) error {
	var deadline time.Time
	hasDeadline := timeoutMs > 0
	if hasDeadline {
		deadline = time.Now().Add(time.Duration(timeoutMs) * time.Millisecond)
	}

	for {
		if c := atomic.LoadUint32(&s.state.count); c > 0 {
			if atomic.CompareAndSwapUint32(&s.state.count, c, c-1) {
				return nil
			}
			continue
		}

		if timeoutMs == 0 {
			return ErrTimeout
		}

		seq := atomic.LoadUint32(&s.state.seq)
		if atomic.LoadUint32(&s.state.count) > 0 {
			continue
		}

		waitNs := int64(-1)
		if hasDeadline {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return ErrTimeout
			}
			waitNs = remaining.Nanoseconds()
		}

		err := futexWaitTimeout(&s.state.seq, seq, waitNs)
		if errors.Is(err, ErrFutexTimeout) {
			if hasDeadline {
				continue
			}
			return ErrTimeout
		}
		if err != nil {
			return err
		}
	}
}

// Post releases one permit and wakes a single waiter, if any.
func (s *Sem) Post() error {
	atomic.AddUint32(&s.state.count, 1)
	atomic.AddUint32(&s.state.seq, 1)
	_, err := futexWake(&s.state.seq, 1)
	return err
}
