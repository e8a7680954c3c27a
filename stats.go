package qadataswap

import "sync/atomic"

// stats holds the in-process counters an Arena accumulates across its
// lifetime. They are process-local (unlike the header fields), since
// they describe this handle's view of traffic rather than arena-wide
// state shared across processes.
type stats struct {
	bytesWritten uint64
	bytesRead    uint64
	writes       uint64
	reads        uint64
	waitTimeouts uint64
}

// Stats is a point-in-time snapshot of an Arena's traffic counters.
type Stats struct {
	BytesWritten uint64
	BytesRead    uint64
	Writes       uint64
	Reads        uint64
	WaitTimeouts uint64
}

func (s *stats) addWrite(n int) {
	atomic.AddUint64(&s.bytesWritten, uint64(n))
	atomic.AddUint64(&s.writes, 1)
}

func (s *stats) addRead(n int) {
	atomic.AddUint64(&s.bytesRead, uint64(n))
	atomic.AddUint64(&s.reads, 1)
}

func (s *stats) addTimeout() {
	atomic.AddUint64(&s.waitTimeouts, 1)
}

func (s *stats) snapshot() Stats {
	return Stats{
		BytesWritten: atomic.LoadUint64(&s.bytesWritten),
		BytesRead:    atomic.LoadUint64(&s.bytesRead),
		Writes:       atomic.LoadUint64(&s.writes),
		Reads:        atomic.LoadUint64(&s.reads),
		WaitTimeouts: atomic.LoadUint64(&s.waitTimeouts),
	}
}
