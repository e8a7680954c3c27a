package qadataswap

// Default sizing for a new arena. These mirror CreateSharedDataFrame's
// defaults in the reference C++ implementation: a 100 MiB arena split
// across 3 slots, within this package's typical N range of 3-16.
const (
	DefaultArenaSize   = 100 << 20
	DefaultBufferCount = 3
	MinBufferCount     = 1

	// CacheLineSize is the assumed width of a cache line on the target
	// platforms (amd64, arm64). Hot atomic counters in Header are padded
	// to multiples of this to avoid false sharing between writer and
	// reader processes.
	CacheLineSize = 64
)

// ArenaConfig describes how to create a new shared-memory arena. Use
// DefaultArenaConfig to start from sane defaults and override only the
// fields that matter for a given channel.
type ArenaConfig struct {
	// Name identifies the channel. It is combined with fixed prefixes to
	// derive the shared-memory object path and the two semaphore names
	// recorded in the header for diagnostic purposes.
	Name string

	// TotalSize is the total number of bytes to allocate for the arena,
	// including the header and all slots. Must be large enough to hold
	// the header plus at least one non-empty slot.
	TotalSize int64

	// BufferCount is the number of fixed-size slots in the ring. Must be
	// at least MinBufferCount.
	BufferCount uint32
}

// DefaultArenaConfig returns an ArenaConfig for name with the package's
// default size and slot count.
func DefaultArenaConfig(name string) ArenaConfig {
	return ArenaConfig{
		Name:        name,
		TotalSize:   DefaultArenaSize,
		BufferCount: DefaultBufferCount,
	}
}
