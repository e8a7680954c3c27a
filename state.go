package qadataswap

//go:generate stringer -type=ArenaState

// ArenaState tracks what role, if any, an Arena has bound to its
// underlying shared-memory segment.
type ArenaState int32

const (
	StateUnbound ArenaState = iota
	StateWriter
	StateReader
	StateClosed
)
