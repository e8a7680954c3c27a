package qadataswap

// Platform-specific functions, wired up by the build-tagged mmap_unix.go
// or mmap_stub.go file that is compiled for the current target.
var (
	unmapMemory      func([]byte) error
	removeSharedFile func(name string) error
	sharedFileExists func(name string) bool
)

// RemoveChannel removes the backing shared-memory file for name, if it
// exists. It does not touch any arena currently mapping that file; it
// is meant for cleaning up after a crashed writer left the segment
// behind.
func RemoveChannel(name string) error {
	return removeSharedFile(name)
}

// ChannelExists reports whether a shared-memory file for name is
// currently present on disk.
func ChannelExists(name string) bool {
	return sharedFileExists(name)
}
