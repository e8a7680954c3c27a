package qadataswap

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// maxChannelNameLen follows from the fixed-size write_sem_name/read_sem_name
// char arrays in the original shared memory header: 64 bytes including the
// terminating NUL. The derived names add a "/qads_w_" or "/qads_r_"
// prefix (8 bytes) to the channel name, so the channel name itself is
// capped at 64 - 8 - 1 = 55 bytes.
const maxChannelNameLen = 55

// validateChannelName rejects channel names that are empty, too long to
// fit in the header's fixed-size semaphore name fields once prefixed, or
// that contain characters which would be awkward in a filesystem path
// (shared memory objects are backed by files under /dev/shm on Linux).
func validateChannelName(name string) error {
	if name == "" {
		return ErrInvalidName
	}
	if len(name) > maxChannelNameLen {
		return ErrNameTooLong
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.':
		default:
			return fmt.Errorf("%w: disallowed character %q", ErrInvalidName, r)
		}
	}
	return nil
}

// arenaPath returns the shared-memory object name for channel name.
func arenaPath(name string) string {
	return "/qads_" + name
}

// writeSemName and readSemName return the diagnostic semaphore names
// recorded in the header. The actual synchronization is performed by
// futex-backed Sem values living inside the arena, not by POSIX named
// semaphores, but the names are kept so DebugState output and the
// on-disk layout stay legible and comparable to the reference
// implementation.
func writeSemName(name string) string {
	return "/qads_w_" + name
}

func readSemName(name string) string {
	return "/qads_r_" + name
}

// GenerateChannelName returns a collision-resistant channel name built
// from prefix and a random UUID suffix, suitable for tests and for
// callers that don't need a stable, human-chosen name.
func GenerateChannelName(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	name := prefix + "_" + id
	if len(name) > maxChannelNameLen {
		name = name[:maxChannelNameLen]
	}
	return name
}
