//go:build linux && (amd64 || arm64)

/*
 *
 * Copyright 2025 The QADataSwap Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package qadataswap

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

func init() {
	unmapMemory = munmapImpl
	removeSharedFile = removeSharedFileImpl
	sharedFileExists = sharedFileExistsImpl
}

// createShared creates and maps a new shared-memory-backed file of size
// totalSize bytes for channel name. It fails if the backing file
// already exists, mirroring shm_open's O_EXCL semantics.
func createShared(name string, totalSize int64) (*os.File, []byte, string, error) {
	path := generateSharedPath(name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, nil, "", ErrNameInUse
		}
		return nil, nil, "", fmt.Errorf("create shared file %s: %w", path, err)
	}

	cleanup := func() {
		file.Close()
		os.Remove(path)
	}

	if err := file.Truncate(totalSize); err != nil {
		cleanup()
		return nil, nil, "", fmt.Errorf("resize shared file: %w", err)
	}

	mem, err := mmapFile(file, int(totalSize))
	if err != nil {
		cleanup()
		return nil, nil, "", err
	}

	return file, mem, path, nil
}

// openShared opens and maps an existing shared-memory-backed file for
// channel name.
func openShared(name string) (*os.File, []byte, string, error) {
	path := generateSharedPath(name)

	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, "", ErrNoSuchChannel
		}
		return nil, nil, "", fmt.Errorf("open shared file %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, "", fmt.Errorf("stat shared file: %w", err)
	}

	mem, err := mmapFile(file, int(info.Size()))
	if err != nil {
		file.Close()
		return nil, nil, "", err
	}

	return file, mem, path, nil
}

// generateSharedPath returns the backing file path for channel name,
// preferring the tmpfs-backed /dev/shm and falling back to the system
// temp directory when it isn't available.
func generateSharedPath(name string) string {
	if isDevShmAvailable() {
		return filepath.Join("/dev/shm", "qads_"+name)
	}
	return filepath.Join(os.TempDir(), "qads_"+name)
}

func isDevShmAvailable() bool {
	info, err := os.Stat("/dev/shm")
	if err != nil {
		return false
	}
	return info.IsDir()
}

func mmapFile(file *os.File, size int) ([]byte, error) {
	fd := int(file.Fd())
	data, err := syscall.Mmap(fd, 0, size, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMmapFailed, err)
	}
	return data, nil
}

func munmapImpl(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := syscall.Munmap(data); err != nil {
		return fmt.Errorf("munmap failed: %w", err)
	}
	return nil
}

func removeSharedFileImpl(name string) error {
	paths := []string{
		filepath.Join("/dev/shm", "qads_"+name),
		filepath.Join(os.TempDir(), "qads_"+name),
	}
	var lastErr error
	for _, path := range paths {
		if err := os.Remove(path); err == nil {
			return nil
		} else if !os.IsNotExist(err) {
			lastErr = err
		}
	}
	if lastErr != nil {
		return lastErr
	}
	return nil
}

func sharedFileExistsImpl(name string) bool {
	paths := []string{
		filepath.Join("/dev/shm", "qads_"+name),
		filepath.Join(os.TempDir(), "qads_"+name),
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}
