//go:build !linux || !(amd64 || arm64)

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

import "os"

func init() {
	unmapMemory = func([]byte) error { return ErrFutexUnsupported }
	removeSharedFile = func(name string) error { return ErrFutexUnsupported }
	sharedFileExists = func(name string) bool { return false }
}

func createShared(name string, totalSize int64) (*os.File, []byte, string, error) {
	return nil, nil, "", ErrFutexUnsupported
}

func openShared(name string) (*os.File, []byte, string, error) {
	return nil, nil, "", ErrFutexUnsupported
}
