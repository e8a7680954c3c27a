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

// Package qadataswap provides a cross-process, zero-copy columnar data
// transport built on POSIX shared memory.
//
// One writer publishes sequentially numbered record batches into a ring of
// fixed-size slots inside a shared-memory arena; one or more readers consume
// them. The arena owns the shared-memory mapping, the header and per-slot
// state layout, the slot-level producer/consumer protocol, and a pair of
// futex-backed counting semaphores used to block writers when the ring is
// full and readers when it is empty. Serialization of a record batch to and
// from a slot's byte region is delegated to a pluggable Codec; this package
// never inspects the payload bytes it moves.
package qadataswap
