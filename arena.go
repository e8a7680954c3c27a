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
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"
	"unsafe"
)

// Arena is a handle to a shared-memory ring of fixed-size slots. A
// single process binds an Arena as a writer; any number of other
// processes bind their own Arena value, opened against the same
// channel name, as readers. Arena is not safe for concurrent Write
// calls from multiple goroutines in the writer process, nor concurrent
// Read calls from multiple goroutines in a single reader process: the
// one-writer/N-reader contract is across processes, and within a
// process callers are expected to serialize their own access, exactly
// as the underlying slot protocol assumes a single producer and a
// single consumer per bound role.
type Arena struct {
	cfg   ArenaConfig
	codec Codec

	file *os.File
	mem  []byte
	path string

	header *Header
	layout Layout

	freeSem  *Sem
	readySem *Sem

	state  atomic.Int32
	closed atomic.Bool

	stats stats
}

// New returns an unbound Arena for cfg, validating the configuration
// but not yet touching shared memory. Call BindWriter or BindReader to
// attach it to a channel. codec may be nil, in which case GobCodec{} is
// used.
func New(cfg ArenaConfig, codec Codec) (*Arena, error) {
	if err := validateChannelName(cfg.Name); err != nil {
		return nil, err
	}
	if cfg.BufferCount < MinBufferCount {
		return nil, ErrInvalidBufferCount
	}
	if _, err := CalculateLayout(cfg.TotalSize, cfg.BufferCount); err != nil {
		return nil, err
	}
	if codec == nil {
		codec = GobCodec{}
	}
	a := &Arena{cfg: cfg, codec: codec}
	a.state.Store(int32(StateUnbound))
	return a, nil
}

// BindWriter creates the backing shared-memory segment for the arena's
// channel and binds this handle as its writer. It fails with
// ErrNameInUse if a segment with this channel name already exists, and
// ErrAlreadyBound if this handle is already bound.
func (a *Arena) BindWriter() error {
	if ArenaState(a.state.Load()) != StateUnbound {
		return ErrAlreadyBound
	}

	layout, err := CalculateLayout(a.cfg.TotalSize, a.cfg.BufferCount)
	if err != nil {
		return err
	}

	file, mem, path, err := createShared(a.cfg.Name, layout.TotalSize)
	if err != nil {
		return err
	}

	header := (*Header)(unsafe.Pointer(&mem[0]))
	header.magic = Magic
	header.version = LayoutVersion
	header.totalSize = layout.TotalSize
	header.headerSize = layout.HeaderSize
	header.bufferCount = layout.BufferCount
	header.slotSize = layout.SlotSize
	header.buffersOffset = layout.BuffersOffset
	header.SetWriteSemName(writeSemName(a.cfg.Name))
	header.SetReadSemName(readSemName(a.cfg.Name))
	header.SetWriterActive(true)

	initSem(&header.freeSem, layout.BufferCount)
	initSem(&header.readySem, 0)

	a.file = file
	a.mem = mem
	a.path = path
	a.header = header
	a.layout = layout
	a.freeSem = newSem(&header.freeSem)
	a.readySem = newSem(&header.readySem)

	a.state.Store(int32(StateWriter))
	return nil
}

// BindReader opens the existing backing shared-memory segment for the
// arena's channel and binds this handle as one of its readers. It
// fails with ErrNoSuchChannel if no writer has created the segment
// yet, and ErrAlreadyBound if this handle is already bound.
func (a *Arena) BindReader() error {
	if ArenaState(a.state.Load()) != StateUnbound {
		return ErrAlreadyBound
	}

	file, mem, path, err := openShared(a.cfg.Name)
	if err != nil {
		return err
	}

	header := (*Header)(unsafe.Pointer(&mem[0]))
	if err := ValidateHeader(header); err != nil {
		unmapMemory(mem)
		file.Close()
		return err
	}

	layout, err := CalculateLayout(header.TotalSize(), header.BufferCount())
	if err != nil {
		unmapMemory(mem)
		file.Close()
		return err
	}

	a.file = file
	a.mem = mem
	a.path = path
	a.header = header
	a.layout = layout
	a.freeSem = newSem(&header.freeSem)
	a.readySem = newSem(&header.readySem)

	header.IncrementReaderCount()

	a.state.Store(int32(StateReader))
	return nil
}

// Write publishes batch to the next slot in the ring, blocking for up
// to timeoutMs milliseconds (see Sem.Wait for the exact semantics of
// the timeout value) for a free slot to become available. It returns
// ErrNotWriter if this arena is not bound as a writer, and
// ErrPayloadTooLarge if the encoded batch does not fit in a slot.
func (a *Arena) Write(batch *Batch, timeoutMs int) error {
	if ArenaState(a.state.Load()) != StateWriter {
		return ErrNotWriter
	}
	if err := batch.Validate(); err != nil {
		return err
	}

	if err := a.freeSem.Wait(timeoutMs); err != nil {
		if err == ErrTimeout {
			a.stats.addTimeout()
		}
		return err
	}

	idx := uint32(a.header.WriteSequence() % uint64(a.layout.BufferCount))
	slot := slotStateAt(a.mem, idx)
	payload := slotPayloadAt(a.mem, a.layout, idx)

	n, err := a.codec.Encode(batch, payload)
	if err != nil {
		a.freeSem.Post()
		return err
	}

	slot.SetDataSize(int64(n))
	slot.SetTimestamp(time.Now().UnixNano())
	slot.SetReady(true)

	a.header.IncrementWriteSequence()
	a.stats.addWrite(n)

	return a.readySem.Post()
}

// Read consumes the next slot in the ring into batch, blocking for up
// to timeoutMs milliseconds for a ready slot to become available (see
// Sem.Wait for the exact semantics of the timeout value). It returns
// ErrNotReader if this arena is not bound as a reader.
func (a *Arena) Read(batch *Batch, timeoutMs int) error {
	if ArenaState(a.state.Load()) != StateReader {
		return ErrNotReader
	}

	if err := a.readySem.Wait(timeoutMs); err != nil {
		if err == ErrTimeout {
			a.stats.addTimeout()
		}
		return err
	}

	idx := uint32(a.header.ReadSequence() % uint64(a.layout.BufferCount))
	slot := slotStateAt(a.mem, idx)

	if !slot.Ready() {
		a.freeSem.Post()
		return fmt.Errorf("%w: slot %d", ErrProtocolViolation, idx)
	}

	payload := slotPayloadAt(a.mem, a.layout, idx)
	data := payload[:slot.DataSize()]

	decodeErr := a.codec.Decode(data, batch)

	slot.SetReady(false)
	a.header.IncrementReadSequence()
	a.stats.addRead(len(data))

	if err := a.freeSem.Post(); err != nil {
		return err
	}
	return decodeErr
}

// WaitForData blocks until the writer has published at least one batch
// this reader has not yet consumed, or ctx is done. If ctx's deadline
// passes first it returns ErrTimeout and counts a wait timeout; if ctx
// is cancelled it returns ctx.Err(). Unlike Read,
// it does not consume a slot; it is meant for callers that want to
// know data is available before committing to a Read call, mirroring
// the ready-flag poll the reference implementation performs around its
// blocking semaphore wait.
func (a *Arena) WaitForData(ctx context.Context) error {
	if ArenaState(a.state.Load()) != StateReader {
		return ErrNotReader
	}

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		if a.header.WriteSequence() > a.header.ReadSequence() {
			return nil
		}
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				a.stats.addTimeout()
				return ErrTimeout
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Stats returns a snapshot of this handle's traffic counters.
func (a *Arena) Stats() Stats {
	return a.stats.snapshot()
}

// Snapshot is a diagnostic view of the arena's shared header state,
// useful for logging and tests.
type Snapshot struct {
	WriteSequence uint64
	ReadSequence  uint64
	WriterActive  bool
	ReaderCount   uint32
	BufferCount   uint32
	SlotSize      int64
}

// DebugState returns a Snapshot of the arena's current shared header
// state. It is safe to call from any bound or unbound handle that has
// mapped memory.
func (a *Arena) DebugState() Snapshot {
	if a.header == nil {
		return Snapshot{}
	}
	return Snapshot{
		WriteSequence: a.header.WriteSequence(),
		ReadSequence:  a.header.ReadSequence(),
		WriterActive:  a.header.WriterActive(),
		ReaderCount:   a.header.ReaderCount(),
		BufferCount:   a.header.BufferCount(),
		SlotSize:      a.header.SlotSize(),
	}
}

// Close unbinds the arena and unmaps its shared memory. It is
// idempotent: calling it more than once is a no-op after the first
// call. A writer's Close marks the segment inactive and removes its
// backing file; a reader's Close only decrements the shared
// reader count and unmaps its own view.
func (a *Arena) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return nil
	}

	state := ArenaState(a.state.Load())
	var firstErr error

	if a.header != nil {
		switch state {
		case StateWriter:
			a.header.SetWriterActive(false)
		case StateReader:
			a.header.DecrementReaderCount()
		}
	}

	if a.mem != nil {
		if err := unmapMemory(a.mem); err != nil && firstErr == nil {
			firstErr = err
		}
		a.mem = nil
	}
	if a.file != nil {
		if err := a.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		a.file = nil
	}
	if state == StateWriter && a.cfg.Name != "" {
		if err := removeSharedFile(a.cfg.Name); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	a.state.Store(int32(StateClosed))
	return firstErr
}
