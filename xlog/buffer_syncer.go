package xlog

import (
	"io"
	"sync"
	"time"

	"github.com/benz9527/xvlist/lib/infra"
	"github.com/benz9527/xvlist/lib/list"
)

type logRecord struct {
	startOffset uint64
	length      uint64
}

// xLogArena batches encoded log entries in one flat buffer before they
// reach the (slow) writer. The pending records ride an arena backed
// list, so a flush that fails midway keeps the unwritten tail queued
// without reallocating anything.
type xLogArena struct {
	mu      sync.Mutex
	buf     []byte
	size    uint64
	wOffset uint64
	queue   list.VecList[*logRecord]
}

func (arena *xLogArena) availableBytes() uint64 {
	arena.mu.Lock()
	defer arena.mu.Unlock()
	return arena.size - arena.wOffset
}

func (arena *xLogArena) reset() {
	if arena.wOffset == 0 {
		return
	}
	arena.wOffset = 0
}

func (arena *xLogArena) release() {
	arena.mu.Lock()
	defer arena.mu.Unlock()
	arena.reset()
	arena.buf = nil
	arena.queue = nil
}

func (arena *xLogArena) allocate(size uint64) (uint64, bool) {
	if arena.wOffset+size > arena.size {
		return 0, false // Flush first
	}
	arena.wOffset += size
	return /* startup */ arena.wOffset - size, true
}

func (arena *xLogArena) cache(log []byte) bool {
	arena.mu.Lock()
	defer arena.mu.Unlock()
	if arena.buf == nil || arena.queue == nil {
		return false
	}

	if offset, ok := arena.allocate(uint64(len(log))); ok {
		copy(arena.buf[offset:], log)
		arena.queue.PushBack(&logRecord{
			startOffset: offset,
			length:      uint64(len(log)),
		})
		return true
	}
	return false
}

func (arena *xLogArena) flush(writer io.WriteCloser) error {
	arena.mu.Lock()
	defer arena.mu.Unlock()
	if arena.queue == nil {
		return nil
	}

	// Only records that reached the writer leave the queue; after a
	// write error the rest stays for the next flush.
	var werr error
	drain := arena.queue.DrainFilter(func(record **logRecord) bool {
		if werr != nil {
			return false
		}
		r := *record
		if _, err := writer.Write(arena.buf[r.startOffset : r.startOffset+r.length]); err != nil {
			werr = err
			return false
		}
		return true
	})
	drain.Release()
	if werr != nil {
		return infra.WrapErrorStack(werr)
	}
	arena.reset()
	return nil
}

var _ XLogCloseableWriteSyncer = (*XLogBufferSyncer)(nil)

type XLogBufferSyncer struct {
	outWriter     io.WriteCloser
	flushInterval time.Duration
	arena         *xLogArena
	ticker        *time.Ticker
	closeC        chan struct{}
}

// Sync implements zapcore.WriteSyncer.
func (syncer *XLogBufferSyncer) Sync() error {
	return syncer.arena.flush(syncer.outWriter)
}

// Write implements zapcore.WriteSyncer.
func (syncer *XLogBufferSyncer) Write(log []byte) (n int, err error) {
	cached := syncer.arena.cache(log)
	if !cached {
		if err := syncer.arena.flush(syncer.outWriter); err != nil {
			return 0, err
		}
		if !syncer.arena.cache(log) {
			return 0, infra.NewErrorStack("[xlog] unable to cache log in buffer")
		}
	}
	return len(log), nil
}

func (syncer *XLogBufferSyncer) initialize() {
	if syncer.arena != nil && syncer.arena.buf == nil {
		syncer.arena.buf = make([]byte, syncer.arena.size)
		syncer.arena.queue = list.NewVecList[*logRecord](
			list.WithVecListCapacity[*logRecord](64),
		)
	}
	if syncer.flushInterval <= 0 {
		syncer.flushInterval = 30 * time.Second
	}
	syncer.ticker = time.NewTicker(syncer.flushInterval)
	syncer.closeC = make(chan struct{})
	go syncer.flushLoop()
}

func (syncer *XLogBufferSyncer) Stop() error {
	close(syncer.closeC)
	return nil
}

func (syncer *XLogBufferSyncer) flushLoop() {
	for {
		select {
		case <-syncer.closeC:
			syncer.ticker.Stop()
			_ = syncer.Sync()
			syncer.arena.release()
			return
		case <-syncer.ticker.C:
			_ = syncer.Sync()
		}
	}
}
