package xlog

import (
	"context"
	"io"
	"sync"
)

var _ XLogCloseableWriteSyncer = (*xLogLockSyncer)(nil)

// xLogLockSyncer serializes writes to a shared log writer with a plain
// mutex. It is the unbuffered counterpart of XLogBufferSyncer: every
// entry goes straight to the writer, so nothing is lost on a crash.
type xLogLockSyncer struct {
	outWriter io.WriteCloser
	closeC    chan struct{}
	stopOnce  sync.Once
	mu        sync.Mutex
}

// Sync implements zapcore.WriteSyncer. Writes are never deferred, so
// there is nothing to flush.
func (syncer *xLogLockSyncer) Sync() error {
	return nil
}

// Write implements zapcore.WriteSyncer.
func (syncer *xLogLockSyncer) Write(log []byte) (n int, err error) {
	syncer.mu.Lock()
	defer syncer.mu.Unlock()

	return syncer.outWriter.Write(log)
}

func (syncer *xLogLockSyncer) Stop() (err error) {
	syncer.stopOnce.Do(func() {
		close(syncer.closeC)
	})
	return nil
}

func (syncer *xLogLockSyncer) waitAndClose(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-syncer.closeC:
	}
	syncer.mu.Lock()
	defer syncer.mu.Unlock()
	if _, ok := syncer.outWriter.(*rotateLog); !ok {
		// The rotate log writer is owned by its own watcher goroutine
		// and closes itself on context cancellation.
		_ = syncer.outWriter.Close()
	}
}

// XLogLockSyncer wraps a log writer for unbuffered concurrent use. The
// writer is closed when ctx is done or Stop is called, whichever comes
// first.
func XLogLockSyncer(ctx context.Context, writer io.WriteCloser) XLogCloseableWriteSyncer {
	if ctx == nil || writer == nil {
		return nil
	}
	syncer := &xLogLockSyncer{
		outWriter: writer,
		closeC:    make(chan struct{}),
	}
	go syncer.waitAndClose(ctx)
	return syncer
}
