package xlog

import (
	"io"
	"sync"

	"go.uber.org/zap/zapcore"
)

var _ zapcore.WriteSyncer = (*xLogLockSyncer)(nil)

// xLogLockSyncer serializes the writes of the cores and the banner
// which share the same writer.
type xLogLockSyncer struct {
	outWriter io.Writer
	mu        sync.Mutex
}

// Sync implements zapcore.WriteSyncer.
func (syncer *xLogLockSyncer) Sync() error {
	syncer.mu.Lock()
	defer syncer.mu.Unlock()

	if ws, ok := syncer.outWriter.(zapcore.WriteSyncer); ok {
		return ws.Sync()
	}
	return nil
}

// Write implements zapcore.WriteSyncer.
func (syncer *xLogLockSyncer) Write(log []byte) (n int, err error) {
	syncer.mu.Lock()
	defer syncer.mu.Unlock()

	return syncer.outWriter.Write(log)
}

func XLogLockSyncer(writer io.Writer) zapcore.WriteSyncer {
	if ls, ok := writer.(*xLogLockSyncer); ok {
		return ls
	}
	return &xLogLockSyncer{
		outWriter: writer,
	}
}
