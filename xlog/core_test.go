package xlog

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestConsoleCore(t *testing.T) {
	lvlEnabler := zap.NewAtomicLevelAt(LogLevelDebug.zapLevel())
	cc := newConsoleCore(
		&lvlEnabler,
		JSON,
		zapcore.CapitalLevelEncoder,
		zapcore.ISO8601TimeEncoder,
	)
	require.NotNil(t, cc.outEncoder())
	require.NotNil(t, cc.writeSyncer())
	require.NotNil(t, cc.levelEncoder())
	require.NotNil(t, cc.timeEncoder())
	require.NotNil(t, cc.(*consoleCore).core.core)

	require.True(t, cc.Enabled(zapcore.DebugLevel))
	lvlEnabler.SetLevel(zapcore.ErrorLevel)
	require.False(t, cc.Enabled(zapcore.DebugLevel))
	require.False(t, cc.Enabled(zapcore.WarnLevel))
	require.True(t, cc.Enabled(zapcore.ErrorLevel))
	require.Nil(t, cc.Check(zapcore.Entry{Level: zapcore.InfoLevel}, nil))
	lvlEnabler.SetLevel(zapcore.DebugLevel)

	require.NotNil(t, cc.With([]zap.Field{zap.String("key", "value")}))
	ce := cc.Check(zapcore.Entry{Level: zapcore.DebugLevel}, nil)
	require.NotNil(t, ce)
	require.NoError(t, cc.Write(ce.Entry, []zap.Field{zap.String("key", "value")}))

	wrapped, err := WrapCore(cc, componentCoreEncoderCfg)
	require.NoError(t, err)
	require.NoError(t, wrapped.Write(zapcore.Entry{Level: zapcore.DebugLevel, LoggerName: "commonCore"}, nil))

	_, err = WrapCore(cc, nil)
	require.Error(t, err)
	_, err = WrapCore(nil, componentCoreEncoderCfg)
	require.Error(t, err)
}

func TestTeeCore(t *testing.T) {
	lvlEnabler := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	w := &testMemOutWriter{}
	good := newWriterCore(XLogLockSyncer(w))(&lvlEnabler, JSON, zapcore.CapitalLevelEncoder, zapcore.ISO8601TimeEncoder)
	bad := newWriterCore(XLogLockSyncer(failingWriter{}))(&lvlEnabler, JSON, zapcore.CapitalLevelEncoder, zapcore.ISO8601TimeEncoder)
	tee := XLogTeeCore(good, bad)

	require.Nil(t, tee.levelEncoder())
	require.Nil(t, tee.timeEncoder())
	require.Nil(t, tee.outEncoder())
	require.Nil(t, tee.writeSyncer())
	require.False(t, tee.Enabled(zapcore.DebugLevel))
	require.True(t, tee.Enabled(zapcore.InfoLevel))

	err := tee.Write(zapcore.Entry{Level: zapcore.InfoLevel, Message: "tee"}, nil)
	require.EqualError(t, err, "disk full")
	require.NoError(t, tee.Sync())
	require.Len(t, w.entries(t), 1)

	ce := tee.Check(zapcore.Entry{Level: zapcore.InfoLevel}, nil)
	require.NotNil(t, ce)
	require.NotNil(t, tee.With([]zap.Field{zap.Int("len", 1)}))

	wrapped, err := WrapCores(tee.(xLogMultiCore), componentCoreEncoderCfg)
	require.NoError(t, err)
	require.Len(t, wrapped.(xLogMultiCore), 2)
}

type syncCountWriter struct {
	testMemOutWriter
	synced int
}

func (w *syncCountWriter) Sync() error {
	w.synced++
	return nil
}

func TestXLogLockSyncer(t *testing.T) {
	w := &syncCountWriter{}
	ws := XLogLockSyncer(w)
	require.Same(t, ws, XLogLockSyncer(ws))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := ws.Write([]byte(fmt.Sprintf("{\"idx\":%d}\n", i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	require.Len(t, w.entries(t), 8)
	require.NoError(t, ws.Sync())
	require.Equal(t, 1, w.synced)

	require.NoError(t, XLogLockSyncer(failingWriter{}).Sync())
}
