package xlog

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestXLogLockSyncer_ConcurrentWrite(t *testing.T) {
	cfg := &FileCoreConfig{
		FilePath: os.TempDir(),
		Filename: filepath.Base(os.Args[0]) + "_lsxlog.log",
	}
	ctx, cancel := context.WithCancel(context.TODO())
	closeC := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(closeC)
	}()
	log := SingleLog(cfg, closeC)
	require.NotNil(t, log)

	require.Nil(t, XLogLockSyncer(nil, log))
	require.Nil(t, XLogLockSyncer(ctx, nil))
	syncer := XLogLockSyncer(ctx, log)
	require.NotNil(t, syncer)

	var wg sync.WaitGroup
	wg.Add(4)
	for i := 0; i < 4; i++ {
		go func(gid int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				data := []byte(strconv.Itoa(gid) + " xlog lock syncer write test!\n")
				_, err := syncer.Write(data)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()
	require.NoError(t, syncer.Sync())

	content, err := os.ReadFile(filepath.Join(cfg.FilePath, cfg.Filename))
	require.NoError(t, err)
	require.Equal(t, 100, strings.Count(string(content), "\n"))

	require.NoError(t, syncer.Stop())
	require.NoError(t, syncer.Stop()) // idempotent
	cancel()
	time.Sleep(100 * time.Millisecond)

	removed := testCleanLogFiles(t, cfg.FilePath, filepath.Base(os.Args[0])+"_lsxlog", ".log")
	require.Equal(t, 1, removed)
}

func TestFileCore_UnbufferedPathUsesLockSyncer(t *testing.T) {
	cfg := &FileCoreConfig{
		FilePath: os.TempDir(),
		Filename: filepath.Base(os.Args[0]) + "_lcxlog.log",
	}
	ctx, cancel := context.WithCancel(context.TODO())
	lvlEnabler := zap.NewAtomicLevelAt(LogLevelDebug.zapLevel())
	cc := newFileCore(cfg)(
		ctx,
		&lvlEnabler,
		JSON,
		zapcore.CapitalLevelEncoder,
		zapcore.ISO8601TimeEncoder,
	)
	require.NotNil(t, cc)
	_, ok := cc.writeSyncer().(*xLogLockSyncer)
	require.True(t, ok)

	err := cc.Write(zapcore.Entry{Level: zapcore.DebugLevel}, []zap.Field{zap.String("key", "value")})
	require.NoError(t, err)
	_ = cc.Sync()

	cancel()
	time.Sleep(100 * time.Millisecond)
	removed := testCleanLogFiles(t, cfg.FilePath, filepath.Base(os.Args[0])+"_lcxlog", ".log")
	require.Equal(t, 1, removed)
}
