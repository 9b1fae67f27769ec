package xlog

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xvlist/lib/infra"
)

var _ xLogCore = (xLogMultiCore)(nil)

// xLogMultiCore fans every entry out to its member cores. It has no
// single writer or encoder of its own, so the component accessors all
// answer nil; rewrapping walks the members instead (WrapCores).
type xLogMultiCore []xLogCore

func (mc xLogMultiCore) context() context.Context           { return nil }
func (mc xLogMultiCore) levelEncoder() zapcore.LevelEncoder { return nil }
func (mc xLogMultiCore) outEncoder() func(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return nil
}
func (mc xLogMultiCore) timeEncoder() zapcore.TimeEncoder { return nil }
func (mc xLogMultiCore) writeSyncer() zapcore.WriteSyncer { return nil }

func (mc xLogMultiCore) With(fields []zap.Field) zapcore.Core {
	clone := make([]zapcore.Core, len(mc))
	for i := range mc {
		clone[i] = mc[i].With(fields)
	}
	return zapcore.NewTee(clone...)
}

func (mc xLogMultiCore) Level() zapcore.Level {
	var minLvl zapcore.Level = -1
	for i := range mc {
		if lvl := zapcore.LevelOf(mc[i]); lvl < minLvl {
			minLvl = lvl
		}
	}
	return minLvl
}

func (mc xLogMultiCore) Enabled(lvl zapcore.Level) bool {
	for i := range mc {
		if mc[i].Enabled(lvl) {
			return true
		}
	}
	return false
}

func (mc xLogMultiCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	for i := range mc {
		ce = mc[i].Check(ent, ce)
	}
	return ce
}

func (mc xLogMultiCore) Write(ent zapcore.Entry, fields []zap.Field) error {
	var err error
	for i := range mc {
		err = multierr.Append(err, mc[i].Write(ent, fields))
	}
	return err
}

func (mc xLogMultiCore) Sync() error {
	var err error
	for i := range mc {
		err = multierr.Append(err, mc[i].Sync())
	}
	return err
}

// XLogTeeCore bundles cores into one fan-out core.
func XLogTeeCore(cores ...xLogCore) xLogCore {
	return xLogMultiCore(cores)
}

// WrapCores re-encodes every member with its own copy of cfg, since
// WrapCore writes the member encoders into the config it receives.
func WrapCores(cores []xLogCore, cfg *zapcore.EncoderConfig) (xLogCore, error) {
	if cfg == nil {
		return nil, infra.NewErrorStack("[XLogger] logger core config is empty")
	}
	newCores := make([]xLogCore, 0, len(cores))
	for i := range cores {
		cfgCopy := *cfg
		newCore, err := WrapCore(cores[i], &cfgCopy)
		if err != nil {
			return nil, err
		}
		newCores = append(newCores, newCore)
	}
	return xLogMultiCore(newCores), nil
}

func WrapCoresNewLevelEnabler(cores []xLogCore, lvlEnabler zapcore.LevelEnabler, cfg *zapcore.EncoderConfig) (xLogCore, error) {
	if cfg == nil {
		return nil, infra.NewErrorStack("[XLogger] logger core config is empty")
	}
	newCores := make([]xLogCore, 0, len(cores))
	for i := range cores {
		cfgCopy := *cfg
		newCore, err := WrapCoreNewLevelEnabler(cores[i], lvlEnabler, &cfgCopy)
		if err != nil {
			return nil, err
		}
		newCores = append(newCores, newCore)
	}
	return xLogMultiCore(newCores), nil
}
