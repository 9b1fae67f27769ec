package xlog

import (
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ fxevent.Logger = (*FxXLogger)(nil)

// FxXLogger routes fx lifecycle events through an XLogger, so an
// application assembled with fx logs in the same shape as everything
// else.
type FxXLogger struct {
	logger XLogger
}

func (l *FxXLogger) LogEvent(event fxevent.Event) {
	if l == nil || l.logger == nil {
		return
	}

	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		l.logger.Debug("fx hook OnStart executing",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
		)
	case *fxevent.OnStartExecuted:
		if e.Err != nil {
			l.logger.Error(e.Err, "fx hook OnStart failed",
				zap.String("function", e.FunctionName),
				zap.String("caller", e.CallerName),
				zap.Int64("in", int64(e.Runtime)),
			)
		} else {
			l.logger.Debug("fx hook OnStart executed",
				zap.String("function", e.FunctionName),
				zap.String("caller", e.CallerName),
				zap.Int64("in", int64(e.Runtime)),
			)
		}
	case *fxevent.OnStopExecuting:
		l.logger.Info("fx hook OnStop executing",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
		)
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			l.logger.Error(e.Err, "fx hook OnStop failed",
				zap.String("function", e.FunctionName),
				zap.String("caller", e.CallerName),
				zap.Int64("in", int64(e.Runtime)),
			)
		} else {
			l.logger.Info("fx hook OnStop executed",
				zap.String("function", e.FunctionName),
				zap.String("caller", e.CallerName),
				zap.Int64("in", int64(e.Runtime)),
			)
		}
	case *fxevent.Supplied:
		switch {
		case e.Err != nil:
			l.logger.Error(e.Err, "fx supply failed",
				zap.String("type", e.TypeName),
				zap.Strings("stacktrace", e.StackTrace),
			)
		case e.ModuleName != "":
			l.logger.Debug("fx supplied",
				zap.String("type", e.TypeName),
				zap.String("module", e.ModuleName),
			)
		default:
			l.logger.Debug("fx supplied",
				zap.String("type", e.TypeName),
			)
		}
	case *fxevent.Provided:
		for _, rtype := range e.OutputTypeNames {
			fields := []zap.Field{
				zap.Bool("private", e.Private),
				zap.String("type", rtype),
				zap.String("constructor", e.ConstructorName),
			}
			if e.ModuleName != "" {
				fields = append(fields, zap.String("module", e.ModuleName))
			}
			l.logger.Debug("fx provided", fields...)
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "fx provide failed",
				zap.Strings("stacktrace", e.StackTrace),
			)
		}
	case *fxevent.Replaced:
		for _, rtype := range e.OutputTypeNames {
			fields := []zap.Field{zap.String("type", rtype)}
			if e.ModuleName != "" {
				fields = append(fields, zap.String("module", e.ModuleName))
			}
			l.logger.Debug("fx replaced", fields...)
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "fx replace failed",
				zap.Strings("stacktrace", e.StackTrace),
			)
		}
	case *fxevent.Decorated:
		for _, rtype := range e.OutputTypeNames {
			fields := []zap.Field{
				zap.String("type", rtype),
				zap.String("decorator", e.DecoratorName),
			}
			if e.ModuleName != "" {
				fields = append(fields, zap.String("module", e.ModuleName))
			}
			l.logger.Debug("fx decorated", fields...)
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "fx decorate failed",
				zap.Strings("stacktrace", e.StackTrace),
			)
		}
	case *fxevent.Invoking:
		fields := []zap.Field{zap.String("function", e.FunctionName)}
		if e.ModuleName != "" {
			fields = append(fields, zap.String("module", e.ModuleName))
		}
		l.logger.Debug("fx invoking", fields...)
	case *fxevent.Invoked:
		if e.Err != nil {
			l.logger.Error(e.Err, "fx invoke failed",
				zap.String("function", e.FunctionName),
				zap.String("trace", e.Trace),
			)
		}
	case *fxevent.Stopping:
		l.logger.Info("fx stopping", zap.String("signal", e.Signal.String()))
	case *fxevent.Stopped:
		if e.Err != nil {
			l.logger.Error(e.Err, "fx failed to stop cleanly")
		}
	case *fxevent.RollingBack:
		l.logger.Warn("fx start failed, rolling back",
			zap.Error(e.StartErr),
		)
	case *fxevent.RolledBack:
		if e.Err != nil {
			l.logger.Error(e.Err, "fx rollback failed")
		}
	case *fxevent.Started:
		if e.Err != nil {
			l.logger.Error(e.Err, "fx failed to start")
		} else {
			l.logger.Debug("fx running")
		}
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			l.logger.Error(e.Err, "fx failed to initialize custom logger")
		} else {
			l.logger.Debug("fx logger initialized", zap.String("constructor", e.ConstructorName))
		}
	}
}

// NewFxXLogger derives an fx event logger from an existing XLogger,
// named "Fx" and re-encoded with the component core layout.
func NewFxXLogger(logger XLogger) *FxXLogger {
	l := &xLogger{}
	l.logger.Store(logger.
		zap().
		Named("Fx").
		WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			if core == nil {
				panic("[XLogger] core is nil")
			}
			cc, ok := core.(xLogCore)
			if !ok {
				panic("[XLogger] core is not XLogCore")
			}
			var err error
			if mc, ok := cc.(xLogMultiCore); ok && mc != nil {
				if cc, err = WrapCores(mc, componentCoreEncoderCfg()); err != nil {
					panic(err)
				}
			} else {
				if cc, err = WrapCore(cc, componentCoreEncoderCfg()); err != nil {
					panic(err)
				}
			}
			return cc
		})),
	)
	return &FxXLogger{logger: l}
}
