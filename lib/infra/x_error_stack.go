package infra

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"go.uber.org/zap/zapcore"
)

// ErrorStack is an error carrying the call stack of the point where it
// was created or wrapped. It marshals inline into zap structured logs.
type ErrorStack interface {
	error
	zapcore.ObjectMarshaler
	Unwrap() error
	Frames() []Frame
}

var _ ErrorStack = (*errorStack)(nil) // Type check assertion

type errorStack struct {
	err    error
	msg    string
	frames []Frame
}

func (es *errorStack) Error() string {
	if es.msg == "" {
		return es.err.Error()
	}
	return es.msg + ": " + es.err.Error()
}

func (es *errorStack) Unwrap() error { return es.err }

func (es *errorStack) Frames() []Frame { return es.frames }

func (es *errorStack) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		_, _ = io.WriteString(s, es.Error())
		if s.Flag('+') {
			for _, frame := range es.frames {
				_, _ = io.WriteString(s, "\n")
				frame.Format(s, 'v')
			}
		}
	case 's':
		_, _ = io.WriteString(s, es.Error())
	}
}

func (es *errorStack) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("error", es.Error())
	return enc.AddArray("errorStack", zapcore.ArrayMarshalerFunc(func(arr zapcore.ArrayEncoder) error {
		for _, frame := range es.frames {
			text, err := frame.MarshalText()
			if err != nil {
				return err
			}
			arr.AppendString(string(text))
		}
		return nil
	}))
}

// callers skips itself, its caller inside this package and the runtime
// entry, so the first frame is the user call site.
func callers() []Frame {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := make([]Frame, 0, n)
	for _, pc := range pcs[:n] {
		frames = append(frames, Frame(pc))
	}
	return frames
}

// NewErrorStack builds a fresh error from msg, stamped with the caller
// stack.
func NewErrorStack(msg string) error {
	return &errorStack{err: errors.New(msg), frames: callers()}
}

// WrapErrorStack attaches the caller stack to err. A nil err stays nil
// and an err that already carries a stack keeps its original one.
func WrapErrorStack(err error) error {
	if err == nil {
		return nil
	}
	var es *errorStack
	if errors.As(err, &es) {
		return err
	}
	return &errorStack{err: err, frames: callers()}
}

// WrapErrorStackWithMessage is WrapErrorStack with a prefix message.
// errors.Is still matches the wrapped err.
func WrapErrorStackWithMessage(err error, msg string) error {
	if err == nil {
		return NewErrorStack(msg)
	}
	return &errorStack{err: err, msg: msg, frames: callers()}
}
