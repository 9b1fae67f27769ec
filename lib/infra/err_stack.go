package infra

import (
	"fmt"
	"io"
	"path"
	"runtime"
	"strconv"
	"strings"
)

// Frame is a single program counter of an error stack. The formatting
// verbs follow https://github.com/pkg/errors/blob/master/stack.go

type Frame uintptr

// pc rewinds past the call instruction itself.
func (frame Frame) pc() uintptr { return uintptr(frame) - 1 }

func (frame Frame) file() string {
	fn := runtime.FuncForPC(frame.pc())
	if fn == nil {
		return "unknownFile"
	}
	f, _ := fn.FileLine(frame.pc())
	return f
}

func (frame Frame) line() int {
	fn := runtime.FuncForPC(frame.pc())
	if fn == nil {
		return 0
	}
	_, l := fn.FileLine(frame.pc())
	return l
}

func (frame Frame) name() string {
	fn := runtime.FuncForPC(frame.pc())
	if fn == nil {
		return "unknownFunc"
	}
	return fn.Name()
}

// Format renders the frame:
//
//	%s    base name of the source file
//	%d    source line
//	%n    bare function name
//	%v    %s:%d
//	%+s   <full-function-name>\n\t<full-file-path>
//	%+v   %+s:%d
func (frame Frame) Format(s fmt.State, verb rune) {
	switch verb {
	case 's':
		if s.Flag('+') {
			_, _ = io.WriteString(s, frame.name())
			_, _ = io.WriteString(s, "\n\t")
			_, _ = io.WriteString(s, frame.file())
		} else {
			_, _ = io.WriteString(s, path.Base(frame.file()))
		}
	case 'd':
		_, _ = io.WriteString(s, strconv.Itoa(frame.line()))
	case 'n':
		_, _ = io.WriteString(s, funcName(frame.name()))
	case 'v':
		frame.Format(s, 's')
		_, _ = io.WriteString(s, ":")
		frame.Format(s, 'd')
	}
}

// MarshalText keeps a resolvable frame readable in text encodings.
func (frame Frame) MarshalText() ([]byte, error) {
	name := frame.name()
	if name == "unknownFunc" {
		return []byte("unknownFrame"), nil
	}
	return []byte(name + " " + frame.file() + ":" + strconv.Itoa(frame.line())), nil
}

func (frame Frame) MarshalJSON() ([]byte, error) {
	name := frame.name()
	if name == "unknownFunc" {
		return []byte(`{"frame":"unknownFrame"}`), nil
	}
	return []byte(`{"func":"` + name + `","fileAndLine":"` + frame.file() + ":" + strconv.Itoa(frame.line()) + `"}`), nil
}

// funcName strips the package path and receiver from a fully qualified
// runtime function name.
func funcName(name string) string {
	name = name[strings.LastIndex(name, "/")+1:]
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
