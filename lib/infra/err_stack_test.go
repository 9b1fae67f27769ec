package infra

import (
	"bytes"
	"encoding/json"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var initPC = caller()

func caller() Frame {
	var PCs [3]uintptr
	n := runtime.Callers(2, PCs[:])
	frames := runtime.CallersFrames(PCs[:n])
	frame, _ := frames.Next()
	return Frame(frame.PC)
}

func TestFrameFormat(t *testing.T) {
	file, name := initPC.file(), initPC.name()
	line := strconv.Itoa(initPC.line())
	require.True(t, strings.HasSuffix(file, "err_stack_test.go"))
	require.Contains(t, name, "infra.init")

	testcases := []struct {
		Frame
		format string
		want   string
	}{
		{
			initPC,
			"%s",
			"err_stack_test.go",
		},
		{
			initPC,
			"%+s",
			name + "\n\t" + file,
		},
		{
			initPC,
			"%n",
			funcName(name),
		},
		{
			initPC,
			"%d",
			line,
		},
		{
			initPC,
			"%v",
			"err_stack_test.go:" + line,
		},
		{
			initPC,
			"%+v",
			name + "\n\t" + file + ":" + line,
		},
		{
			Frame(0),
			"%s",
			"unknownFile",
		},
		{
			Frame(0),
			"%n",
			"unknownFunc",
		},
		{
			Frame(0),
			"%d",
			"0",
		},
	}

	for _, tc := range testcases {
		frameRes := fmt.Sprintf(tc.format, tc.Frame)
		require.Equal(t, tc.want, frameRes)
	}
}

func TestFrameMarshalText(t *testing.T) {
	fileAndLine := initPC.file() + ":" + strconv.Itoa(initPC.line())
	testcases := []struct {
		Frame
		expected []byte
	}{
		{
			initPC,
			[]byte(initPC.name() + " " + fileAndLine),
		},
		{
			Frame(0),
			[]byte("unknownFrame"),
		},
	}
	for _, tc := range testcases {
		_bytes, err := tc.Frame.MarshalText()
		require.NoError(t, err)
		require.Greater(t, len(_bytes), 0)
		require.True(t, bytes.Equal(_bytes, tc.expected))
	}
}

func TestFrameMarshalJSON(t *testing.T) {
	fileAndLine := initPC.file() + ":" + strconv.Itoa(initPC.line())
	testcases := []struct {
		Frame
		expected []byte
	}{
		{
			initPC,
			[]byte("{\"func\":\"" + initPC.name() + "\",\"fileAndLine\":\"" + fileAndLine + "\"}"),
		},
		{
			Frame(0),
			[]byte("{\"frame\":\"unknownFrame\"}"),
		},
	}
	for _, tc := range testcases {
		_bytes, err := json.Marshal(tc.Frame)
		require.NoError(t, err)
		require.Greater(t, len(_bytes), 0)
		require.True(t, bytes.Equal(_bytes, tc.expected))
	}
}
