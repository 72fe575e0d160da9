package stdlib

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	. "github.com/lollipopkit/coronest/api"
)

var ioLib = map[string]GoFunction{
	"open": ioOpen,
}

func OpenIOLib(ls LkState) int {
	ls.NewLib(ioLib)
	return 1
}

// io.open (path [, mode])
// Every path is resolved through the runtime's sandboxed path predicate
// before the file is ever opened; paths escaping the project root never
// reach os.OpenFile.
func ioOpen(ls LkState) int {
	path := ls.CheckString(1)
	mode := ls.OptString(2, "r")

	resolved, err := sandboxOf(ls).Resolve(path)
	if err != nil {
		ls.PushNil()
		ls.PushString(err.Error())
		return 2
	}

	flag, err := flagForMode(mode)
	if err != nil {
		ls.PushNil()
		ls.PushString(err.Error())
		return 2
	}

	f, err := os.OpenFile(resolved, flag, 0644)
	if err != nil {
		ls.PushNil()
		ls.PushString(err.Error())
		return 2
	}

	pushFileHandle(ls, f)
	ls.PushNil()
	return 2
}

func flagForMode(mode string) (int, error) {
	switch mode {
	case "r":
		return os.O_RDONLY, nil
	case "w":
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, nil
	case "a":
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, nil
	default:
		return 0, fmt.Errorf("unsupported io mode %q", mode)
	}
}

var fileMethods = map[string]GoFunction{
	"read":  fileRead,
	"write": fileWrite,
	"close": fileClose,
}

// pushFileHandle builds the table scripts see for an open file: a plain
// script table whose "__handle" field carries the *os.File as an opaque
// host value, plus one GoFunction per method.
func pushFileHandle(ls LkState, f *os.File) {
	ls.CreateTable(0, len(fileMethods)+1)
	ls.Push(f)
	ls.SetField(-2, "__handle")
	for name, fn := range fileMethods {
		ls.PushGoFunction(fn)
		ls.SetField(-2, name)
	}
}

func handleOf(ls LkState, idx int) *os.File {
	ls.GetField(idx, "__handle")
	f, _ := ls.ToPointer(-1).(*os.File)
	ls.Pop(1)
	return f
}

// handle:read ([format])
// format "a" reads the whole file; anything else reads one line.
func fileRead(ls LkState) int {
	f := handleOf(ls, 1)
	if f == nil {
		ls.PushNil()
		return 1
	}
	format := ls.OptString(2, "l")
	if format == "a" {
		data, err := io.ReadAll(f)
		if err != nil {
			ls.PushNil()
			return 1
		}
		ls.PushString(string(data))
		return 1
	}
	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		ls.PushNil()
		return 1
	}
	ls.PushString(strings.TrimRight(line, "\n"))
	return 1
}

func fileWrite(ls LkState) int {
	f := handleOf(ls, 1)
	data := ls.CheckString(2)
	if f == nil {
		ls.PushNil()
		ls.PushString("file closed")
		return 2
	}
	if _, err := f.WriteString(data); err != nil {
		ls.PushNil()
		ls.PushString(err.Error())
		return 2
	}
	ls.PushBoolean(true)
	return 1
}

func fileClose(ls LkState) int {
	f := handleOf(ls, 1)
	if f != nil {
		f.Close()
	}
	ls.PushBoolean(true)
	return 1
}
