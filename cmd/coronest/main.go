package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/lollipopkit/coronest/repl"
	"github.com/lollipopkit/coronest/runtime"
	"github.com/lollipopkit/coronest/term"
)

func main() {
	args := os.Args[1:]

	if len(args) > 0 && args[0] == "inspect" {
		target := ""
		if len(args) > 1 {
			target = args[1]
		}
		inspect(target)
		return
	}

	if len(args) == 0 {
		repl.Repl()
		return
	}

	run(args[0])
}

// run executes a single script file to completion via the suspending
// invocation path, waiting on the returned future, and exits non-zero
// on a script error.
func run(file string) {
	if !exist(file) {
		term.Err("file not found: %s", file)
		os.Exit(1)
	}
	if !strings.HasSuffix(file, ".lk") && !strings.HasSuffix(file, ".lkc") {
		term.Err("unrecognized script extension: %s", file)
		os.Exit(1)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		term.Err("can't read file: %v", err)
		os.Exit(1)
	}

	root := filepath.Dir(file)
	rt, err := runtime.Make(root, runtime.Options{})
	if err != nil {
		term.Err("failed to start runtime: %v", err)
		os.Exit(1)
	}

	code, err := rt.Read(string(data), file)
	if err != nil {
		term.Err("%v", err)
		os.Exit(1)
	}

	result := rt.InvokeSuspending(code, nil)
	_, err = result.Wait()
	if err != nil {
		term.Err("%v", err)
		os.Exit(1)
	}
}

func exist(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
