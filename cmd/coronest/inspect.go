package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lollipopkit/coronest/runtime"
	"github.com/lollipopkit/coronest/term"
	"github.com/rivo/tview"
)

// inspect runs file's suspending invocation in the background and
// shows a live terminal view of every coroutine the runtime's two
// namespaces track while it runs, refreshed on a timer. With no file,
// it starts an idle runtime of its own; nothing else drives that
// runtime, so the view lists no coroutines.
func inspect(file string) {
	root := "."
	if file != "" {
		root = filepath.Dir(file)
	}

	rt, err := runtime.Make(root, runtime.Options{})
	if err != nil {
		term.Err("failed to start runtime: %v", err)
		os.Exit(1)
	}

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			term.Err("can't read file: %v", err)
			os.Exit(1)
		}
		code, err := rt.Read(string(data), file)
		if err != nil {
			term.Err("%v", err)
			os.Exit(1)
		}
		rt.InvokeSuspending(code, nil).OnComplete(func(_ any, err error) {
			if err != nil {
				term.Warn("script finished with error: %v", err)
			}
		})
	}

	app := tview.NewApplication()
	list := tview.NewList().ShowSecondaryText(false)
	list.SetTitle(" coronest inspect ").SetBorder(true)

	render := func() {
		list.Clear()
		statuses := rt.Inspect()
		if len(statuses) == 0 {
			list.AddItem("(no tracked coroutines)", "", 0, nil)
		}
		for _, s := range statuses {
			line := fmt.Sprintf("[%s] %s — %s", s.Namespace, s.ID, s.State)
			list.AddItem(line, "", 0, nil)
		}
	}
	render()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	go func() {
		for range ticker.C {
			app.QueueUpdateDraw(render)
		}
	}()

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || event.Key() == tcell.KeyCtrlC {
			app.Stop()
			return nil
		}
		return event
	})

	if err := app.SetRoot(list, true).Run(); err != nil {
		term.Err("inspector failed: %v", err)
		os.Exit(1)
	}
}
