package cli

import (
	"context"
	"fmt"
)

// getStatus renders the prompt badge: connectivity plus the open entry's day.
func (a *App) getStatus() string {
	s := string(a.mode())
	if e, ok := a.store.Current(); ok {
		s = s + " " + e.DayKey()
	}
	return fmt.Sprintf("(%s)", s)
}

// Root starts the background connectivity watcher and runs the REPL.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to diarykeeper (type 'help' for commands)")

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if a.status != nil {
		go a.status.Watch(watchCtx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
