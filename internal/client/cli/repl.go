package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
// Every handler receives the tokens that followed the command word.
type execIface interface {
	Today(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
	Write(ctx context.Context, args []string) error
	Feel(ctx context.Context, args []string) error
	Tag(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error

	Stats(ctx context.Context, args []string) error
	Streak(ctx context.Context, args []string) error
	Heatmap(ctx context.Context, args []string) error
	Weeks(ctx context.Context, args []string) error
	Hours(ctx context.Context, args []string) error
	Emotions(ctx context.Context, args []string) error
	Words(ctx context.Context, args []string) error
	Metrics(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  today                    open (or start) today's entry
  open <yyyy-mm-dd>        open (or start) the entry for a day
  write                    append text to the open entry
  feel <name> <intensity>  record an emotion (intensity 1-10)
  tag <tag> [tag...]       add tags to the open entry
  show [id]                print the open entry, or the one with id
  list [from to]           list entries, optionally for a day range
  search <text>            find entries by content, tag or emotion
  delete <id>              delete an entry
  stats | streak | heatmap | weeks | hours | emotions | words
  metrics                  print sync counters
  exit | quit`

// runREPL starts a simple read-eval-print loop for the journal CLI.
//
// It reads a line from reader, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// The prompt shows the current status (from statusFn). Handler errors are
// printed and the loop carries on. Handlers that prompt for more input read
// from the same reader, so the two never race over buffered stdin.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("diary %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		err = nil
		switch cmd {
		case "help", "?":
			printlnFn(helpText)

		case "today":
			err = a.Today(ctx, args)
		case "open":
			err = a.Open(ctx, args)
		case "write", "w":
			err = a.Write(ctx, args)
		case "feel":
			err = a.Feel(ctx, args)
		case "tag":
			err = a.Tag(ctx, args)
		case "show":
			err = a.Show(ctx, args)
		case "l", "list":
			err = a.List(ctx, args)
		case "search", "find":
			err = a.Search(ctx, args)
		case "delete", "rm":
			err = a.Delete(ctx, args)

		case "stats":
			err = a.Stats(ctx, args)
		case "streak":
			err = a.Streak(ctx, args)
		case "heatmap":
			err = a.Heatmap(ctx, args)
		case "weeks":
			err = a.Weeks(ctx, args)
		case "hours":
			err = a.Hours(ctx, args)
		case "emotions":
			err = a.Emotions(ctx, args)
		case "words":
			err = a.Words(ctx, args)
		case "metrics":
			err = a.Metrics(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
