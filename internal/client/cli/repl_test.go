package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

type fakeExec struct {
	calls []call
	err   error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, call{name: name, args: args})
	return f.err
}

func (f *fakeExec) Today(_ context.Context, a []string) error { return f.record("today", a) }
func (f *fakeExec) Open(_ context.Context, a []string) error { return f.record("open", a) }
func (f *fakeExec) Write(_ context.Context, a []string) error { return f.record("write", a) }
func (f *fakeExec) Feel(_ context.Context, a []string) error { return f.record("feel", a) }
func (f *fakeExec) Tag(_ context.Context, a []string) error { return f.record("tag", a) }
func (f *fakeExec) Show(_ context.Context, a []string) error { return f.record("show", a) }
func (f *fakeExec) List(_ context.Context, a []string) error { return f.record("list", a) }
func (f *fakeExec) Search(_ context.Context, a []string) error { return f.record("search", a) }
func (f *fakeExec) Delete(_ context.Context, a []string) error { return f.record("delete", a) }
func (f *fakeExec) Stats(_ context.Context, a []string) error { return f.record("stats", a) }
func (f *fakeExec) Streak(_ context.Context, a []string) error { return f.record("streak", a) }
func (f *fakeExec) Heatmap(_ context.Context, a []string) error { return f.record("heatmap", a) }
func (f *fakeExec) Weeks(_ context.Context, a []string) error { return f.record("weeks", a) }
func (f *fakeExec) Hours(_ context.Context, a []string) error { return f.record("hours", a) }
func (f *fakeExec) Emotions(_ context.Context, a []string) error { return f.record("emotions", a) }
func (f *fakeExec) Words(_ context.Context, a []string) error { return f.record("words", a) }
func (f *fakeExec) Metrics(_ context.Context, a []string) error { return f.record("metrics", a) }

func capturePrint(t *testing.T) *strings.Builder {
	t.Helper()
	var out strings.Builder
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&out, a...) }
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrint(t)

	input := strings.Join([]string{
		"help",
		"today",
		"open 2026-10-01",
		"write",
		"feel happy 7",
		"tag work  travel",
		"show",
		"list 2026-10-01 2026-10-14",
		"search river walk",
		"delete abc",
		"stats", "streak", "heatmap", "weeks", "hours", "emotions", "words", "metrics",
		"",
		"exit",
		"today",
	}, "\n")

	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "(offline)" }, rdr(input))

	names := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		names = append(names, c.name)
	}
	assert.Equal(t, []string{
		"today", "open", "write", "feel", "tag", "show", "list", "search", "delete",
		"stats", "streak", "heatmap", "weeks", "hours", "emotions", "words", "metrics",
	}, names)

	assert.Equal(t, []string{"2026-10-01"}, f.calls[1].args)
	assert.Equal(t, []string{"happy", "7"}, f.calls[3].args)
	assert.Equal(t, []string{"work", "travel"}, f.calls[4].args)
	assert.Equal(t, []string{"river", "walk"}, f.calls[7].args)
}

func TestRunREPL_Aliases(t *testing.T) {
	capturePrint(t)

	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "" }, rdr("l\nw\nfind x\nrm id\nquit\n"))

	require.Len(t, f.calls, 4)
	assert.Equal(t, "list", f.calls[0].name)
	assert.Equal(t, "write", f.calls[1].name)
	assert.Equal(t, "search", f.calls[2].name)
	assert.Equal(t, "delete", f.calls[3].name)
}

func TestRunREPL_UnknownAndErrorsKeepLooping(t *testing.T) {
	out := capturePrint(t)

	f := &fakeExec{err: errors.New("boom")}
	runREPL(context.Background(), f, func() string { return "(online)" }, rdr("foobar\ntoday\nstreak"))

	require.Len(t, f.calls, 2)
	s := out.String()
	assert.Contains(t, s, "Unknown command: foobar")
	assert.Contains(t, s, "Error: boom")
	assert.Contains(t, s, "diary (online)> ")
}

func TestRunREPL_HelpListsCommands(t *testing.T) {
	out := capturePrint(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "" }, rdr("help\n"))

	for _, cmd := range []string{"today", "open", "write", "feel", "tag", "show", "list", "search",
		"delete", "stats", "streak", "heatmap", "weeks", "hours", "emotions", "words", "metrics", "exit"} {
		assert.Contains(t, out.String(), cmd)
	}
}
