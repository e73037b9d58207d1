package cli

import (
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Whoami(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) List(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "list")
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) Download(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "download")
	f.args = append(f.args, args)
	return nil
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	silencePrintln(t)

	input := readerFromLines(
		"help",
		"whoami",
		"login",
		"help",
		"whoami",
		"list invoices acme plastics",
		"l products",
		"download r-7",
		"",
		"foobar",
		"logout",
		"list invoices",
		"exit",
		"login",
	)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, input)

	want := []string{"login", "whoami", "list", "list", "download", "logout"}
	if strings.Join(exec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls mismatch: got %v, want %v", exec.calls, want)
	}
	if got := strings.Join(exec.args[0], " "); got != "invoices acme plastics" {
		t.Fatalf("list args: got %q", got)
	}
	if got := exec.args[2]; len(got) != 1 || got[0] != "r-7" {
		t.Fatalf("download args: got %v", got)
	}
}

func TestRunREPL_MessagesWhenLoggedOut(t *testing.T) {
	out := silencePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, readerFromLines("help", "list invoices", "nope", "quit"))

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
	got := out.String()
	for _, want := range []string{"Available commands: login, exit", "Please login first", "Unknown command: nope", "Bye!"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output %q does not contain %q", got, want)
		}
	}
}

func TestRunREPL_StopsOnEOFAndCancel(t *testing.T) {
	silencePrintln(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, readerFromLines("whoami"))
	if len(exec.calls) != 1 {
		t.Fatalf("expected one call before EOF, got %v", exec.calls)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec = &fakeExec{loggedIn: true}
	runREPL(ctx, exec, func() string { return "" }, readerFromLines("whoami"))
	if len(exec.calls) != 0 {
		t.Fatalf("cancelled REPL must not run commands, got %v", exec.calls)
	}
}
