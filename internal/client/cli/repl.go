package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the console.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF, when the user types
// "exit" or "quit", or when ctx is cancelled.
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                        show available commands
//	  - login                       authenticate
//	  - exit | quit                 leave the program
//
//	Logged in:
//	  - help                        show available commands
//	  - whoami                      show the current user
//	  - (l)ist <resource> [filter]  list invoices, products, users, collections or reports
//	  - download <reportID>         save a generated report
//	  - logout                      log out
//	  - exit | quit                 leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printFn(fmt.Sprintf("plc %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			printlnFn()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, (l)ist <resource> [filter], download <reportID>, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			if !a.isLoggedIn() {
				if isSessionCommand(cmd) {
					printlnFn("Please login first")
				} else {
					printlnFn("Unknown command:", cmd)
				}
				continue
			}
			runSessionCommand(ctx, a, cmd, args)
		}
	}
}

func isSessionCommand(cmd string) bool {
	switch cmd {
	case "whoami", "l", "list", "download", "logout":
		return true
	}
	return false
}

func runSessionCommand(ctx context.Context, a execIface, cmd string, args []string) {
	switch cmd {
	case "whoami":
		_ = a.Whoami(ctx)
	case "l", "list":
		_ = a.List(ctx, args)
	case "download":
		_ = a.Download(ctx, args)
	case "logout":
		_ = a.Logout(ctx)
	default:
		printlnFn("Unknown command:", cmd)
	}
}
