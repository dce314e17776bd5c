package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App implements
// it; tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context, tag string) error
	Tags(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Done(ctx context.Context, id, date string) error
	Select(ctx context.Context, id string) error
	Unselect(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Calendar(ctx context.Context) error
}

const (
	guestHelp = "Available commands: register, login, refresh, help, exit"
	userHelp  = "Available commands: list [tag], tags, add, edit <id>, delete <id>, done <id> [YYYY-MM-DD], " +
		"select <id>, unselect, dashboard, calendar, refresh, logout, help, exit"
)

// protected commands need an access token. refresh is left out: it only
// needs the refresh token, and the session reports when that is missing.
var protected = map[string]bool{
	"list": true, "l": true, "tags": true, "add": true, "edit": true, "delete": true,
	"done": true, "select": true, "unselect": true, "dashboard": true, "calendar": true,
}

// readLine returns the next input line without its line ending.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// runREPL reads commands from in until EOF, exit or quit. Handlers report
// their own errors; the loop only routes commands.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("hk (%s)> ", statusFn()))
		line, err := readLine(in)
		if err != nil {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if protected[cmd] && !a.isLoggedIn() {
			printlnFn("Not logged in. Use 'login' or 'register' first.")
			continue
		}

		arg := func(i int) string {
			if i < len(args) {
				return args[i]
			}
			return ""
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(userHelp)
			} else {
				printlnFn(guestHelp)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx, arg(0))

		case "tags":
			_ = a.Tags(ctx)

		case "add":
			_ = a.Add(ctx)

		case "edit":
			if arg(0) == "" {
				printlnFn("Usage: edit <id>")
				continue
			}
			_ = a.Edit(ctx, arg(0))

		case "delete":
			if arg(0) == "" {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, arg(0))

		case "done":
			if arg(0) == "" {
				printlnFn("Usage: done <id> [YYYY-MM-DD]")
				continue
			}
			_ = a.Done(ctx, arg(0), arg(1))

		case "select":
			if arg(0) == "" {
				printlnFn("Usage: select <id>")
				continue
			}
			_ = a.Select(ctx, arg(0))

		case "unselect":
			_ = a.Unselect(ctx)

		case "dashboard":
			_ = a.Dashboard(ctx)

		case "calendar":
			_ = a.Calendar(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
