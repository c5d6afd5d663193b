package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. *App implements it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Add(ctx context.Context, title string) error
	SetDone(ctx context.Context, id string, done bool) error
	Rename(ctx context.Context, id, title string) error
	Delete(ctx context.Context, id string) error
}

// runREPL reads commands from scanner until EOF, "exit" or "quit".
//
//	Not logged in: help, register, login, exit
//	Logged in:     help, (l)ist, show <id>, add <title>, done <id>,
//	               undone <id>, rename <id> <title>, delete <id>, logout, exit
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("yl %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, show <id>, add <title>, done <id>, undone <id>, rename <id> <title>, delete <id>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "l", "list":
			err = a.List(ctx)

		case "show":
			if len(args) != 1 {
				printlnFn("Usage: show <id>")
				continue
			}
			err = a.Show(ctx, args[0])

		case "add":
			if len(args) == 0 {
				printlnFn("Usage: add <title>")
				continue
			}
			err = a.Add(ctx, strings.Join(args, " "))

		case "done", "undone":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			err = a.SetDone(ctx, args[0], cmd == "done")

		case "rename":
			if len(args) < 2 {
				printlnFn("Usage: rename <id> <title>")
				continue
			}
			err = a.Rename(ctx, args[0], strings.Join(args[1:], " "))

		case "delete":
			if len(args) != 1 {
				printlnFn("Usage: delete <id>")
				continue
			}
			err = a.Delete(ctx, args[0])

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
