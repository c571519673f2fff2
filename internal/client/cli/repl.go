package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	Select(ctx context.Context, path string) error
	Drop(ctx context.Context, path string) error
	Upload(ctx context.Context) error
	Files(ctx context.Context) error
	View(ctx context.Context, arg string) error
	Preview(ctx context.Context) error
	Status(ctx context.Context) error
	Watch(ctx context.Context, dir string) error
	Unwatch(ctx context.Context) error
}

const helpText = `Available commands:
  select <path>   choose a file
  drop <path>     drop a file onto the drop zone
  upload          upload the selected file
  files | list    fetch and show uploaded files
  view <n>        show the link of file n
  preview         show the preview of the selected file
  status          show widget state
  watch <dir>     treat files created in dir as drops
  unwatch         stop watching
  exit | quit     leave the program`

// runREPL reads commands line by line and dispatches them to a. The first
// token is the command, the rest of the line (trimmed) its argument, so
// paths with spaces work. The loop ends on EOF, "exit" or "quit".
//
// Handler errors are not reported here; handlers print their own messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("upload %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "select":
			if arg == "" {
				printlnFn("Usage: select <path>")
				continue
			}
			_ = a.Select(ctx, arg)

		case "drop":
			if arg == "" {
				printlnFn("Usage: drop <path>")
				continue
			}
			_ = a.Drop(ctx, arg)

		case "upload":
			_ = a.Upload(ctx)

		case "files", "list", "l":
			_ = a.Files(ctx)

		case "view":
			if arg == "" {
				printlnFn("Usage: view <n>")
				continue
			}
			_ = a.View(ctx, arg)

		case "preview":
			_ = a.Preview(ctx)

		case "status":
			_ = a.Status(ctx)

		case "watch":
			if arg == "" {
				printlnFn("Usage: watch <dir>")
				continue
			}
			_ = a.Watch(ctx, arg)

		case "unwatch":
			_ = a.Unwatch(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
