package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	var parts []string
	if f := a.widget.Selected(); f != nil {
		parts = append(parts, f.Name)
	}
	if a.widget.Uploading() {
		parts = append(parts, "uploading")
	}
	if a.watching() {
		parts = append(parts, "watching")
	}
	if m := a.mode(); m != "" {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

// Root fetches the file list, starts the online status watcher and runs the
// REPL on stdin until the user exits.
func (a *App) Root(ctx context.Context) {
	printlnFn("File Uploader (type 'help' for commands)")

	if err := a.widget.Mount(ctx); err != nil {
		a.log.Debug(ctx, "initial fetch failed", "error", err)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
