package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/uploadwidget/internal/client/client"
	"github.com/dmitrijs2005/uploadwidget/internal/client/dropzone"
	"github.com/dmitrijs2005/uploadwidget/internal/client/widget"
)

// maxPreviewURL caps how much of a data: URL is echoed to the terminal.
const maxPreviewURL = 72

func (a *App) Select(ctx context.Context, path string) error {
	err := a.widget.SelectPath(ctx, path)
	switch {
	case err == nil:
		printlnFn(a.widget.View().SelectLabel)
	case errors.Is(err, dropzone.ErrRejected):
		// already notified
	default:
		printlnFn("Error:", err)
	}
	return err
}

func (a *App) Drop(ctx context.Context, path string) error {
	err := a.widget.DropPath(ctx, path)

	switch {
	case err == nil:
		if a.widget.Selected() != nil {
			printlnFn(a.widget.View().SelectLabel)
		}
	case errors.Is(err, widget.ErrDropzoneDisabled):
		printlnFn("Drop zone is disabled (start with -d or -v dropzone)")
	case errors.Is(err, widget.ErrUploadInProgress):
		printlnFn("Upload already in progress")
	case isNotified(err):
	default:
		printlnFn("Error:", err)
	}
	return err
}

func (a *App) Upload(ctx context.Context) error {
	err := a.widget.Upload(ctx)

	if errors.Is(err, widget.ErrUploadInProgress) {
		printlnFn("Upload already in progress")
	}
	return err
}

// Files refreshes the list and prints the drawer. A failed refresh leaves
// the previous list on screen.
func (a *App) Files(ctx context.Context) error {
	err := a.widget.Refresh(ctx)
	printFiles(a.widget.View())
	return err
}

func (a *App) View(ctx context.Context, arg string) error {
	n, err := strconv.Atoi(arg)
	entries := a.widget.View().Entries
	if err != nil || n < 1 || n > len(entries) {
		printlnFn(fmt.Sprintf("No file #%s (have %d)", arg, len(entries)))
		return fmt.Errorf("invalid file number %q", arg)
	}

	e := entries[n-1]
	printlnFn(e.Title)
	printlnFn("View:", e.Link)
	return nil
}

func (a *App) Preview(ctx context.Context) error {
	v := a.widget.View()
	if !v.Dropzone {
		printlnFn("Previews are shown in drop zone mode only")
		return nil
	}
	if v.PreviewURL == "" {
		printlnFn(v.DragHint)
		return nil
	}
	printlnFn(fmt.Sprintf("Preview (%s): %s", v.PreviewKind, truncate(v.PreviewURL, maxPreviewURL)))
	return nil
}

func (a *App) Status(ctx context.Context) error {
	v := a.widget.View()
	o := a.widget.Options()

	printlnFn(v.SelectLabel)
	button := v.ButtonLabel
	if v.ButtonDisabled {
		button += " (disabled)"
	}
	printlnFn("Button:", button)
	printlnFn(fmt.Sprintf("Compression: %s, Drop zone: %s, Auto upload: %s, Clear: %s",
		onOff(o.Compression), onOff(o.Dropzone), onOff(o.AutoUpload), o.ClearPolicy))
	if v.Dropzone {
		printlnFn(fmt.Sprintf("Drop zone: %s %s", v.DragPhase, v.DragColor))
	}
	if dir := a.watchDir(); dir != "" {
		printlnFn("Watching:", dir)
	}
	mode := a.mode()
	if mode == "" {
		mode = "unknown"
	}
	printlnFn("Server:", string(mode))
	return nil
}

func printFiles(v widget.View) {
	printlnFn("All Files")
	if len(v.Entries) == 0 {
		printlnFn("  " + v.Placeholder)
		return
	}
	for i, e := range v.Entries {
		printlnFn(fmt.Sprintf("  %d. %s  [View] %s", i+1, e.Title, e.Link))
	}
}

// isNotified reports whether the widget already told the user about err.
func isNotified(err error) bool {
	return errors.Is(err, dropzone.ErrRejected) ||
		errors.Is(err, widget.ErrCompression) ||
		errors.Is(err, widget.ErrNoFileSelected) ||
		errors.Is(err, client.ErrUnavailable) ||
		errors.Is(err, client.ErrRejected)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
