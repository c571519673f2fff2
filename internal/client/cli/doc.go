// Package cli provides the interactive terminal front end of the upload
// widget.
//
// It wires configuration, the HTTP transport, the widget and a read–eval–print
// loop. A background watcher pings the server and switches the prompt between
// online and offline; an optional watched directory acts as the drop zone.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher and runREPL for details.
package cli
