// Package models defines server-side data models persisted in the database.
package models

import "time"

// File is the metadata row of one stored upload. The payload itself lives in
// the configured storage backend under StorageKey.
type File struct {
	ID           string
	OriginalName string
	StorageKey   string
	ContentType  string
	Size         int64
	// Digest is the hex-encoded BLAKE2b-256 of the stored bytes.
	Digest    string
	CreatedAt time.Time
}
