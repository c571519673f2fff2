// Package client contains the widget's transport to the upload backend.
//
// # Overview
//
//  1. A transport-agnostic contract (see the Client interface): Upload,
//     ListFiles and Ping.
//  2. An HTTP implementation (see HTTPClient) that posts multipart bodies to
//     BaseURL+UploadPath and reads the JSON listing from BaseURL+FilesPath.
//
// # Error Handling
//
// Failures are exposed as sentinel errors matched with errors.Is:
// ErrUnavailable (network failure), ErrRejected (non-2xx, carried by
// *StatusError), ErrBadResponse (undecodable listing) and ErrInvalidInput.
//
// No request is retried. Without a configured timeout the client relies on
// the caller's context alone.
package client
