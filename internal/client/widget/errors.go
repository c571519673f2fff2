package widget

import "errors"

var (
	ErrNoFileSelected   = errors.New("no file selected")
	ErrCompression      = errors.New("compression failed")
	ErrUploadInProgress = errors.New("upload already in progress")
	ErrDropzoneDisabled = errors.New("drop zone disabled")
	ErrClosed           = errors.New("widget closed")
)

// User-facing notification texts.
const (
	MsgNoFile         = "Please choose a file"
	MsgCompressFailed = "Error compressing or uploading file"
	MsgUploadFailed   = "Error uploading file"
	MsgUploaded       = "File uploaded successfully"
	MsgRejected       = "Only images and PDFs are allowed!"
)
