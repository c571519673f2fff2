package common

// FileFieldName is the multipart form field that carries the uploaded file.
const FileFieldName = "file"

// Default endpoint paths of the upload contract.
const (
	DefaultUploadPath = "/upload"
	DefaultFilesPath  = "/files"
)

// LinkTokenParam is the query parameter carrying a signed download token.
const LinkTokenParam = "token"
