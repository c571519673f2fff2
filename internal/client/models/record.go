package models

import "fmt"

// FileRecord is the server-reported metadata of a previously uploaded file.
// Unknown fields in the listing response are ignored.
type FileRecord struct {
	OriginalName string `json:"originalname"`
	FileLink     string `json:"fileLink"`
}

// Title is the drawer caption of the record.
func (r FileRecord) Title() string {
	return fmt.Sprintf("File: %s", r.OriginalName)
}
