// Package netx holds HTTP body helpers for the upload transport.
package netx

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// MultipartBody is a buffered multipart/form-data body carrying one file part.
// Buffering keeps Content-Length known up front, which progress reporting needs.
type MultipartBody struct {
	contentType string
	data        []byte
}

// NewMultipartBody encodes content as a single file part named field.
// An empty partType is sent as application/octet-stream.
func NewMultipartBody(field, filename, partType string, content []byte) (*MultipartBody, error) {
	if partType == "" {
		partType = "application/octet-stream"
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
	h.Set("Content-Type", partType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("create part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("write part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	return &MultipartBody{contentType: mw.FormDataContentType(), data: buf.Bytes()}, nil
}

// ContentType returns the multipart content type including the boundary.
func (b *MultipartBody) ContentType() string { return b.contentType }

// Len returns the encoded body size in bytes.
func (b *MultipartBody) Len() int64 { return int64(len(b.data)) }

// Reader returns a fresh reader over the body. onProgress, when non-nil,
// receives the integer percentage sent so far each time it changes.
func (b *MultipartBody) Reader(onProgress func(percent int)) io.Reader {
	r := bytes.NewReader(b.data)
	if onProgress == nil {
		return r
	}
	return NewProgressReader(r, b.Len(), onProgress)
}

// ProgressReader reports read progress of a body with a known total size.
type ProgressReader struct {
	r        io.Reader
	total    int64
	loaded   int64
	last     int
	callback func(percent int)
}

func NewProgressReader(r io.Reader, total int64, callback func(percent int)) *ProgressReader {
	return &ProgressReader{r: r, total: total, last: -1, callback: callback}
}

func (p *ProgressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.loaded += int64(n)
		p.report()
	}
	if err == io.EOF && p.last < 100 {
		p.loaded = p.total
		p.report()
	}
	return n, err
}

func (p *ProgressReader) report() {
	percent := 100
	if p.total > 0 {
		percent = int((p.loaded*100 + p.total/2) / p.total)
	}
	if percent > 100 {
		percent = 100
	}
	if percent != p.last {
		p.last = percent
		p.callback(percent)
	}
}
