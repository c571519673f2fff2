// Package dropzone holds the drop-target side of the widget: the MIME accept
// filter, the drag-state affordance and a directory watcher that turns files
// appearing in a folder into drops.
package dropzone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/uploadwidget/internal/client/models"
)

var ErrRejected = errors.New("file type not accepted")

// Accept is a MIME type filter. Patterns are full types ("application/pdf"),
// subtype wildcards ("image/*") or "*/*". An empty filter accepts everything.
type Accept struct {
	patterns []string
}

func NewAccept(patterns ...string) Accept {
	a := Accept{}
	for _, p := range patterns {
		if p = models.BaseType(p); p != "" {
			a.patterns = append(a.patterns, p)
		}
	}
	return a
}

// DefaultAccept accepts images and PDF documents.
func DefaultAccept() Accept {
	return NewAccept("image/*", "application/pdf")
}

// Allows reports whether mimeType matches any pattern.
func (a Accept) Allows(mimeType string) bool {
	if len(a.patterns) == 0 {
		return true
	}
	t := models.BaseType(mimeType)
	major, _, ok := strings.Cut(t, "/")
	if !ok {
		return false
	}
	for _, p := range a.patterns {
		switch {
		case p == "*/*" || p == "*":
			return true
		case strings.HasSuffix(p, "/*"):
			if strings.TrimSuffix(p, "/*") == major {
				return true
			}
		case p == t:
			return true
		}
	}
	return false
}

// Check returns an error wrapping ErrRejected when file does not pass.
func (a Accept) Check(file *models.SelectedFile) error {
	if a.Allows(file.MIME) {
		return nil
	}
	return fmt.Errorf("%w: %s (%s)", ErrRejected, file.Name, models.BaseType(file.MIME))
}

func (a Accept) Patterns() []string {
	out := make([]string, len(a.patterns))
	copy(out, a.patterns)
	return out
}

func (a Accept) String() string {
	if len(a.patterns) == 0 {
		return "*/*"
	}
	return strings.Join(a.patterns, ",")
}
