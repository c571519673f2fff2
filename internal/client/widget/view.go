package widget

import (
	"github.com/dmitrijs2005/uploadwidget/internal/client/dropzone"
	"github.com/dmitrijs2005/uploadwidget/internal/client/preview"
)

const (
	LabelChoose     = "Choose a file"
	LabelUpload     = "Upload"
	LabelUploading  = "Uploading..."
	PlaceholderList = "No files available"
)

// Entry is one row of the file drawer.
type Entry struct {
	Title string
	Link  string
}

// View is a render-ready snapshot of the widget.
type View struct {
	SelectLabel    string
	ButtonLabel    string
	ButtonDisabled bool

	Entries     []Entry
	Placeholder string

	Dropzone    bool
	DragPhase   dropzone.DragPhase
	DragColor   string
	DragHint    string
	PreviewKind preview.Kind
	PreviewURL  string
}

func (w *UploadWidget) View() View {
	uploading := w.uploading.Load()

	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{
		SelectLabel:    LabelChoose,
		ButtonLabel:    LabelUpload,
		ButtonDisabled: uploading || w.selected == nil,
		Entries:        make([]Entry, 0, len(w.files)),
		Dropzone:       w.opts.Dropzone,
		DragPhase:      w.drag.Phase(),
		DragColor:      w.drag.Color(),
		DragHint:       w.drag.Hint(),
	}
	if w.selected != nil {
		v.SelectLabel = "Selected file: " + w.selected.Name
	}
	if uploading {
		v.ButtonLabel = LabelUploading
	}
	for _, f := range w.files {
		v.Entries = append(v.Entries, Entry{Title: f.Title(), Link: f.FileLink})
	}
	if len(v.Entries) == 0 {
		v.Placeholder = PlaceholderList
	}
	if w.previews != nil {
		if p := w.previews.Current(); p != nil {
			v.PreviewKind = p.Kind()
			v.PreviewURL = p.URL()
		}
	}
	return v
}
