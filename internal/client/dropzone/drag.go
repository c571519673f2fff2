package dropzone

type DragPhase int

const (
	DragIdle DragPhase = iota
	DragAccept
	DragReject
)

func (p DragPhase) String() string {
	switch p {
	case DragAccept:
		return "accept"
	case DragReject:
		return "reject"
	default:
		return "idle"
	}
}

const (
	ColorIdle   = "#ffffff"
	ColorAccept = "#00e676"
	ColorReject = "#ff1744"
)

// DragState tracks whether something is being dragged over the drop zone and
// whether it would be accepted. The zero value is idle.
type DragState struct {
	phase DragPhase
}

// Enter starts a drag carrying items of the given MIME types. The drag is
// accepted only when every type passes the filter.
func (s *DragState) Enter(accept Accept, types ...string) {
	if len(types) == 0 {
		s.phase = DragReject
		return
	}
	for _, t := range types {
		if !accept.Allows(t) {
			s.phase = DragReject
			return
		}
	}
	s.phase = DragAccept
}

func (s *DragState) Leave() { s.phase = DragIdle }

func (s *DragState) Drop() { s.phase = DragIdle }

func (s DragState) Phase() DragPhase { return s.phase }

func (s DragState) Active() bool { return s.phase != DragIdle }

// Color is the drop zone background for the current phase.
func (s DragState) Color() string {
	switch s.phase {
	case DragAccept:
		return ColorAccept
	case DragReject:
		return ColorReject
	default:
		return ColorIdle
	}
}

func (s DragState) Hint() string {
	switch s.phase {
	case DragAccept:
		return "Drop the files here"
	case DragReject:
		return "Only images and PDFs are allowed!"
	default:
		return "Drag 'n' drop images or PDFs here, or click to select files"
	}
}
