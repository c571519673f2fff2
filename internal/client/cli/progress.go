package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// terminalWidthFn is a test seam. It reports the stdout width and whether
// stdout is a terminal at all.
var terminalWidthFn = func() (int, bool) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, false
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 80, true
	}
	return w, true
}

const (
	minBarWidth = 10
	maxBarWidth = 40
	maxBarName  = 24
)

// progressBar draws upload progress. On a terminal it redraws one line in
// place; otherwise it prints a line per quarter.
type progressBar struct {
	mu     sync.Mutex
	w      io.Writer
	name   string
	last   int
	active bool
	tty    bool
	width  int
}

func newProgressBar(w io.Writer) *progressBar {
	return &progressBar{w: w, last: -1}
}

func (p *progressBar) Start(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.name = name
	p.last = -1
	p.active = false
	p.width, p.tty = terminalWidthFn()
}

// Update is called from the transport goroutine while the body is sent.
func (p *progressBar) Update(percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if percent == p.last {
		return
	}
	if !p.tty {
		if percent/25 == p.last/25 && p.last >= 0 {
			p.last = percent
			return
		}
		p.last = percent
		fmt.Fprintf(p.w, "%s: %d%%\n", p.name, percent)
		return
	}

	p.last = percent
	p.active = true
	fmt.Fprintf(p.w, "\r%s", renderBar(p.name, percent, p.width))
}

func (p *progressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active {
		fmt.Fprintln(p.w)
	}
	p.active = false
	p.last = -1
}

// renderBar formats "[#####-----]  50% name" to fit in width columns.
func renderBar(name string, percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if len(name) > maxBarName {
		name = name[:maxBarName-3] + "..."
	}

	barWidth := width - len(name) - 8
	if barWidth > maxBarWidth {
		barWidth = maxBarWidth
	}
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	filled := barWidth * percent / 100
	return fmt.Sprintf("[%s%s] %3d%% %s",
		strings.Repeat("#", filled), strings.Repeat("-", barWidth-filled), percent, name)
}
