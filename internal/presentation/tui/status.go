package tui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aretw0/curtain/pkg/domain"
	"github.com/muesli/termenv"
)

// StatusPrinter writes colored, timestamped status lines.
// It is safe for concurrent use.
type StatusPrinter struct {
	mu    sync.Mutex
	w     io.Writer
	out   *termenv.Output
	start time.Time
}

// NewStatusPrinter creates a printer writing to w. Colors are dropped when
// w is not a terminal.
func NewStatusPrinter(w io.Writer) *StatusPrinter {
	return &StatusPrinter{w: w, out: termenv.NewOutput(w), start: time.Now()}
}

// Status prints a status change.
func (p *StatusPrinter) Status(s domain.Status) {
	color := "#34d399"
	if s.IsTransitioning() {
		color = "#fbbf24"
	}
	label := p.out.String(fmt.Sprintf("%-13s", s)).Foreground(p.out.Color(color)).Bold()
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s %s\n", p.elapsed(), label)
}

// Event prints an arbitrary line in the same layout as Status.
func (p *StatusPrinter) Event(format string, args ...any) {
	msg := p.out.String(fmt.Sprintf(format, args...)).Faint()
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s %s\n", p.elapsed(), msg)
}

func (p *StatusPrinter) elapsed() string {
	return fmt.Sprintf("[%6.3fs]", time.Since(p.start).Seconds())
}
