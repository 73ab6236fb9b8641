package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/user/timelapse/pkg/ports"
)

// progressPrinter renders per-file progress. On a terminal it redraws one
// line per file and ends it at 100%, so log lines never share it. Otherwise
// it prints a line at every 10% step.
type progressPrinter struct {
	mu  sync.Mutex
	out io.Writer
	tty bool

	index, total int
	name         string
	step         int
	open         bool
}

func newProgressPrinter(f *os.File) *progressPrinter {
	return &progressPrinter{
		out: f,
		tty: isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()),
	}
}

func (p *progressPrinter) OnFileStart(index, total int, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.endLine()
	p.index, p.total, p.name = index, total, name
	p.step = -1

	if !p.tty {
		fmt.Fprintf(p.out, "[%d/%d] %s\n", index+1, total, name)
	}
}

func (p *progressPrinter) OnProgress(percent float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tty {
		fmt.Fprintf(p.out, "\r[%d/%d] %s %5.1f%%", p.index+1, p.total, p.name, percent)
		p.open = true
		if percent >= 100 {
			p.endLine()
		}
		return
	}

	step := int(percent) / 10
	if step > p.step {
		p.step = step
		fmt.Fprintf(p.out, "  %d%%\n", step*10)
	}
}

// Finish terminates a progress line left open by a failed file.
func (p *progressPrinter) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endLine()
}

func (p *progressPrinter) endLine() {
	if p.open {
		fmt.Fprintln(p.out)
		p.open = false
	}
}

var _ ports.ProgressObserver = (*progressPrinter)(nil)
