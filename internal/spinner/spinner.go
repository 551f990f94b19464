// Package spinner draws a one-line progress indicator on terminals.
package spinner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const interval = 80 * time.Millisecond

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Spinner animates a message on w until Stop is called. The message can be
// replaced while it runs.
type Spinner struct {
	w       io.Writer
	mu      sync.Mutex
	message string
	width   int

	done     chan struct{}
	cleared  chan struct{}
	stopOnce sync.Once
}

// New starts a spinner showing message on w.
func New(w io.Writer, message string) *Spinner {
	s := &Spinner{
		w:       w,
		message: message,
		done:    make(chan struct{}),
		cleared: make(chan struct{}),
	}
	go s.run()
	return s
}

// Start displays an animated spinner with the given message on w.
// Call the returned function to stop the spinner and clear the line.
func Start(w io.Writer, message string) (stop func()) {
	return New(w, message).Stop
}

// Update replaces the message shown next to the spinner.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop halts the animation and clears the line. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	<-s.cleared
}

func (s *Spinner) run() {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-s.done:
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width)) //nolint:errcheck
			s.mu.Unlock()
			close(s.cleared)
			return
		case <-ticker.C:
			s.mu.Lock()
			line := fmt.Sprintf("%s %s", frames[i%len(frames)], s.message)
			pad := ""
			// Blank out the tail of a longer previous message
			if w := runewidth.StringWidth(line); w < s.width {
				pad = strings.Repeat(" ", s.width-w)
			} else {
				s.width = w
			}
			fmt.Fprintf(s.w, "\r%s%s", line, pad) //nolint:errcheck
			s.mu.Unlock()
			i++
		}
	}
}
