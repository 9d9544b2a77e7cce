// Package progress draws a terminal spinner while Inkscape invocations run.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const frames = `⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏`

// Reporter receives progress updates from a run.
type Reporter interface {
	// Update replaces the progress message.
	Update(msg string)

	// Stop ends progress output.
	Stop()
}

// Nop is a Reporter that prints nothing.
type Nop struct{}

func (Nop) Update(string) {}
func (Nop) Stop()         {}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Spinner redraws a single status line on a terminal until stopped.
type Spinner struct {
	mu         sync.Mutex
	delay      time.Duration
	writer     io.Writer
	message    string
	lastOutput string
	glyph      *color.Color
	stopChan   chan struct{}
	done       chan struct{}
	running    bool
}

// NewSpinner creates a spinner that writes to w every delay.
func NewSpinner(w io.Writer, delay time.Duration) *Spinner {
	return &Spinner{
		delay:  delay,
		writer: w,
		glyph:  color.New(color.FgCyan),
	}
}

// ForStderr returns a spinner on stderr when it is a terminal and Nop otherwise.
// Inkscape captures stderr of effects, so progress is only drawn for interactive use.
func ForStderr() Reporter {
	if !IsTerminal(os.Stderr) {
		return Nop{}
	}
	s := NewSpinner(os.Stderr, 100*time.Millisecond)
	s.Start()
	return s
}

// Start begins drawing in a background goroutine.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})

	go s.loop(s.stopChan, s.done)
}

func (s *Spinner) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	for {
		for _, r := range frames {
			s.mu.Lock()
			s.clear()
			output := fmt.Sprintf("\r%s %s", s.glyph.Sprint(string(r)), s.message)
			_, _ = fmt.Fprint(s.writer, output)
			s.lastOutput = output
			s.mu.Unlock()

			select {
			case <-stop:
				return
			case <-ticker.C:
			}
		}
	}
}

// Update replaces the message shown next to the spinner.
func (s *Spinner) Update(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = msg
}

// Stop halts the spinner and erases its line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()

	<-done

	s.mu.Lock()
	s.clear()
	s.mu.Unlock()
}

// clear erases the last drawn line. Caller must hold the lock.
func (s *Spinner) clear() {
	if s.lastOutput == "" {
		return
	}
	n := utf8.RuneCountInString(s.lastOutput)
	_, _ = fmt.Fprint(s.writer, "\r"+strings.Repeat(" ", n)+"\r")
	s.lastOutput = ""
}
