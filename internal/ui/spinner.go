package ui

import (
	"fmt"
	"image/color"
	"io"
	"sync"
	"time"

	"charm.land/lipgloss/v2"
)

var (
	pointsFrames = []string{"∙∙∙", "●∙∙", "∙●∙", "∙∙●"}
	pointsFPS    = time.Second / 7
)

// Spinner is an animated waiting indicator. It writes to its own writer
// (stderr in practice) from a goroutine so stdout only ever carries the
// answer.
type Spinner struct {
	out     io.Writer
	message string
	frames  []string
	fps     time.Duration
	color   color.Color
	done    chan struct{}
	exited  chan struct{}
	start   sync.Once
	stop    sync.Once
}

// NewSpinner creates a spinner that renders message to out using the
// palette's command color.
func NewSpinner(out io.Writer, message string) *Spinner {
	return &Spinner{
		out:     out,
		message: message,
		frames:  pointsFrames,
		fps:     pointsFPS,
		color:   GetPalette().Command,
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
}

// Start begins the animation. It keeps running until Stop is called.
// Starting a stopped spinner does nothing.
func (s *Spinner) Start() {
	s.start.Do(func() { go s.run() })
}

// Stop halts the animation and blocks until the spinner line is cleared.
// It is safe to call more than once, and before Start.
func (s *Spinner) Stop() {
	s.stop.Do(func() {
		close(s.done)
		// Never started: nothing to wait for.
		s.start.Do(func() { close(s.exited) })
		<-s.exited
	})
}

func (s *Spinner) run() {
	defer close(s.exited)

	spinnerStyle := lipgloss.NewStyle().
		Foreground(s.color).
		Bold(true)

	messageStyle := lipgloss.NewStyle().
		Foreground(GetPalette().Text).
		Italic(true)

	ticker := time.NewTicker(s.fps)
	defer ticker.Stop()

	var frame int
	for {
		select {
		case <-s.done:
			fmt.Fprint(s.out, "\r\033[K")
			return
		case <-ticker.C:
			f := s.frames[frame%len(s.frames)]
			fmt.Fprintf(s.out, "\r %s %s",
				spinnerStyle.Render(f),
				messageStyle.Render(s.message))
			frame++
		}
	}
}

// ShowSpinner runs action while a spinner animates on out. When enabled is
// false the action runs without any output.
func ShowSpinner(out io.Writer, enabled bool, message string, action func()) {
	if !enabled {
		action()
		return
	}
	spinner := NewSpinner(out, message)
	spinner.Start()
	defer spinner.Stop()

	action()
}
