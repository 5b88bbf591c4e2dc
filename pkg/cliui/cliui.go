// Package cliui holds the terminal output helpers shared by the finetune
// commands: status marks, key/value lines, a progress step and markdown
// rendering.
package cliui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/0xsalt/chatgpt-generate-finetune-jsonl/pkg/logger"
)

// DefaultWrap is the markdown word-wrap width.
const DefaultWrap = 80

var (
	SuccessMark = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	FailMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")
	WarnMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("!")

	StepStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	KeyStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	ValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	DimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Step runs fn and prints one result line: a mark, msg and the elapsed
// time. On a terminal a spinner animates the line while fn runs; other
// writers only get the final line.
func Step(w io.Writer, msg string, fn func() error) error {
	stop := func() {}
	if logger.IsTerminal(w) {
		stop = spin(w, msg)
	}

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	stop()

	fmt.Fprintf(w, "\r  %s %s %s\n", Mark(err), msg, Elapsed(elapsed))
	return err
}

// spin animates msg on w until the returned func is called. The func
// returns once the last frame is written.
func spin(w io.Writer, msg string) func() {
	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for frame := 0; ; frame++ {
			fmt.Fprintf(w, "\r  %s %s", spinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)]), msg)
			select {
			case <-done:
				return
			case <-ticker.C:
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}

// Mark returns a ✓ for nil errors or ✗ otherwise.
func Mark(err error) string {
	if err != nil {
		return FailMark
	}
	return SuccessMark
}

// Field writes an indented "key value" line. An empty value renders as
// a dim placeholder.
func Field(w io.Writer, key, value string) {
	rendered := ValueStyle.Render(value)
	if value == "" {
		rendered = DimStyle.Render("<not set>")
	}
	fmt.Fprintf(w, "  %s  %s\n", KeyStyle.Render(key), rendered)
}

// Warn writes an indented warning line.
func Warn(w io.Writer, msg string) {
	fmt.Fprintf(w, "  %s %s\n", WarnMark, msg)
}

// Elapsed renders d dimmed and in parentheses.
func Elapsed(d time.Duration) string {
	return StepStyle.Render("(" + FormatDuration(d) + ")")
}

// FormatDuration formats d as "12ms", "3.2s" or "2m05s".
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		d = d.Round(time.Second)
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}

// RenderMarkdown renders content with glamour, wrapped at width columns
// (DefaultWrap when width <= 0). On error the raw content is returned
// alongside it.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWrap
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content, err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content, err
	}
	return rendered, nil
}
