package output

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// printCelebration shows a short sparkle animation for an all-ready run.
// Callers only use it on an interactive terminal.
func printCelebration(w io.Writer, msg string) {
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	bold := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)

	frames := []struct {
		text  string
		delay time.Duration
	}{
		{green.Render(msg), 150 * time.Millisecond},
		{yellow.Render("✨ " + msg + " ✨"), 250 * time.Millisecond},
		{bold.Render("🖨  " + msg + " 🖨"), 350 * time.Millisecond},
		{green.Render(msg), 0},
	}

	for i, frame := range frames {
		if i > 0 {
			fmt.Fprint(w, "\r\033[K")
		}
		fmt.Fprint(w, frame.text)
		if frame.delay > 0 {
			time.Sleep(frame.delay)
		}
	}
	fmt.Fprintln(w)
}
