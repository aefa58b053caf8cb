package formatter

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox frames content in a rounded dim border. A non-empty title goes
// on the first line inside the frame.
func RenderBox(title, content string) string {
	if title != "" {
		content = StyleHeader.Render(title) + "\n" + content
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(0, 1).
		Render(content)
}

// HumanTimestampFrom renders t relative to now: "just now", "5m ago", or a
// date once it is two weeks old.
func HumanTimestampFrom(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case t.IsZero():
		return "never"
	case diff < 0:
		return t.Format("Jan 2, 2006 15:04")
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 14*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// Plural returns "1 node" or "3 nodes".
func Plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
