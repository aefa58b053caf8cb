package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/alexanderramin/crudforge/internal/tree"
	"github.com/charmbracelet/lipgloss"
)

// Item statuses understood by RenderTree.
const (
	StatusEnabled  = "enabled"
	StatusInactive = "inactive"
	StatusDeleted  = "deleted"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	Title string
	ID    string // empty means don't display
	Level int
	// Continues[d] is set when the ancestor at depth d has later siblings,
	// which draws a vertical guide in that column.
	Continues []bool
	IsLast    bool
	Status    string
	Kind      domain.NodeKind
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// NodeItems flattens nodes into display items. With selection set, only the
// Enabled flag decides the status; otherwise soft-delete and inactive do.
func NodeItems(roots []*domain.Node, selection bool) []TreeItem {
	entries := tree.Flatten(roots)
	items := make([]TreeItem, 0, len(entries))
	var open []bool
	for _, e := range entries {
		if len(open) > e.Depth {
			open = open[:e.Depth]
		}
		for len(open) < e.Depth {
			open = append(open, false)
		}
		item := TreeItem{
			Title:     e.Node.Name,
			ID:        e.Node.ID,
			Level:     e.Depth,
			Continues: append([]bool(nil), open...),
			IsLast:    e.IsLast,
			Status:    nodeStatus(e.Node, selection),
			Kind:      e.Node.Kind,
		}
		items = append(items, item)
		open = append(open, !e.IsLast)
	}
	return items
}

func nodeStatus(n *domain.Node, selection bool) string {
	switch {
	case selection && n.Enabled:
		return StatusEnabled
	case selection:
		return ""
	case n.IsDeleted():
		return StatusDeleted
	case !n.IsActive:
		return StatusInactive
	}
	return ""
}

// RenderTree renders a list of TreeItems as an indented tree using
// box-drawing characters for connectors. Kind badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	// Pass 1: build each line's content and track max visible width.
	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			for d := 1; d < item.Level; d++ {
				if d < len(item.Continues) && item.Continues[d] {
					prefix += treePipe
				} else {
					prefix += treeBlank
				}
			}
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		if item.ID != "" {
			title = StyleDim.Render(fmt.Sprintf("#%s ", item.ID)) + title
		}

		statusPrefix := ""
		switch item.Status {
		case StatusEnabled:
			statusPrefix = StyleGreen.Render("✔ ")
		case StatusInactive:
			statusPrefix = StyleDim.Render("○ ")
			title = Dim(title)
		case StatusDeleted:
			statusPrefix = StyleRed.Render("✖ ")
			title = Dim(title)
		}

		content := StyleDim.Render(prefix) + statusPrefix + title
		lines[idx].content = content

		if item.Kind != "" {
			lines[idx].badge = KindStyle(item.Kind).Render(fmt.Sprintf("[ %s ]", item.Kind))
		}

		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	// Pass 2: render with right-aligned badges.
	var b strings.Builder
	for _, li := range lines {
		if li.badge != "" {
			pad := maxContentWidth - lipgloss.Width(li.content)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
		} else {
			b.WriteString(li.content + "\n")
		}
	}

	return b.String()
}
