package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/crudforge/internal/cli/formatter"
	"github.com/alexanderramin/crudforge/internal/contract"
	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/alexanderramin/crudforge/internal/tree"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type pickerKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Subtree key.Binding
	Save    key.Binding
	Quit    key.Binding
}

func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Subtree, k.Save, k.Quit}
}

func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Toggle, k.Subtree}, {k.Save, k.Quit}}
}

var pickerKeys = pickerKeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	Subtree: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle subtree")),
	Save:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "cancel")),
}

// pickerModel is a checkbox tree over a package's feature catalog. Each
// toggle rebuilds the tree, so earlier states are never mutated.
type pickerModel struct {
	packageID string
	roots     []*domain.Node
	cursor    int
	saved     bool

	keys pickerKeyMap
	help help.Model
}

func newPickerModel(res *contract.SelectionResult) pickerModel {
	return pickerModel{
		packageID: res.PackageID,
		roots:     tree.Clone(res.Roots),
		keys:      pickerKeys,
		help:      help.New(),
	}
}

// Result returns the tree as last toggled.
func (m pickerModel) Result() []*domain.Node {
	return m.roots
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		entries := tree.Flatten(m.roots)
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(entries)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle), key.Matches(msg, m.keys.Subtree):
			if m.cursor < len(entries) {
				id := entries[m.cursor].Node.ID
				m.roots = tree.Toggle(m.roots, id, key.Matches(msg, m.keys.Subtree))
			}
		case key.Matches(msg, m.keys.Save):
			m.saved = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header(fmt.Sprintf("package %s features", m.packageID)))
	b.WriteString("\n")

	entries := tree.Flatten(m.roots)
	enabled := 0
	for _, e := range entries {
		if e.Node.Enabled {
			enabled++
		}
	}
	b.WriteString(formatter.Dim(fmt.Sprintf("%d of %d enabled", enabled, len(entries))))
	b.WriteString("\n\n")

	for i, e := range entries {
		cursor := "  "
		if i == m.cursor {
			cursor = formatter.StyleHeader.Render("› ")
		}
		box := "[ ] "
		if e.Node.Enabled {
			box = formatter.StyleGreen.Render("[x] ")
		}
		name := e.Node.Name
		if i == m.cursor {
			name = formatter.Bold(name)
		}
		b.WriteString(cursor + strings.Repeat("  ", e.Depth) + box + name + " " + formatter.Dim("#"+e.Node.ID))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
