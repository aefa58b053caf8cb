package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/crudforge/internal/cli/formatter"
	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// crudforgeHuhTheme returns a huh theme using the formatter palette.
func crudforgeHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// editValues backs the interactive edit form. Numeric fields stay strings
// until toForm so blank means "leave unset".
type editValues struct {
	Name     string
	Code     string
	ParentID string
	Order    string
	Active   bool
}

// fieldKeys are the backend keys the form writes for each tree kind.
type fieldKeys struct{ name, code string }

var editFieldKeys = map[domain.TreeKind]fieldKeys{
	domain.TreeMenu:    {name: "title", code: "module_code"},
	domain.TreeFeature: {name: "name", code: "feature_code"},
	domain.TreeColumn:  {name: "label", code: "column_code"},
}

// editValuesFrom prefills the form from the node being edited. A nil node
// gives an empty, active form.
func editValuesFrom(n *domain.Node) editValues {
	if n == nil {
		return editValues{Active: true}
	}
	v := editValues{Name: n.Name, Code: n.Code, Active: n.IsActive}
	if n.ParentID != nil {
		v.ParentID = *n.ParentID
	}
	if n.OrderNumber != 0 {
		v.Order = strconv.Itoa(n.OrderNumber)
	}
	return v
}

// toForm turns the values into form keys for the payload normalizer. Blank
// name and code are omitted; a blank parent clears it.
func (v editValues) toForm(kind domain.TreeKind) map[string]any {
	keys := editFieldKeys[kind]
	form := map[string]any{
		"parentId": v.ParentID,
		"isActive": v.Active,
	}
	if v.Name != "" {
		form[keys.name] = v.Name
	}
	if v.Code != "" {
		form[keys.code] = v.Code
	}
	if v.Order != "" {
		n, _ := strconv.Atoi(v.Order)
		form["orderNumber"] = n
	}
	return form
}

func editForm(kind domain.TreeKind, id string, v *editValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&v.Name),
			huh.NewInput().Title("Code").Value(&v.Code),
			huh.NewInput().
				Title("Parent ID").
				Description("blank moves the node to the top level").
				Value(&v.ParentID).
				Validate(validateOptionalInt),
			huh.NewInput().
				Title("Order").
				Placeholder("0").
				Value(&v.Order).
				Validate(validateNonNegativeInt),
			huh.NewConfirm().Title("Active?").Value(&v.Active),
		).Title(fmt.Sprintf("Edit %s #%s", kind, id)),
	).WithTheme(crudforgeHuhTheme()).WithShowHelp(false)
}

// validateOptionalInt accepts empty or an integer.
func validateOptionalInt(s string) error {
	if s == "" {
		return nil
	}
	if _, err := strconv.Atoi(s); err != nil {
		return fmt.Errorf("enter a number")
	}
	return nil
}

// validateNonNegativeInt accepts empty or a non-negative integer.
func validateNonNegativeInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return fmt.Errorf("enter zero or a positive number")
	}
	return nil
}
