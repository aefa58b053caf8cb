package cli

import (
	"testing"

	"github.com/alexanderramin/crudforge/internal/contract"
	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/alexanderramin/crudforge/internal/teatest"
	"github.com/alexanderramin/crudforge/internal/tree"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pickerFixture() *contract.SelectionResult {
	return &contract.SelectionResult{
		PackageID: "P1",
		Roots: []*domain.Node{
			{ID: "1", Name: "Billing", Children: []*domain.Node{
				{ID: "10", Name: "Invoices", Enabled: true},
				{ID: "11", Name: "Reports"},
			}},
			{ID: "2", Name: "Users"},
		},
	}
}

func pickerOf(t *testing.T, d *teatest.Driver) pickerModel {
	t.Helper()
	m, ok := d.Model.(pickerModel)
	require.True(t, ok)
	return m
}

func TestPicker_ViewShowsChecks(t *testing.T) {
	d := teatest.New(t, newPickerModel(pickerFixture()))

	view := stripANSI(d.View())

	assert.Contains(t, view, "PACKAGE P1 FEATURES")
	assert.Contains(t, view, "1 of 4 enabled")
	assert.Contains(t, view, "›")
	assert.Contains(t, view, "[x] Invoices #10")
	assert.Contains(t, view, "[ ] Reports #11")
	assert.Contains(t, view, "toggle subtree")
}

func TestPicker_ToggleSubtree(t *testing.T) {
	d := teatest.New(t, newPickerModel(pickerFixture()))

	d.PressKey('a')
	m := pickerOf(t, d)

	assert.Equal(t, []int64{1, 10, 11}, tree.FlattenIDs(m.Result(), nil))
}

func TestPicker_CursorBoundsAndVimKeys(t *testing.T) {
	d := teatest.New(t, newPickerModel(pickerFixture()))

	d.PressUp()
	assert.Equal(t, 0, pickerOf(t, d).cursor)

	for range 10 {
		d.PressKey('j')
	}
	assert.Equal(t, 3, pickerOf(t, d).cursor)

	d.PressKey('k')
	d.PressKey('x')
	m := pickerOf(t, d)
	assert.Equal(t, []int64{10, 11}, tree.FlattenIDs(m.Result(), nil))
}

func TestPicker_SaveAndCancel(t *testing.T) {
	d := teatest.New(t, newPickerModel(pickerFixture()))
	d.PressDown()
	d.PressSpace()
	d.PressEnter()

	m := pickerOf(t, d)
	assert.True(t, d.Quitting)
	assert.True(t, m.saved)
	assert.Empty(t, tree.FlattenIDs(m.Result(), nil))

	d = teatest.New(t, newPickerModel(pickerFixture()))
	d.PressKey('q')
	assert.True(t, d.Quitting)
	assert.False(t, pickerOf(t, d).saved)
}

func TestPicker_DoesNotMutateInput(t *testing.T) {
	res := pickerFixture()
	d := teatest.New(t, newPickerModel(res))
	d.PressDown()
	d.PressSpace()

	assert.True(t, res.Roots[0].Children[0].Enabled)
}

func TestPicker_WindowSize(t *testing.T) {
	d := teatest.New(t, newPickerModel(pickerFixture()))
	d.Send(tea.WindowSizeMsg{Width: 40, Height: 10})

	assert.Equal(t, 40, pickerOf(t, d).help.Width)
}
