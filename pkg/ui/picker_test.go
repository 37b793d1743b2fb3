package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/drill/pkg/model"
	"github.com/vanderheijden86/drill/pkg/tree"
)

// catalogOptions is a small two-level catalog:
//
//	Fruit (1)
//	├── Apple (2)
//	│   ├── Gala (4)
//	│   └── Fuji (5)
//	└── Pear (3)
//	Bread (6)
func catalogOptions() []model.Option {
	return []model.Option{
		model.NewOption(1, 0, "Fruit"),
		model.NewOption(2, 1, "Apple"),
		model.NewOption(3, 1, "Pear"),
		model.NewOption(4, 2, "Gala"),
		model.NewOption(5, 2, "Fuji"),
		model.NewOption(6, 0, "Bread"),
	}
}

func newTestPicker(t *testing.T, opts Options) *Picker {
	t.Helper()
	tr, err := tree.Build(catalogOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	opts.Theme = DefaultTheme(lipgloss.DefaultRenderer())
	p, err := NewPicker(tr, opts)
	if err != nil {
		t.Fatalf("NewPicker: %v", err)
	}
	settle(p, p.Init())
	return p
}

// settle runs cmd and everything it produces, feeding visibility passes
// back into the picker. Other messages are returned in order.
func settle(p *Picker, cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case visibilityMsg:
			_, next := p.Update(msg)
			queue = append(queue, next)
		default:
			out = append(out, msg)
		}
	}
	return out
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "f1":
		return tea.KeyMsg{Type: tea.KeyF1}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(p *Picker, keys ...string) []tea.Msg {
	var out []tea.Msg
	for _, k := range keys {
		_, cmd := p.Update(keyMsg(k))
		out = append(out, settle(p, cmd)...)
	}
	return out
}

func visibleIDs(p *Picker) []int {
	return p.host.visibleRows()
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func findMsg[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func TestPickerStartsClosed(t *testing.T) {
	p := newTestPicker(t, Options{})

	if p.IsOpen() {
		t.Fatal("picker should start closed")
	}
	if p.Title() != "" {
		t.Errorf("Title() = %q, want empty at root", p.Title())
	}
	if view := p.View(); !strings.Contains(view, defaultPlaceholder) {
		t.Errorf("closed view should show the placeholder, got:\n%s", view)
	}
}

func TestPickerOpenShowsTopLevel(t *testing.T) {
	p := newTestPicker(t, Options{})
	press(p, "enter")

	if !p.IsOpen() {
		t.Fatal("enter should open the picker")
	}
	if got := visibleIDs(p); !equalIDs(got, []int{1, 6}) {
		t.Errorf("visible rows = %v, want [1 6]", got)
	}
	if !p.host.branch[1] || p.host.branch[6] {
		t.Errorf("branch marks = %v, want only Fruit", p.host.branch)
	}

	view := p.View()
	for _, want := range []string{"Fruit", "Bread", "›"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Apple") || strings.Contains(view, "‹ Back") {
		t.Errorf("top level should not list children or back:\n%s", view)
	}
}

func TestPickerDrillIntoBranch(t *testing.T) {
	p := newTestPicker(t, Options{})
	press(p, "enter")

	msgs := press(p, "enter") // Fruit

	if !p.IsOpen() {
		t.Fatal("drilling into a branch must keep the picker open")
	}
	if p.Selected().ID() != 2 {
		t.Errorf("selected = %d, want first child 2", p.Selected().ID())
	}
	if p.Title() != "Apple / Fruit" {
		t.Errorf("Title() = %q", p.Title())
	}
	if got := visibleIDs(p); !equalIDs(got, []int{2, 3}) {
		t.Errorf("visible rows = %v, want [2 3]", got)
	}
	if !p.host.backVisible {
		t.Error("back should be visible below the top level")
	}
	changed, ok := findMsg[ValueChangedMsg](msgs)
	if !ok {
		t.Fatal("expected ValueChangedMsg after descending")
	}
	if changed.ID != 2 || changed.Breadcrumb != "Apple / Fruit" {
		t.Errorf("ValueChangedMsg = %+v", changed)
	}
	if _, ok := findMsg[CommittedMsg](msgs); ok {
		t.Error("descending must not commit")
	}

	// Cursor lands on the new selection, after the back row.
	if p.cursor != 1 {
		t.Errorf("cursor = %d, want 1", p.cursor)
	}
}

func TestPickerCommitLeaf(t *testing.T) {
	p := newTestPicker(t, Options{QuitOnCommit: true})
	press(p, "enter", "enter", "down") // open, into Fruit, to Pear

	msgs := press(p, "enter")

	committed, ok := findMsg[CommittedMsg](msgs)
	if !ok {
		t.Fatal("expected CommittedMsg")
	}
	if committed.ID != 3 || committed.Breadcrumb != "Pear / Fruit" {
		t.Errorf("CommittedMsg = %+v", committed)
	}
	if _, ok := findMsg[tea.QuitMsg](msgs); !ok {
		t.Error("QuitOnCommit should quit after committing")
	}
	if p.IsOpen() {
		t.Error("commit should close the list")
	}
	if n, ok := p.Result(); !ok || n.ID() != 3 {
		t.Errorf("Result() = %v, %v", n, ok)
	}
}

func TestPickerBackChain(t *testing.T) {
	p := newTestPicker(t, Options{})
	press(p, "enter", "enter", "enter") // open, Fruit, Apple

	if p.Title() != "Gala / Apple / Fruit" {
		t.Fatalf("Title() = %q", p.Title())
	}
	if got := visibleIDs(p); !equalIDs(got, []int{4, 5}) {
		t.Fatalf("visible rows = %v, want [4 5]", got)
	}

	press(p, "left")
	if p.Selected().ID() != 2 || p.Title() != "Apple / Fruit" {
		t.Errorf("after back: selected %d, title %q", p.Selected().ID(), p.Title())
	}

	press(p, "backspace")
	if p.Selected().ID() != 1 || p.Title() != "Fruit" {
		t.Errorf("after second back: selected %d, title %q", p.Selected().ID(), p.Title())
	}
	if p.host.backVisible {
		t.Error("back should be hidden at the top level")
	}
	if got := visibleIDs(p); !equalIDs(got, []int{1, 6}) {
		t.Errorf("visible rows = %v, want [1 6]", got)
	}

	// No further ascent from the top level.
	msgs := press(p, "left")
	if _, ok := findMsg[ValueChangedMsg](msgs); ok {
		t.Error("back at the top level must not change the value")
	}
}

func TestPickerBackRow(t *testing.T) {
	p := newTestPicker(t, Options{})
	press(p, "enter", "enter", "up") // into Fruit, cursor on the back row

	press(p, "enter")
	if p.Selected().ID() != 1 {
		t.Errorf("activating the back row should ascend, selected %d", p.Selected().ID())
	}
}

func TestPickerUseButton(t *testing.T) {
	p := newTestPicker(t, Options{UseButtonLabel: "Use"})
	press(p, "enter")

	if view := p.View(); !strings.Contains(view, "[Use]") {
		t.Errorf("branch rows should offer the use button:\n%s", view)
	}

	msgs := press(p, "tab")
	committed, ok := findMsg[CommittedMsg](msgs)
	if !ok || committed.ID != 1 || committed.Breadcrumb != "Fruit" {
		t.Errorf("tab on a branch should commit it, got %+v (ok=%v)", committed, ok)
	}
}

func TestPickerUseButtonDisabled(t *testing.T) {
	p := newTestPicker(t, Options{})
	press(p, "enter")

	if view := p.View(); strings.Contains(view, "› [") {
		t.Errorf("no use button without a label:\n%s", view)
	}

	if view := p.View(); strings.Contains(view, "use group") {
		t.Errorf("footer should not advertise tab without a label:\n%s", view)
	}

	msgs := press(p, "tab")
	if _, ok := findMsg[CommittedMsg](msgs); ok {
		t.Error("tab must not commit a branch when the use button is off")
	}
	if p.Selected().ID() != model.RootID {
		t.Errorf("tab should do nothing, selected %d", p.Selected().ID())
	}
}

func TestPickerUseButtonInFooter(t *testing.T) {
	p := newTestPicker(t, Options{UseButtonLabel: "Use"})
	press(p, "enter")

	if view := p.View(); !strings.Contains(view, "use group") {
		t.Errorf("footer should advertise tab when a label is set:\n%s", view)
	}
}

func TestHelpMarkdown(t *testing.T) {
	if strings.Contains(helpMarkdown(false), "tab") {
		t.Error("help should omit tab without a use button")
	}
	if !strings.Contains(helpMarkdown(true), "| tab |") {
		t.Error("help should list tab with a use button")
	}
	if !strings.Contains(helpMarkdown(false), "| esc | close the list |") {
		t.Error("esc closes the list and keeps the drilled selection")
	}
}

func TestPickerDrillKeyOnlyOnBranches(t *testing.T) {
	p := newTestPicker(t, Options{})
	press(p, "enter", "down") // cursor on Bread

	press(p, "right")
	if p.Selected().ID() != model.RootID {
		t.Errorf("right on a leaf must not select, selected %d", p.Selected().ID())
	}

	press(p, "up", "right")
	if p.Selected().ID() != 2 {
		t.Errorf("right on Fruit should drill in, selected %d", p.Selected().ID())
	}
}

func TestPickerQueryFiltersCurrentLevel(t *testing.T) {
	p := newTestPicker(t, Options{})
	press(p, "enter", "b", "r")

	if got := visibleIDs(p); !equalIDs(got, []int{6}) {
		t.Errorf("visible rows for 'br' = %v, want [6]", got)
	}

	press(p, "backspace", "backspace", "g", "a", "l", "a")
	if got := visibleIDs(p); len(got) != 0 {
		t.Errorf("Gala is not on the top level, visible %v", got)
	}
	if view := p.View(); !strings.Contains(view, "no matches") {
		t.Errorf("expected empty-state row:\n%s", view)
	}
}

func TestPickerEscCloses(t *testing.T) {
	p := newTestPicker(t, Options{})
	press(p, "enter", "enter")

	msgs := press(p, "esc")
	if p.IsOpen() {
		t.Fatal("esc should close")
	}
	if _, ok := findMsg[tea.QuitMsg](msgs); ok {
		t.Error("esc without QuitOnCommit must not quit")
	}
	if p.host.backVisible {
		t.Error("closing hides the back control")
	}
	if view := p.View(); !strings.Contains(view, "Apple / Fruit") {
		t.Errorf("closed label should show the breadcrumb:\n%s", view)
	}
}

func TestPickerInitialSelection(t *testing.T) {
	p := newTestPicker(t, Options{SelectedID: 4, StartOpen: true})

	if p.Title() != "Gala / Apple / Fruit" {
		t.Errorf("Title() = %q", p.Title())
	}
	if got := visibleIDs(p); !equalIDs(got, []int{4, 5}) {
		t.Errorf("visible rows = %v, want [4 5]", got)
	}
	if p.cursor != 1 {
		t.Errorf("cursor = %d, want the selected row", p.cursor)
	}
}

func TestNewPickerUnknownSelection(t *testing.T) {
	tr, err := tree.Build(catalogOptions())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewPicker(tr, Options{SelectedID: 99}); err == nil {
		t.Error("expected error for a selection missing from the tree")
	}
}

func TestPickerReload(t *testing.T) {
	p := newTestPicker(t, Options{})
	press(p, "enter", "enter") // selection Apple

	updated := append(catalogOptions(), model.NewOption(7, 1, "Plum"))
	_, cmd := p.Update(SourcesChangedMsg{Options: updated})
	settle(p, cmd)

	if p.Tree().Len() != 7 {
		t.Errorf("tree has %d nodes, want 7", p.Tree().Len())
	}
	if p.Title() != "Apple / Fruit" {
		t.Errorf("selection should survive reload, title %q", p.Title())
	}
	if got := visibleIDs(p); !equalIDs(got, []int{2, 3, 7}) {
		t.Errorf("visible rows = %v, want [2 3 7]", got)
	}
	if !strings.Contains(p.Status(), "reloaded 7 options") {
		t.Errorf("Status() = %q", p.Status())
	}
}

func TestPickerReloadDropsMissingSelection(t *testing.T) {
	p := newTestPicker(t, Options{SelectedID: 5})

	_, cmd := p.Update(SourcesChangedMsg{Options: []model.Option{model.NewOption(1, 0, "Fruit")}})
	msgs := settle(p, cmd)

	if p.Selected().ID() != model.RootID {
		t.Errorf("selection should reset to the root, got %d", p.Selected().ID())
	}
	changed, ok := findMsg[ValueChangedMsg](msgs)
	if !ok || changed.ID != model.RootID {
		t.Errorf("expected ValueChangedMsg for the reset, got %+v (ok=%v)", changed, ok)
	}
}

func TestPickerReloadFailureKeepsTree(t *testing.T) {
	p := newTestPicker(t, Options{})
	before := p.Tree()

	cyclic := []model.Option{
		model.NewOption(1, 2, "A"),
		model.NewOption(2, 1, "B"),
	}
	for _, msg := range []SourcesChangedMsg{
		{Err: errors.New("disk gone")},
		{Options: cyclic},
	} {
		_, cmd := p.Update(msg)
		settle(p, cmd)

		if p.Tree() != before {
			t.Error("a failed reload must keep the previous tree")
		}
		if !strings.HasPrefix(p.Status(), "reload failed") {
			t.Errorf("Status() = %q", p.Status())
		}
	}
}

func TestPickerHelpOverlay(t *testing.T) {
	p := newTestPicker(t, Options{})
	press(p, "f1")

	if view := p.View(); !strings.Contains(view, "Quick Reference") {
		t.Errorf("f1 should show help:\n%s", view)
	}

	press(p, "x")
	if view := p.View(); strings.Contains(view, "Quick Reference") {
		t.Error("any key should dismiss help")
	}
	if p.IsOpen() {
		t.Error("the dismissing key must not reach the picker")
	}
}

func TestPickerQuit(t *testing.T) {
	p := newTestPicker(t, Options{})
	press(p, "enter")

	msgs := press(p, "ctrl+c")
	if _, ok := findMsg[tea.QuitMsg](msgs); !ok {
		t.Error("ctrl+c should quit")
	}
	if _, ok := p.Result(); ok {
		t.Error("quitting must not produce a result")
	}
	if p.View() != "" {
		t.Error("view should be empty once quitting")
	}
}
