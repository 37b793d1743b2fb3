// Package ui is the terminal host for the drill-down picker: a bubbletea
// model that renders the navigation state and feeds key presses back to the
// nav controller.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"github.com/vanderheijden86/drill/pkg/model"
	"github.com/vanderheijden86/drill/pkg/nav"
	"github.com/vanderheijden86/drill/pkg/tree"
)

// ValueChangedMsg is emitted whenever the selection changes, including the
// moves the picker makes itself when drilling in or going back.
type ValueChangedMsg struct {
	ID         int
	Breadcrumb string
}

// CommittedMsg is emitted when the user picks a value.
type CommittedMsg struct {
	ID         int
	Breadcrumb string
}

// SourcesChangedMsg delivers reloaded options. The picker rebuilds its tree
// from them, or keeps the current one and reports Err (or the build error).
type SourcesChangedMsg struct {
	Options []model.Option
	Err     error
}

type clipboardMsg struct {
	err error
}

const (
	defaultPlaceholder = "Select…"
	defaultMaxRows     = 10
)

// Options configures a Picker.
type Options struct {
	// UseButtonLabel enables the inline button that commits a group itself.
	UseButtonLabel string
	// Placeholder is the label shown while nothing is selected.
	Placeholder string
	// SelectedID is the initial selection; 0 means none.
	SelectedID int
	// StartOpen opens the list immediately.
	StartOpen bool
	// QuitOnCommit ends the program once a value is committed.
	QuitOnCommit bool
	// MaxRows caps the number of rows drawn at once.
	MaxRows int

	Theme  Theme
	Logger *log.Logger
}

// Picker is a bubbletea model hosting a nav.Controller.
type Picker struct {
	tree   *tree.Tree
	ctrl   *nav.Controller
	host   *listHost
	queue  *deferQueue
	opts   Options
	theme  Theme
	keys   KeyMap
	logger *log.Logger

	input    textinput.Model
	open     bool
	cursor   int // index into items()
	offset   int // first item drawn
	showHelp bool

	status     string
	statusWarn bool

	result   *tree.Node
	quitting bool
	width    int
	height   int
}

// NewPicker builds a picker over t. It fails when opts.SelectedID is not in t.
func NewPicker(t *tree.Tree, opts Options) (*Picker, error) {
	if opts.SelectedID != model.RootID {
		if _, ok := t.Get(opts.SelectedID); !ok {
			return nil, fmt.Errorf("selected id %d is not in the tree", opts.SelectedID)
		}
	}
	if opts.Theme.Renderer == nil {
		opts.Theme = DefaultTheme(lipgloss.DefaultRenderer())
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Placeholder == "" {
		opts.Placeholder = defaultPlaceholder
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = defaultMaxRows
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "type to filter..."
	ti.CharLimit = 64
	ti.Width = 30
	ti.Cursor.SetMode(cursor.CursorStatic)

	p := &Picker{
		tree:   t,
		host:   newListHost(opts.SelectedID),
		queue:  &deferQueue{},
		opts:   opts,
		theme:  opts.Theme,
		keys:   DefaultKeyMap(),
		logger: opts.Logger,
		input:  ti,
		width:  80,
	}
	if opts.UseButtonLabel == "" {
		p.keys.Use.SetEnabled(false)
	}
	p.host.setRows(p.filterRows(""))
	p.ctrl = nav.New(t, p.host, p.queue, nav.Options{UseButtonLabel: opts.UseButtonLabel})

	if opts.StartOpen {
		p.openList()
	} else {
		p.ctrl.Close()
	}
	return p, nil
}

// Init delivers the initial visibility pass when the picker starts open.
func (p *Picker) Init() tea.Cmd {
	return p.queue.cmd()
}

// Update handles a message.
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.input.Width = max(10, msg.Width-8)

	case visibilityMsg:
		if p.queue.run(msg.seq) {
			p.syncCursor()
		}

	case SourcesChangedMsg:
		p.reload(msg)

	case clipboardMsg:
		if msg.err != nil {
			p.warn("copy failed", msg.err)
		} else {
			p.setStatus("copied breadcrumb")
		}

	case tea.KeyMsg:
		cmds = append(cmds, p.handleKey(msg))
	}

	cmds = append(cmds, p.changeCmds()...)
	cmds = append(cmds, p.queue.cmd())
	return p, tea.Batch(cmds...)
}

func (p *Picker) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, p.keys.Quit) {
		p.quitting = true
		return tea.Quit
	}
	if p.showHelp {
		p.showHelp = false
		return nil
	}

	switch {
	case key.Matches(msg, p.keys.Help):
		p.showHelp = true
		return nil
	case key.Matches(msg, p.keys.Copy):
		return p.copyBreadcrumb()
	}

	if !p.open {
		switch {
		case key.Matches(msg, p.keys.Open):
			p.openList()
		case key.Matches(msg, p.keys.Close) && p.opts.QuitOnCommit:
			p.quitting = true
			return tea.Quit
		}
		return nil
	}

	switch {
	case key.Matches(msg, p.keys.Close):
		p.closeList()
	case key.Matches(msg, p.keys.Up):
		p.moveCursor(-1)
	case key.Matches(msg, p.keys.Down):
		p.moveCursor(1)
	case key.Matches(msg, p.keys.Select):
		return p.activate(nav.TargetRow)
	case key.Matches(msg, p.keys.Use):
		return p.activate(nav.TargetUseButton)
	case key.Matches(msg, p.keys.Drill) && p.cursorOnBranch():
		return p.activate(nav.TargetRow)
	case key.Matches(msg, p.keys.Back) && p.input.Value() == "":
		p.back()
	default:
		return p.updateQuery(msg)
	}
	return nil
}

// rowItem is one drawable line of the open list.
type rowItem struct {
	back bool
	id   int
}

func (p *Picker) items() []rowItem {
	var items []rowItem
	if p.host.backVisible {
		items = append(items, rowItem{back: true})
	}
	for _, id := range p.host.visibleRows() {
		items = append(items, rowItem{id: id})
	}
	return items
}

func (p *Picker) current() (rowItem, bool) {
	items := p.items()
	if p.cursor < 0 || p.cursor >= len(items) {
		return rowItem{}, false
	}
	return items[p.cursor], true
}

func (p *Picker) cursorOnBranch() bool {
	it, ok := p.current()
	return ok && !it.back && p.host.branch[it.id]
}

func (p *Picker) activate(target nav.Target) tea.Cmd {
	it, ok := p.current()
	if !ok {
		return nil
	}
	if it.back {
		p.back()
		return nil
	}

	if p.ctrl.Selecting(it.id, target) == nav.Descend {
		p.logger.Debug("descend", "id", it.id, "selected", p.host.selectedID)
		p.resetQuery()
		return nil
	}
	return p.commit(it.id)
}

func (p *Picker) commit(id int) tea.Cmd {
	n := p.tree.MustGet(id)
	p.host.SetSelectedID(id)
	p.host.NotifyChange()
	p.result = n
	p.closeList()

	crumb := nav.Breadcrumb(p.tree, n)
	p.logger.Info("committed", "id", id, "breadcrumb", crumb)

	cmds := []tea.Cmd{func() tea.Msg {
		return CommittedMsg{ID: id, Breadcrumb: crumb}
	}}
	if p.opts.QuitOnCommit {
		p.quitting = true
		cmds = append(cmds, tea.Quit)
	}
	return tea.Batch(cmds...)
}

func (p *Picker) back() {
	if !p.ctrl.Back() {
		return
	}
	p.logger.Debug("back", "selected", p.host.selectedID)
	p.resetQuery()
}

func (p *Picker) openList() {
	p.open = true
	p.input.Focus()
	p.input.SetValue("")
	p.host.setRows(p.filterRows(""))
	p.cursor, p.offset = 0, 0
	p.ctrl.Open()
}

func (p *Picker) closeList() {
	p.open = false
	p.input.Blur()
	p.ctrl.Close()
}

func (p *Picker) resetQuery() {
	if p.input.Value() == "" {
		return
	}
	p.input.SetValue("")
	p.host.setRows(p.filterRows(""))
	p.ctrl.Refresh()
}

func (p *Picker) updateQuery(msg tea.KeyMsg) tea.Cmd {
	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.host.setRows(p.filterRows(p.input.Value()))
		p.cursor, p.offset = 0, 0
		p.ctrl.Refresh()
	}
	return cmd
}

// titleSource adapts tree titles to fuzzy.Source.
type titleSource struct {
	tree *tree.Tree
	ids  []int
}

func (s titleSource) String(i int) string {
	return s.tree.MustGet(s.ids[i]).Title()
}

func (s titleSource) Len() int {
	return len(s.ids)
}

// filterRows returns the ids whose titles match query, best match first.
// An empty query returns every option in tree order.
func (p *Picker) filterRows(query string) []int {
	all := nav.AllIDs(p.tree)
	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}
	matches := fuzzy.FindFrom(query, titleSource{tree: p.tree, ids: all})
	ids := make([]int, len(matches))
	for i, m := range matches {
		ids[i] = all[m.Index]
	}
	return ids
}

// syncCursor puts the cursor on the selected row after a visibility pass,
// or on the first option row when the selection is not listed.
func (p *Picker) syncCursor() {
	items := p.items()
	p.cursor = 0
	if len(items) > 1 && items[0].back {
		p.cursor = 1
	}
	if p.input.Value() == "" {
		for i, it := range items {
			if !it.back && it.id == p.host.selectedID {
				p.cursor = i
				break
			}
		}
	}
	p.offset = 0
	p.scrollToCursor()
}

func (p *Picker) moveCursor(delta int) {
	n := len(p.items())
	if n == 0 {
		return
	}
	p.cursor = max(0, min(n-1, p.cursor+delta))
	p.scrollToCursor()
}

func (p *Picker) scrollToCursor() {
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if rows := p.maxRows(); p.cursor >= p.offset+rows {
		p.offset = p.cursor - rows + 1
	}
}

// maxRows is the configured row cap, reduced to fit the terminal height
// next to the label, query, footer and status lines.
func (p *Picker) maxRows() int {
	if p.height > 6 {
		return min(p.opts.MaxRows, p.height-6)
	}
	return p.opts.MaxRows
}

func (p *Picker) reload(msg SourcesChangedMsg) {
	if msg.Err != nil {
		p.warn("reload failed", msg.Err)
		return
	}
	t, err := tree.Build(msg.Options)
	if err != nil {
		p.warn("reload failed", err)
		return
	}

	if id := p.host.selectedID; id != model.RootID {
		if _, ok := t.Get(id); !ok {
			p.host.SetSelectedID(model.RootID)
			p.host.NotifyChange()
		}
	}

	p.tree = t
	p.host.setRows(p.filterRows(p.input.Value()))
	p.ctrl = nav.New(t, p.host, p.queue, p.ctrl.Options())
	if !p.open {
		p.ctrl.Close()
	}

	p.logger.Info("reloaded options", "count", t.Len())
	p.setStatus(fmt.Sprintf("reloaded %d options", t.Len()))
}

// changeCmds turns queued selection changes into ValueChangedMsg commands.
func (p *Picker) changeCmds() []tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range p.host.takeChanges() {
		msg := ValueChangedMsg{ID: id, Breadcrumb: nav.Breadcrumb(p.tree, nav.Resolve(p.tree, id))}
		p.logger.Debug("value changed", "id", msg.ID, "breadcrumb", msg.Breadcrumb)
		cmds = append(cmds, func() tea.Msg { return msg })
	}
	return cmds
}

func (p *Picker) copyBreadcrumb() tea.Cmd {
	crumb := p.host.title
	return func() tea.Msg {
		return clipboardMsg{err: clipboard.WriteAll(crumb)}
	}
}

func (p *Picker) setStatus(s string) {
	p.status = s
	p.statusWarn = false
}

func (p *Picker) warn(what string, err error) {
	p.status = what + ": " + err.Error()
	p.statusWarn = true
	p.logger.Warn(what, "err", err)
}

// View renders the picker.
func (p *Picker) View() string {
	if p.quitting {
		return ""
	}
	if p.showHelp {
		return RenderHelp(p.theme, p.width, p.keys.Use.Enabled())
	}

	var lines []string
	lines = append(lines, p.renderLabel())
	if p.open {
		lines = append(lines, "  "+p.input.View())
		lines = append(lines, p.renderRows()...)
		lines = append(lines, p.renderFooter())
	}
	if p.status != "" {
		lines = append(lines, p.renderStatus())
	}
	return strings.Join(lines, "\n")
}

func (p *Picker) renderLabel() string {
	r := p.theme.Renderer

	arrow := "▸"
	if p.open {
		arrow = "▾"
	}
	arrowStyle := r.NewStyle().Foreground(p.theme.Secondary)

	if p.host.title == "" {
		placeholder := r.NewStyle().Foreground(p.theme.Muted).Italic(true)
		return arrowStyle.Render(arrow) + " " + placeholder.Render(p.opts.Placeholder)
	}
	label := r.NewStyle().Foreground(p.theme.Primary).Bold(true)
	return arrowStyle.Render(arrow) + " " + label.Render(p.host.title)
}

func (p *Picker) renderRows() []string {
	r := p.theme.Renderer
	dim := r.NewStyle().Foreground(p.theme.Muted).Italic(true)

	if !p.host.resultsVisible {
		return []string{"  " + dim.Render("…")}
	}
	items := p.items()
	if len(items) == 0 || (len(items) == 1 && items[0].back) {
		lines := []string{}
		if len(items) == 1 {
			lines = append(lines, p.renderRow(items[0], p.cursor == 0))
		}
		return append(lines, "  "+dim.Render("no matches"))
	}

	end := min(len(items), p.offset+p.maxRows())
	lines := make([]string, 0, end-p.offset)
	for i := p.offset; i < end; i++ {
		lines = append(lines, p.renderRow(items[i], i == p.cursor))
	}
	return lines
}

func (p *Picker) renderRow(it rowItem, isCursor bool) string {
	r := p.theme.Renderer

	pointer := "  "
	if isCursor {
		pointer = r.NewStyle().Foreground(p.theme.Primary).Render("▸ ")
	}

	if it.back {
		return pointer + r.NewStyle().Foreground(p.theme.Secondary).Render("‹ Back")
	}

	n := p.tree.MustGet(it.id)
	suffix := ""
	if p.host.branch[it.id] {
		suffix = " ›"
		if p.host.useLabel != "" {
			suffix += " [" + p.host.useLabel + "]"
		}
	}

	avail := max(1, p.width-2-runewidth.StringWidth(suffix))
	title := runewidth.Truncate(n.Title(), avail, "…")

	style := p.theme.Base
	if it.id == p.host.selectedID {
		style = r.NewStyle().Foreground(p.theme.Primary).Bold(true)
	}
	if isCursor {
		style = style.Background(p.theme.Highlight)
	}

	line := pointer + style.Render(title)
	if suffix != "" {
		line += r.NewStyle().Foreground(p.theme.Muted).Render(suffix)
	}
	return line
}

func (p *Picker) renderFooter() string {
	r := p.theme.Renderer
	keyStyle := r.NewStyle().Foreground(p.theme.Secondary).Bold(true)
	descStyle := r.NewStyle().Foreground(p.theme.Subtext)

	var parts []string
	for _, b := range p.keys.ShortHelp() {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, keyStyle.Render(h.Key)+" "+descStyle.Render(h.Desc))
	}
	return " " + strings.Join(parts, "  ")
}

func (p *Picker) renderStatus() string {
	r := p.theme.Renderer
	color := p.theme.Muted
	if p.statusWarn {
		color = p.theme.Warning
	}
	return r.NewStyle().Foreground(color).Render(p.status)
}

// IsOpen reports whether the list is shown.
func (p *Picker) IsOpen() bool {
	return p.open
}

// Title returns the current label: the selection's breadcrumb.
func (p *Picker) Title() string {
	return p.host.title
}

// Selected returns the currently selected node (the root when none).
func (p *Picker) Selected() *tree.Node {
	return p.ctrl.Selected()
}

// State returns the navigation state for the current selection and rows.
func (p *Picker) State() nav.State {
	return p.ctrl.State()
}

// Tree returns the tree currently shown.
func (p *Picker) Tree() *tree.Tree {
	return p.tree
}

// Status returns the status line text.
func (p *Picker) Status() string {
	return p.status
}

// Result returns the committed node, if the user committed one.
func (p *Picker) Result() (*tree.Node, bool) {
	return p.result, p.result != nil
}
