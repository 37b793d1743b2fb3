package ui

// listHost is the picker's side of nav.Host: plain state the controller
// writes and View reads.
type listHost struct {
	rows    []int
	visible map[int]bool
	branch  map[int]bool

	useLabel       string
	resultsVisible bool
	selectedID     int
	title          string
	backVisible    bool

	// changes queues selection ids reported through NotifyChange until the
	// picker turns them into ValueChangedMsg.
	changes []int
}

func newListHost(selectedID int) *listHost {
	return &listHost{
		visible:    make(map[int]bool),
		branch:     make(map[int]bool),
		selectedID: selectedID,
	}
}

func (h *listHost) ResultRows() []int {
	return h.rows
}

func (h *listHost) SetRowVisible(id int, visible bool) {
	h.visible[id] = visible
}

func (h *listHost) MarkRowAsBranch(id int, useButtonLabel string) {
	h.branch[id] = true
	h.useLabel = useButtonLabel
}

func (h *listHost) SetResultsVisible(visible bool) {
	h.resultsVisible = visible
}

func (h *listHost) SelectedID() int {
	return h.selectedID
}

func (h *listHost) SetSelectedID(id int) {
	h.selectedID = id
}

func (h *listHost) NotifyChange() {
	h.changes = append(h.changes, h.selectedID)
}

func (h *listHost) SetTitle(title string) {
	h.title = title
}

func (h *listHost) SetBackVisible(visible bool) {
	h.backVisible = visible
}

// setRows repopulates the result rows. Per-row flags belong to the previous
// population and are dropped.
func (h *listHost) setRows(ids []int) {
	h.rows = ids
	clear(h.visible)
	clear(h.branch)
}

// visibleRows returns the rows a visibility pass left shown, in row order.
// Nothing is shown while a pass is pending.
func (h *listHost) visibleRows() []int {
	if !h.resultsVisible {
		return nil
	}
	out := make([]int, 0, len(h.rows))
	for _, id := range h.rows {
		if h.visible[id] {
			out = append(out, id)
		}
	}
	return out
}

func (h *listHost) takeChanges() []int {
	changes := h.changes
	h.changes = nil
	return changes
}
