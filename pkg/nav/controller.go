package nav

import (
	"github.com/vanderheijden86/drill/pkg/tree"
)

// Host is the dropdown widget the controller drives. Row ids are option ids.
type Host interface {
	// ResultRows returns the ids of the rows currently populated for the query.
	ResultRows() []int
	SetRowVisible(id int, visible bool)
	// MarkRowAsBranch flags a visible row as drillable. useButtonLabel is
	// non-empty when the row should also offer a "use this value" button.
	MarkRowAsBranch(id int, useButtonLabel string)
	// SetResultsVisible hides the result list while a visibility pass is pending.
	SetResultsVisible(visible bool)

	SelectedID() int
	SetSelectedID(id int)
	// NotifyChange tells the host its value changed programmatically.
	NotifyChange()

	// SetTitle sets the control label (and tooltip) to the breadcrumb.
	SetTitle(title string)
	SetBackVisible(visible bool)
}

// Scheduler defers a task until the host has populated its result rows.
// Scheduling again before the task runs supersedes it; cancel drops it.
type Scheduler interface {
	Schedule(task func()) (cancel func())
}

// Options configures a Controller.
type Options struct {
	// UseButtonLabel, when set, adds a button to branch rows that commits the
	// branch itself instead of drilling into it.
	UseButtonLabel string
}

// Target is what the user activated on a row.
type Target int

const (
	TargetRow       Target = iota // the row itself
	TargetUseButton               // the row's "use this value" button
)

// Outcome tells the host how to finish a selection.
type Outcome int

const (
	// Commit lets the host's own selection commit proceed.
	Commit Outcome = iota
	// Descend means the controller moved the selection into a branch; the host
	// must not commit and should stay open.
	Descend
)

func (o Outcome) String() string {
	switch o {
	case Commit:
		return "commit"
	case Descend:
		return "descend"
	default:
		return "unknown"
	}
}

// Controller binds a tree to a host widget and reacts to its lifecycle events.
type Controller struct {
	tree   *tree.Tree
	host   Host
	sched  Scheduler
	opts   Options
	cancel func() // cancels the pending visibility pass
}

// New creates a controller and applies the initial state to the host.
func New(t *tree.Tree, host Host, sched Scheduler, opts Options) *Controller {
	c := &Controller{
		tree:  t,
		host:  host,
		sched: sched,
		opts:  opts,
	}
	c.UpdateState()
	return c
}

// Tree returns the tree the controller navigates.
func (c *Controller) Tree() *tree.Tree {
	return c.tree
}

// Options returns the controller configuration.
func (c *Controller) Options() Options {
	return c.opts
}

// Selected returns the node for the host's selected id; 0 is the root.
func (c *Controller) Selected() *tree.Node {
	return Resolve(c.tree, c.host.SelectedID())
}

// UpdateState pushes the breadcrumb and back control to the host and
// schedules a visibility pass over the result rows.
func (c *Controller) UpdateState() {
	selected := c.Selected()

	title := Breadcrumb(c.tree, selected)
	c.host.SetTitle(title)
	c.host.SetBackVisible(HasBack(c.tree, selected))

	c.host.SetResultsVisible(false)
	c.scheduleVisibility()
}

// Refresh re-runs the visibility pass after the host repopulated its rows,
// for instance when the search query changed.
func (c *Controller) Refresh() {
	c.host.SetResultsVisible(false)
	c.scheduleVisibility()
}

func (c *Controller) scheduleVisibility() {
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = c.sched.Schedule(c.applyVisibility)
}

// applyVisibility shows exactly the rows in the selection's sibling group and
// marks the visible branches.
func (c *Controller) applyVisibility() {
	c.cancel = nil
	selected := c.Selected()

	for _, id := range c.host.ResultRows() {
		n := c.tree.MustGet(id)
		if !InGroup(c.tree, selected, n) {
			c.host.SetRowVisible(id, false)
			continue
		}
		if n.HasChildren() {
			c.host.MarkRowAsBranch(id, c.opts.UseButtonLabel)
		}
		c.host.SetRowVisible(id, true)
	}

	c.host.SetResultsVisible(true)
}

// Open handles the dropdown opening.
func (c *Controller) Open() {
	c.UpdateState()
}

// Selecting handles a row activation before the host commits it. Leaves
// commit. Branches drill in by selecting their first child, unless the use
// button was the target and is enabled.
func (c *Controller) Selecting(id int, target Target) Outcome {
	n := c.tree.MustGet(id)
	if !n.HasChildren() {
		return Commit
	}
	if target == TargetUseButton && c.opts.UseButtonLabel != "" {
		return Commit
	}

	first, _ := c.tree.FirstChild(n)
	c.setSelected(first.ID())
	c.UpdateState()
	return Descend
}

// Close handles the dropdown closing: the back control goes away and the label
// shows the committed selection.
func (c *Controller) Close() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.host.SetBackVisible(false)
	c.host.SetTitle(Breadcrumb(c.tree, c.Selected()))
}

// Back ascends one level, selecting the parent of the current selection. It
// reports false, changing nothing, at the top level.
func (c *Controller) Back() bool {
	selected := c.Selected()
	if !HasBack(c.tree, selected) {
		return false
	}
	parent, _ := c.tree.Parent(selected)
	c.setSelected(parent.ID())
	c.UpdateState()
	return true
}

// State evaluates the current navigation state without touching the host.
func (c *Controller) State() State {
	return Compute(c.tree, c.host.SelectedID(), c.host.ResultRows())
}

func (c *Controller) setSelected(id int) {
	c.host.SetSelectedID(id)
	c.host.NotifyChange()
}
