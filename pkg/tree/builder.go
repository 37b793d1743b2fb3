package tree

import (
	"errors"
	"fmt"

	"github.com/vanderheijden86/drill/pkg/model"
)

var (
	// ErrMalformedInput means some options could not be attached to the tree:
	// a parent id that never appears, or a parent cycle.
	ErrMalformedInput = errors.New("malformed tree input")

	// ErrDuplicateID means two options share an id.
	ErrDuplicateID = errors.New("duplicate option id")

	// ErrReservedID means an option uses the root's id.
	ErrReservedID = errors.New("option id reserved for root")
)

// pending is a raw option waiting for its parent to be resolved.
type pending struct {
	id       int
	parentID int
	title    string
}

// Builder collects raw (id, parent, title) triples and turns them into a Tree.
// Triples may arrive in any order, children before parents included.
type Builder struct {
	raw []pending
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Push queues one triple.
func (b *Builder) Push(id, parentID int, title string) {
	b.raw = append(b.raw, pending{id: id, parentID: parentID, title: title})
}

// PushOption queues a decoded option.
func (b *Builder) PushOption(o model.Option) {
	b.Push(o.ID.Int(), o.ParentID.Int(), o.Title)
}

// Build is shorthand for pushing every option and building.
func Build(options []model.Option) (*Tree, error) {
	b := NewBuilder()
	for _, o := range options {
		b.PushOption(o)
	}
	return b.Build()
}

// Build resolves the queued triples breadth-first: each pass attaches every
// triple whose parent is already in the tree, in input order. A node attached
// earlier in a pass can parent later triples of the same pass, so a child's
// position among its siblings is its resolution order, which differs from
// input order only when it was listed before its parent.
//
// Passes stop when nothing is left or a pass attaches nothing. The latter is
// reported as *MalformedInputError; no partial tree is returned.
func (b *Builder) Build() (*Tree, error) {
	if err := b.checkIDs(); err != nil {
		return nil, err
	}

	t := &Tree{
		nodes: make([]Node, 1, len(b.raw)+1),
		index: make(map[int]int, len(b.raw)),
	}
	t.nodes[rootSlot] = newRoot()

	untreated := b.raw
	for len(untreated) > 0 {
		var ignored []pending
		for _, raw := range untreated {
			parentSlot, ok := t.slotOf(raw.parentID)
			if !ok {
				ignored = append(ignored, raw)
				continue
			}
			t.attach(raw, parentSlot)
		}

		if len(ignored) == len(untreated) {
			return nil, diagnose(t, ignored)
		}
		untreated = ignored
	}

	return t, nil
}

func (b *Builder) checkIDs() error {
	seen := make(map[int]struct{}, len(b.raw))
	for _, raw := range b.raw {
		if raw.id == model.RootID {
			return fmt.Errorf("%w: %q uses id %d", ErrReservedID, raw.title, model.RootID)
		}
		if _, dup := seen[raw.id]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateID, raw.id)
		}
		seen[raw.id] = struct{}{}
	}
	return nil
}

// slotOf resolves a parent id to its arena slot; id 0 is the root.
func (t *Tree) slotOf(id int) (int, bool) {
	if id == model.RootID {
		return rootSlot, true
	}
	slot, ok := t.index[id]
	return slot, ok
}

func (t *Tree) attach(raw pending, parentSlot int) {
	slot := len(t.nodes)
	t.nodes = append(t.nodes, Node{
		id:     raw.id,
		title:  raw.title,
		parent: parentSlot,
		depth:  t.nodes[parentSlot].depth + 1,
	})
	t.nodes[parentSlot].children = append(t.nodes[parentSlot].children, slot)
	t.index[raw.id] = slot
}
