package tree

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// MalformedInputError lists the options that never found a parent.
type MalformedInputError struct {
	Unresolved []int   // every option left out, sorted
	Dangling   []int   // options whose parent id appears nowhere in the input
	Cycles     [][]int // parent cycles among unresolved options, each sorted
}

func (e *MalformedInputError) Error() string {
	var parts []string
	if len(e.Dangling) > 0 {
		parts = append(parts, fmt.Sprintf("unknown parent for %s", joinIDs(e.Dangling)))
	}
	for _, cycle := range e.Cycles {
		parts = append(parts, fmt.Sprintf("parent cycle %s", joinIDs(cycle)))
	}
	if len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("unresolved %s", joinIDs(e.Unresolved)))
	}
	return fmt.Sprintf("%s: %s", ErrMalformedInput, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrMalformedInput.
func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}

// diagnose classifies the triples a pass could not attach. Parent edges among
// them form a graph; strongly connected components with more than one member
// (or a self edge) are cycles. Everything else hangs below a dangling parent or
// a cycle.
func diagnose(t *Tree, unresolved []pending) *MalformedInputError {
	e := &MalformedInputError{}

	byID := make(map[int]pending, len(unresolved))
	for _, raw := range unresolved {
		byID[raw.id] = raw
		e.Unresolved = append(e.Unresolved, raw.id)
	}
	sort.Ints(e.Unresolved)

	g := simple.NewDirectedGraph()
	for _, raw := range unresolved {
		if g.Node(int64(raw.id)) == nil {
			g.AddNode(simple.Node(raw.id))
		}
	}
	for _, raw := range unresolved {
		switch {
		case raw.parentID == raw.id:
			e.Cycles = append(e.Cycles, []int{raw.id})
		case hasID(byID, raw.parentID):
			g.SetEdge(simple.Edge{F: simple.Node(raw.id), T: simple.Node(raw.parentID)})
		default:
			if _, attached := t.slotOf(raw.parentID); !attached {
				e.Dangling = append(e.Dangling, raw.id)
			}
		}
	}
	sort.Ints(e.Dangling)

	for _, component := range topo.TarjanSCC(g) {
		if len(component) < 2 {
			continue
		}
		cycle := make([]int, len(component))
		for i, n := range component {
			cycle[i] = int(n.ID())
		}
		sort.Ints(cycle)
		e.Cycles = append(e.Cycles, cycle)
	}
	sort.Slice(e.Cycles, func(i, j int) bool {
		return e.Cycles[i][0] < e.Cycles[j][0]
	})

	return e
}

func hasID(byID map[int]pending, id int) bool {
	_, ok := byID[id]
	return ok
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
