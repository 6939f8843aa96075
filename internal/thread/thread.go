// Package thread rebuilds reply trees from the flat comment lists the
// backend returns.
package thread

import "github.com/astrovine/horizon/internal/api"

// Node is one comment plus its replies, in display order.
type Node struct {
	Comment  api.Comment
	Children []*Node
}

// Build converts a flat, arbitrarily ordered comment list into an
// ordered forest. Every input comment appears exactly once. A comment
// whose parent is absent from the input is promoted to a root rather
// than dropped, and a comment naming itself as parent is promoted too
// instead of becoming its own child. Sibling order follows input
// order; the function is pure and safe to re-run on every fetch.
func Build(comments []api.Comment) []*Node {
	byID := make(map[int]*Node, len(comments))
	for _, c := range comments {
		byID[c.ID] = &Node{Comment: c}
	}

	var roots []*Node
	for _, c := range comments {
		node := byID[c.ID]
		if c.ParentID == 0 || c.ParentID == c.ID {
			roots = append(roots, node)
			continue
		}
		parent, ok := byID[c.ParentID]
		if !ok {
			// Orphan safeguard: dangling parent reference.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}

// Count returns the total number of nodes in the forest.
func Count(forest []*Node) int {
	total := 0
	for _, node := range forest {
		total += 1 + Count(node.Children)
	}
	return total
}

// Row is a node flattened for display.
type Row struct {
	Comment     api.Comment
	Depth       int
	IsCollapsed bool
	ChildCount  int
}

// CollapseState tracks collapsed comment ids across rebuilds.
type CollapseState map[int]bool

// Flatten walks the forest depth-first into display rows, skipping the
// subtrees of collapsed nodes. ChildCount on a collapsed row is the
// size of its hidden subtree, for the [+N] badge.
func Flatten(forest []*Node, cs CollapseState) []Row {
	var rows []Row

	var walk func(node *Node, depth int) int
	walk = func(node *Node, depth int) int {
		idx := len(rows)
		rows = append(rows, Row{
			Comment:     node.Comment,
			Depth:       depth,
			IsCollapsed: cs[node.Comment.ID],
		})

		descendants := 0
		if !cs[node.Comment.ID] {
			for _, child := range node.Children {
				descendants += 1 + walk(child, depth+1)
			}
		} else {
			descendants = Count(node.Children)
		}
		rows[idx].ChildCount = descendants
		return descendants
	}

	for _, node := range forest {
		walk(node, 0)
	}
	return rows
}

// FindParentIndex returns the index of the parent row of rows[i], or
// -1 when the row is a root (or an orphan whose parent is absent).
func FindParentIndex(rows []Row, i int) int {
	if i < 0 || i >= len(rows) {
		return -1
	}
	parentID := rows[i].Comment.ParentID
	for j := i - 1; j >= 0; j-- {
		if rows[j].Comment.ID == parentID {
			return j
		}
	}
	return -1
}

// FindNextSiblingIndex returns the index of the next row at the same
// depth, or -1 when the walk leaves the subtree first.
func FindNextSiblingIndex(rows []Row, i int) int {
	if i < 0 || i >= len(rows) {
		return -1
	}
	depth := rows[i].Depth
	for j := i + 1; j < len(rows); j++ {
		if rows[j].Depth < depth {
			return -1
		}
		if rows[j].Depth == depth {
			return j
		}
	}
	return -1
}
