package thread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrovine/horizon/internal/api"
)

func c(id, parentID int) api.Comment {
	return api.Comment{ID: id, ParentID: parentID}
}

func ids(forest []*Node) []int {
	out := make([]int, 0, len(forest))
	for _, n := range forest {
		out = append(out, n.Comment.ID)
	}
	return out
}

func TestBuildForest(t *testing.T) {
	forest := Build([]api.Comment{
		c(1, 0),
		c(2, 1),
		c(3, 1),
		c(4, 2),
		c(5, 0),
	})

	require.Len(t, forest, 2)
	assert.Equal(t, []int{1, 5}, ids(forest))
	require.Equal(t, []int{2, 3}, ids(forest[0].Children))
	require.Equal(t, []int{4}, ids(forest[0].Children[0].Children))
	assert.Empty(t, forest[1].Children)
	assert.Equal(t, 5, Count(forest))
}

func TestBuildKeepsEveryComment(t *testing.T) {
	comments := []api.Comment{
		c(1, 0), c(2, 1), c(3, 7), c(4, 4), c(5, 2), c(6, 99),
	}
	forest := Build(comments)
	assert.Equal(t, len(comments), Count(forest))
}

func TestBuildOrphanBecomesRoot(t *testing.T) {
	forest := Build([]api.Comment{c(1, 99)})
	require.Len(t, forest, 1)
	assert.Equal(t, 1, forest[0].Comment.ID)
	assert.Empty(t, forest[0].Children)
}

func TestBuildSelfParentBecomesRoot(t *testing.T) {
	forest := Build([]api.Comment{c(1, 1), c(2, 1)})
	require.Len(t, forest, 1)
	assert.Equal(t, 1, forest[0].Comment.ID)
	require.Equal(t, []int{2}, ids(forest[0].Children))
}

func TestBuildChildBeforeParent(t *testing.T) {
	// The backend returns comments in creation order, but nothing
	// guarantees parents precede children after edits and deletes.
	forest := Build([]api.Comment{
		c(4, 2),
		c(2, 1),
		c(1, 0),
	})
	require.Len(t, forest, 1)
	require.Equal(t, []int{2}, ids(forest[0].Children))
	require.Equal(t, []int{4}, ids(forest[0].Children[0].Children))
}

func TestBuildIsDeterministic(t *testing.T) {
	comments := []api.Comment{
		c(1, 0), c(2, 1), c(3, 1), c(4, 3), c(5, 0), c(6, 5),
	}
	first := Flatten(Build(comments), nil)
	for i := 0; i < 10; i++ {
		again := Flatten(Build(comments), nil)
		require.Equal(t, first, again)
	}
}

func TestFlattenDepths(t *testing.T) {
	rows := Flatten(Build([]api.Comment{
		c(1, 0), c(2, 1), c(3, 2), c(4, 0),
	}), nil)

	require.Len(t, rows, 4)
	assert.Equal(t, 0, rows[0].Depth)
	assert.Equal(t, 1, rows[1].Depth)
	assert.Equal(t, 2, rows[2].Depth)
	assert.Equal(t, 0, rows[3].Depth)
}

func TestFlattenCollapsedSubtree(t *testing.T) {
	forest := Build([]api.Comment{
		c(1, 0), c(2, 1), c(3, 2), c(4, 1), c(5, 0),
	})

	rows := Flatten(forest, CollapseState{1: true})
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Comment.ID)
	assert.True(t, rows[0].IsCollapsed)
	assert.Equal(t, 3, rows[0].ChildCount)
	assert.Equal(t, 5, rows[1].Comment.ID)
}

func TestFlattenNestedCollapse(t *testing.T) {
	forest := Build([]api.Comment{
		c(1, 0), c(2, 1), c(3, 2), c(4, 3),
	})

	rows := Flatten(forest, CollapseState{2: true})
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[1].Comment.ID)
	assert.Equal(t, 2, rows[1].ChildCount)
	// The root's descendant count includes the hidden nodes.
	assert.Equal(t, 3, rows[0].ChildCount)
}

func TestFindParentIndex(t *testing.T) {
	rows := Flatten(Build([]api.Comment{
		c(1, 0), c(2, 1), c(3, 2), c(4, 1),
	}), nil)

	assert.Equal(t, -1, FindParentIndex(rows, 0))
	assert.Equal(t, 0, FindParentIndex(rows, 1))
	assert.Equal(t, 1, FindParentIndex(rows, 2))
	assert.Equal(t, 0, FindParentIndex(rows, 3))
	assert.Equal(t, -1, FindParentIndex(rows, 99))
}

func TestFindNextSiblingIndex(t *testing.T) {
	rows := Flatten(Build([]api.Comment{
		c(1, 0), c(2, 1), c(3, 1), c(4, 0),
	}), nil)

	assert.Equal(t, 3, FindNextSiblingIndex(rows, 0))
	assert.Equal(t, 2, FindNextSiblingIndex(rows, 1))
	// The walk leaves comment 3's subtree before finding a sibling.
	assert.Equal(t, -1, FindNextSiblingIndex(rows, 2))
	assert.Equal(t, -1, FindNextSiblingIndex(rows, 3))
}
