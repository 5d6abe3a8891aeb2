package interval

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCenteredTree_MatchesEngineOnPointQueries(t *testing.T) {
	rng := rand.New(rand.NewSource(123))
	pairs := randomPairs(rng, 300, 4000)

	starts := make([]int, len(pairs))
	ends := make([]int, len(pairs))
	data := make([]int, len(pairs))
	for i, p := range pairs {
		starts[i], ends[i], data[i] = p.start, p.end, i
	}

	engine := New[int, int]()
	for i, p := range pairs {
		_ = engine.Add(p.start, p.end, i)
	}
	engine.Index()

	tree := BuildCenteredTree(starts, ends, data)

	for q := 0; q < 4100; q += 13 {
		engineSet := toSet(engine.SearchOverlap(q, q))
		treeResult := tree.FindOverlaps(q)
		treeSet := map[int]bool{}
		for _, idx := range treeResult {
			treeSet[idx] = true
		}
		assert.Equal(t, engineSet, treeSet, "pos=%d", q)
	}
}

func TestCenteredTree_Empty(t *testing.T) {
	tree := BuildCenteredTree[int, int](nil, nil, nil)
	assert.Empty(t, tree.FindOverlaps(0))
}

func TestCenteredTree_UnsortedInputIsSortedInternally(t *testing.T) {
	starts := []int{30, 10, 20}
	ends := []int{40, 20, 25}
	data := []string{"c", "a", "b"}

	tree := BuildCenteredTree(starts, ends, data)
	assert.ElementsMatch(t, []string{"a"}, tree.FindOverlaps(15))
	assert.ElementsMatch(t, []string{"a", "b"}, tree.FindOverlaps(20))
}
