package region

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ClassTable_BoundariesMonotonic(t *testing.T) {
	for _, cfg := range []ClassConfig{ClassesFineGrained, ClassesBalanced, ClassesCoarse} {
		table := newClassTable(cfg)
		require.NotEmpty(t, table.boundaries, cfg.Name)
		for i := 1; i < len(table.boundaries); i++ {
			require.Greater(t, table.boundaries[i], table.boundaries[i-1],
				"%s: boundary %d", cfg.Name, i)
		}
	}
}

func Test_ClassFor_AssignsCorrectBucket(t *testing.T) {
	table := newClassTable(DefaultClasses)

	for size := DefaultClasses.SmallMin; size < DefaultClasses.LargeMin; size += 13 {
		class := table.classFor(size)
		require.Less(t, class, table.numClasses(), "size %d", size)
		require.LessOrEqual(t, size, table.boundaries[class], "size %d", size)
		if class > 0 {
			require.Greater(t, size, table.boundaries[class-1], "size %d", size)
		}
	}
}

func Test_ClassFor_LargeSizesGoToLargeList(t *testing.T) {
	table := newClassTable(DefaultClasses)
	require.Equal(t, table.numClasses(), table.classFor(DefaultClasses.LargeMin))
	require.Equal(t, table.numClasses(), table.classFor(1<<20))
}
