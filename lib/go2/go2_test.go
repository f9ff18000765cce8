package go2_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/d2flow/lib/go2"
)

func TestSortedKeys(t *testing.T) {
	t.Parallel()

	m := map[string]int{"c": 1, "a": 2, "b": 3}
	assert.Equal(t, []string{"a", "b", "c"}, go2.SortedKeys(m))
	assert.Empty(t, go2.SortedKeys(map[string]int{}))
}

func TestRemove(t *testing.T) {
	t.Parallel()

	orig := []string{"a", "b", "c"}
	assert.Equal(t, []string{"a", "c"}, go2.Remove(orig, "b"))
	assert.Equal(t, []string{"a", "b", "c"}, orig, "the input is left untouched")
	assert.Equal(t, []string{"x"}, go2.Remove([]string{"x"}, "y"))
}

func TestClamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2.0, go2.Clamp(5.0, 0.1, 2.0))
	assert.Equal(t, 0.1, go2.Clamp(0.0, 0.1, 2.0))
	assert.Equal(t, 1.0, go2.Clamp(1.0, 0.1, 2.0))
}
