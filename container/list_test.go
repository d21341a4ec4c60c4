package container_test

import (
	"testing"

	"github.com/fib-lab/citytrafficsim/container"
	"github.com/stretchr/testify/assert"
)

func TestListEmpty(t *testing.T) {
	l := &container.List[string, struct{}]{}
	assert.Nil(t, l.First())
	assert.Nil(t, l.Last())
	assert.Equal(t, 0, l.Len())
}

func TestInsertSortedMaintainsOrder(t *testing.T) {
	l := &container.List[string, struct{}]{}
	l.InsertSorted("c", struct{}{}, 30)
	l.InsertSorted("a", struct{}{}, 10)
	l.InsertSorted("b", struct{}{}, 20)
	l.InsertSorted("d", struct{}{}, 40)

	assert.Equal(t, []string{"a", "b", "c", "d"}, l.Values())
	assert.Equal(t, 4, l.Len())
}

func TestRemove(t *testing.T) {
	l := &container.List[int, struct{}]{}
	n1 := l.InsertSorted(1, struct{}{}, 1)
	n2 := l.InsertSorted(2, struct{}{}, 2)
	n3 := l.InsertSorted(3, struct{}{}, 3)

	l.Remove(n2)
	assert.Equal(t, []int{1, 3}, l.Values())
	assert.Equal(t, n1, l.First())
	assert.Equal(t, n3, l.Last())
}
