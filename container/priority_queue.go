package container

import "container/heap"

// item is a single priority-queue element (lower Priority pops first).
type item[T any] struct {
	Value    T
	Priority float64
	index    int // maintained by heap.Interface, used only by Swap/Push/Pop
}

// innerQueue implements heap.Interface as a min-heap over Priority.
type innerQueue[T any] []*item[T]

func (q innerQueue[T]) Len() int { return len(q) }

func (q innerQueue[T]) Less(i, j int) bool { return q[i].Priority < q[j].Priority }

func (q innerQueue[T]) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *innerQueue[T]) Push(x any) {
	it := x.(*item[T])
	it.index = len(*q)
	*q = append(*q, it)
}

func (q *innerQueue[T]) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*q = old[:n-1]
	return it
}

// PriorityQueue is a generic min-heap keyed on a separate float64
// priority, used as the A* open list (container/heap wrapped in a value
// API rather than the interface-based stdlib one).
type PriorityQueue[T any] struct {
	queue innerQueue[T]
}

// NewPriorityQueue returns an empty priority queue.
func NewPriorityQueue[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{queue: make(innerQueue[T], 0)}
}

// Len returns the number of queued elements.
func (q *PriorityQueue[T]) Len() int { return len(q.queue) }

// HeapPush pushes value with the given priority, maintaining heap order.
func (q *PriorityQueue[T]) HeapPush(value T, priority float64) {
	heap.Push(&q.queue, &item[T]{Value: value, Priority: priority})
}

// HeapPop removes and returns the lowest-priority element.
func (q *PriorityQueue[T]) HeapPop() (value T, priority float64) {
	it := heap.Pop(&q.queue).(*item[T])
	return it.Value, it.Priority
}
