package container

import "sync"

// IIncrementalItem is implemented by elements of an IncrementalArray so the
// array can track each element's current slot after a batch of adds and
// removes reshuffles it.
type IIncrementalItem interface {
	Index() int
	SetIndex(index int)
}

// IncrementalItemBase is an embeddable base that gives a struct
// IIncrementalItem for free.
type IncrementalItemBase struct {
	index int
}

// Index returns the element's current position in its IncrementalArray.
func (b *IncrementalItemBase) Index() int { return b.index }

// SetIndex sets the element's position. Called only by IncrementalArray.
func (b *IncrementalItemBase) SetIndex(index int) { b.index = index }

// IncrementalArray is a slice that defers Add/Remove until Prepare runs,
// so many additions and removals across a tick are applied as one batch
// instead of shifting the backing array on every call (the traffic
// manager's per-tick spawn/retire pattern: many adds and removes queued
// during a tick, applied once before the next phase reads the list).
type IncrementalArray[T IIncrementalItem] struct {
	data   []T
	add    []T
	remove []T

	addMu    sync.Mutex
	removeMu sync.Mutex
}

// NewIncrementalArray returns an empty array.
func NewIncrementalArray[T IIncrementalItem]() *IncrementalArray[T] {
	return &IncrementalArray[T]{}
}

// Len returns the number of elements currently applied (as of the last
// Prepare).
func (a *IncrementalArray[T]) Len() int { return len(a.data) }

// Data returns the applied elements, as of the last Prepare.
func (a *IncrementalArray[T]) Data() []T { return a.data }

// Add queues value to be appended on the next Prepare.
func (a *IncrementalArray[T]) Add(value T) {
	a.addMu.Lock()
	defer a.addMu.Unlock()
	a.add = append(a.add, value)
}

// Remove queues value to be dropped on the next Prepare. value must
// currently be an applied element (its Index() must be valid); queuing the
// same value twice, or a value not currently in the array, is a programmer
// precondition violation the next Prepare will not catch gracefully.
func (a *IncrementalArray[T]) Remove(value T) {
	a.removeMu.Lock()
	defer a.removeMu.Unlock()
	a.remove = append(a.remove, value)
}

// Prepare applies every queued Add and Remove as one batch: removed slots
// are filled first by queued additions, then by elements taken from the
// array's tail, and any additions left over are appended. Every element
// that moves has its index updated via SetIndex.
func (a *IncrementalArray[T]) Prepare() {
	if len(a.add) >= len(a.remove) {
		for i, removed := range a.remove {
			slot := removed.Index()
			a.data[slot] = a.add[i]
			a.data[slot].SetIndex(slot)
		}
		leftover := a.add[len(a.remove):]
		for i, added := range leftover {
			added.SetIndex(len(a.data) + i)
		}
		a.data = append(a.data, leftover...)
	} else {
		for i, added := range a.add {
			slot := a.remove[i].Index()
			a.data[slot] = added
			a.data[slot].SetIndex(slot)
		}
		filled := len(a.add)
		stillToRemove := len(a.remove) - filled
		newLen := len(a.data) - stillToRemove
		for i := 0; i < stillToRemove; i++ {
			slot := a.remove[filled+i].Index()
			a.data[slot] = a.data[newLen+i]
			a.data[slot].SetIndex(slot)
		}
		a.data = a.data[:newLen]
	}

	a.add = nil
	a.remove = nil
}
