// Package container holds the generic collections the network, routing,
// and traffic packages are built on: a position-sorted doubly linked
// list, a priority queue used as the A* open list, and a batched
// add/remove array for per-tick entity bookkeeping.
package container

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "container")

// ListNode is one entry of a List. S is the sort key (typically an arc
// position); Value and Extra carry whatever payload the caller needs.
type ListNode[T any, E any] struct {
	parent     *List[T, E]
	prev, next *ListNode[T, E]
	S          float64
	Value      T
	Extra      E
}

func (n *ListNode[T, E]) String() string {
	return fmt.Sprintf("ListNode{S:%v, Value:%+v}", n.S, n.Value)
}

// Prev returns the previous node, or nil if n is the head.
func (n *ListNode[T, E]) Prev() *ListNode[T, E] { return n.prev }

// Next returns the next node, or nil if n is the tail.
func (n *ListNode[T, E]) Next() *ListNode[T, E] { return n.next }

// Parent returns the list n belongs to.
func (n *ListNode[T, E]) Parent() *List[T, E] { return n.parent }

// InsertBefore splices add immediately before n.
func (n *ListNode[T, E]) InsertBefore(add *ListNode[T, E]) {
	if add.parent != nil {
		log.Panic("container: insert node that is already in a list")
	}
	add.parent = n.parent
	add.next = n
	add.prev = n.prev
	n.prev = add
	if add.prev != nil {
		add.prev.next = add
	} else {
		add.parent.head = add
	}
	n.parent.length++
}

// InsertAfter splices add immediately after n.
func (n *ListNode[T, E]) InsertAfter(add *ListNode[T, E]) {
	if add.parent != nil {
		log.Panic("container: insert node that is already in a list")
	}
	add.parent = n.parent
	add.prev = n
	add.next = n.next
	n.next = add
	if add.next != nil {
		add.next.prev = add
	} else {
		add.parent.tail = add
	}
	n.parent.length++
}

// List is a doubly linked list of externally-owned nodes, kept sorted by
// ascending S when callers only ever use InsertSorted/PushBack/PushFront in
// a manner consistent with sort order.
type List[T any, E any] struct {
	head, tail *ListNode[T, E]
	length     int
}

// Len returns the number of nodes in the list.
func (l *List[T, E]) Len() int { return l.length }

// First returns the head node, or nil if the list is empty.
func (l *List[T, E]) First() *ListNode[T, E] { return l.head }

// Last returns the tail node, or nil if the list is empty.
func (l *List[T, E]) Last() *ListNode[T, E] { return l.tail }

// Values returns the list's values in order, head to tail.
func (l *List[T, E]) Values() []T {
	values := make([]T, 0, l.length)
	for n := l.head; n != nil; n = n.next {
		values = append(values, n.Value)
	}
	return values
}

// PushFront inserts add as the new head.
func (l *List[T, E]) PushFront(add *ListNode[T, E]) {
	if add.parent != nil {
		log.Panic("container: push node that is already in a list")
	}
	add.next, add.prev = nil, nil
	if l.head == nil {
		add.parent = l
		l.head, l.tail = add, add
		l.length++
	} else {
		l.head.InsertBefore(add)
		l.head = add
	}
}

// PushBack inserts add as the new tail.
func (l *List[T, E]) PushBack(add *ListNode[T, E]) {
	if add.parent != nil {
		log.Panic("container: push node that is already in a list")
	}
	add.next, add.prev = nil, nil
	if l.tail == nil {
		add.parent = l
		l.head, l.tail = add, add
		l.length++
	} else {
		l.tail.InsertAfter(add)
		l.tail = add
	}
}

// InsertSorted inserts a new node carrying (value, extra) at sort key s,
// scanning from the tail backward (the common case - vehicles accumulate
// near the end of a connection they just entered) until it finds the first
// node whose key is <= s, and placing the new node after it. Returns the
// inserted node.
func (l *List[T, E]) InsertSorted(value T, extra E, s float64) *ListNode[T, E] {
	node := &ListNode[T, E]{S: s, Value: value, Extra: extra}
	for n := l.tail; n != nil; n = n.prev {
		if n.S <= s {
			n.InsertAfter(node)
			return node
		}
	}
	l.PushFront(node)
	return node
}

// Remove splices node out of l.
func (l *List[T, E]) Remove(node *ListNode[T, E]) {
	if node.parent != l {
		log.Panic("container: remove node from a list it is not in")
	}
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev, node.next, node.parent = nil, nil, nil
	l.length--
}
