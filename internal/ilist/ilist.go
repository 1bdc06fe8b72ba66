// Package ilist provides an intrusive doubly-linked list. It is used by
// internal/window to keep in-flight segments in ascending sequence
// order so retransmit-all and retransmit-earliest never need a sort
// pass.
package ilist

// Linker is the interface objects must implement to be added to and
// removed from a List. Embed Entry anonymously to satisfy it for free.
type Linker interface {
	Next() Linker
	Prev() Linker
	SetNext(Linker)
	SetPrev(Linker)
}

// List is an intrusive doubly-linked list. Entries can be added to or
// removed from the list in O(1) time with no additional allocation.
//
// The zero value for List is an empty list ready to use.
//
// To iterate over a list l in order:
//
//	for e := l.Front(); e != nil; e = e.Next() {
//		// do something with e
//	}
type List struct {
	head Linker
	tail Linker
}

// Front returns the first element of l, or nil if l is empty.
func (l *List) Front() Linker {
	return l.head
}

// Empty reports whether l has no elements.
func (l *List) Empty() bool {
	return l.head == nil
}

// PushBack inserts e at the back of l.
func (l *List) PushBack(e Linker) {
	e.SetNext(nil)
	e.SetPrev(l.tail)

	if l.tail != nil {
		l.tail.SetNext(e)
	} else {
		l.head = e
	}
	l.tail = e
}

// Remove removes e from l.
func (l *List) Remove(e Linker) {
	prev := e.Prev()
	next := e.Next()

	if prev != nil {
		prev.SetNext(next)
	} else {
		l.head = next
	}
	if next != nil {
		next.SetPrev(prev)
	} else {
		l.tail = prev
	}
}

// Entry is a default implementation of Linker. Embed it anonymously in
// a struct to make that struct satisfy Linker automatically.
type Entry struct {
	next Linker
	prev Linker
}

// Next returns the entry that follows e in the list.
func (e *Entry) Next() Linker {
	return e.next
}

// Prev returns the entry that precedes e in the list.
func (e *Entry) Prev() Linker {
	return e.prev
}

// SetNext assigns l as the entry that follows e in the list.
func (e *Entry) SetNext(l Linker) {
	e.next = l
}

// SetPrev assigns l as the entry that precedes e in the list.
func (e *Entry) SetPrev(l Linker) {
	e.prev = l
}
