package main

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// PageID is the stable identity of one page in the gallery sequence
type PageID = uuid.UUID

// NoPage is returned when a neighbor lookup runs off either end
var NoPage = uuid.Nil

// NewPageID allocates a fresh page identity
func NewPageID() PageID {
	return uuid.New()
}

// Direction of a page transition
type Direction int

const (
	DirectionForward Direction = iota
	DirectionReverse
)

func (d Direction) String() string {
	if d == DirectionReverse {
		return "reverse"
	}
	return "forward"
}

// Neighbor selects which adjacent page to resolve
type Neighbor int

const (
	NeighborBefore Neighbor = iota
	NeighborAfter
)

// Transition describes a change of the visible page
type Transition struct {
	From      int // -1 for the first presentation
	To        int
	Page      PageID
	Direction Direction
	Animated  bool
	Initial   bool
}

// Pager displays pages on behalf of the navigator
type Pager interface {
	ShowPage(t Transition)
}

// IndexCell is the host-owned current page index.
// Writers call Set; observers drain Changes.
type IndexCell struct {
	mu      sync.Mutex
	value   int
	changes chan int
}

// NewIndexCell creates a cell holding initial
func NewIndexCell(initial int) *IndexCell {
	return &IndexCell{
		value:   initial,
		changes: make(chan int, 1),
	}
}

// Get returns the current value
func (c *IndexCell) Get() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set stores v and notifies observers. Returns false when v equals the current value.
func (c *IndexCell) Set(v int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.value == v {
		return false
	}
	c.value = v

	// Keep only the latest pending value
	select {
	case <-c.changes:
	default:
	}
	c.changes <- v
	return true
}

// Changes delivers values written through Set
func (c *IndexCell) Changes() <-chan int {
	return c.changes
}

// PagedNavigator maps a linear page index onto forward/reverse transitions
// and reports completed swipes back to the IndexCell.
type PagedNavigator struct {
	pages        []PageID
	positions    map[PageID]int
	current      *IndexCell
	pager        Pager
	lastObserved int
}

const indexUnset = -1

// NewPagedNavigator creates a navigator over a fixed page sequence
func NewPagedNavigator(pages []PageID, current *IndexCell, pager Pager) *PagedNavigator {
	positions := make(map[PageID]int, len(pages))
	for i, id := range pages {
		positions[id] = i
	}
	return &PagedNavigator{
		pages:        pages,
		positions:    positions,
		current:      current,
		pager:        pager,
		lastObserved: indexUnset,
	}
}

// Len returns the number of pages
func (n *PagedNavigator) Len() int {
	return len(n.pages)
}

// Page returns the id at index i
func (n *PagedNavigator) Page(i int) PageID {
	n.checkIndex(i)
	return n.pages[i]
}

// IndexOf returns the position of id
func (n *PagedNavigator) IndexOf(id PageID) (int, bool) {
	i, ok := n.positions[id]
	return i, ok
}

// LastObserved returns the index of the page last shown, or -1
func (n *PagedNavigator) LastObserved() int {
	return n.lastObserved
}

func (n *PagedNavigator) checkIndex(i int) {
	if i < 0 || i >= len(n.pages) {
		panic(fmt.Sprintf("page index %d out of range [0, %d)", i, len(n.pages)))
	}
}

// ResolveNeighbor returns the page adjacent to id, or NoPage at either end
func (n *PagedNavigator) ResolveNeighbor(id PageID, which Neighbor) (PageID, bool) {
	i, ok := n.positions[id]
	if !ok {
		return NoPage, false
	}

	switch which {
	case NeighborBefore:
		if i == 0 {
			return NoPage, false
		}
		return n.pages[i-1], true
	case NeighborAfter:
		if i+1 == len(n.pages) {
			return NoPage, false
		}
		return n.pages[i+1], true
	}
	return NoPage, false
}

// OnExternalIndexChange reacts to a host write of the current index.
// The returned bool reports whether the pager was asked to change pages.
func (n *PagedNavigator) OnExternalIndexChange(newIndex int) (Transition, bool) {
	n.checkIndex(newIndex)

	if n.lastObserved == indexUnset {
		t := Transition{
			From:      indexUnset,
			To:        newIndex,
			Page:      n.pages[newIndex],
			Direction: DirectionForward,
			Initial:   true,
		}
		n.lastObserved = newIndex
		n.request(t)
		return t, true
	}

	t := n.transitionTo(newIndex)
	if !t.Animated {
		// Already showing this page; re-entrant writes end here
		return t, false
	}

	n.lastObserved = newIndex
	n.request(t)
	return t, true
}

func (n *PagedNavigator) transitionTo(newIndex int) Transition {
	direction := DirectionReverse
	if newIndex >= n.lastObserved {
		direction = DirectionForward
	}
	return Transition{
		From:      n.lastObserved,
		To:        newIndex,
		Page:      n.pages[newIndex],
		Direction: direction,
		Animated:  newIndex != n.lastObserved,
	}
}

func (n *PagedNavigator) request(t Transition) {
	if n.pager != nil {
		n.pager.ShowPage(t)
	}
}

// OnGestureTransitionCompleted records the page a swipe landed on and writes
// its index back to the IndexCell. Cancelled swipes are ignored.
func (n *PagedNavigator) OnGestureTransitionCompleted(resulting PageID, completed bool) (Transition, bool) {
	if !completed {
		return Transition{}, false
	}
	newIndex, ok := n.positions[resulting]
	if !ok {
		return Transition{}, false
	}

	var t Transition
	if n.lastObserved == indexUnset {
		t = Transition{From: indexUnset, To: newIndex, Page: resulting, Initial: true}
	} else {
		t = n.transitionTo(newIndex)
	}

	// The pager already shows the page, so the echo from the cell is a no-op
	n.lastObserved = newIndex
	n.current.Set(newIndex)
	return t, true
}

// Sync drains pending index writes and applies the latest one
func (n *PagedNavigator) Sync() (Transition, bool) {
	latest, pending := 0, false
	for {
		select {
		case v := <-n.current.Changes():
			latest, pending = v, true
			continue
		default:
		}
		break
	}
	if !pending {
		return Transition{}, false
	}
	return n.OnExternalIndexChange(latest)
}

// Present shows the cell's current page; used for the first presentation
func (n *PagedNavigator) Present() (Transition, bool) {
	return n.OnExternalIndexChange(n.current.Get())
}
