package cache

import "container/list"

// RecencyList is a most-recent-first ordering of identifiers with O(1)
// amortised touch and pop-tail, backed by container/list the same way
// the teacher's original LRU implementation was.
type RecencyList struct {
	order *list.List
	index map[string]*list.Element
}

func NewRecencyList() *RecencyList {
	return &RecencyList{
		order: list.New(),
		index: make(map[string]*list.Element),
	}
}

// Touch moves id to the head, allocating a new entry if it isn't
// already tracked.
func (r *RecencyList) Touch(id string) {
	if elem, ok := r.index[id]; ok {
		r.order.MoveToFront(elem)
		return
	}
	r.index[id] = r.order.PushFront(id)
}

// PopTail removes and returns the least-recently-touched identifier.
func (r *RecencyList) PopTail() (string, bool) {
	elem := r.order.Back()
	if elem == nil {
		return "", false
	}
	r.order.Remove(elem)
	id := elem.Value.(string)
	delete(r.index, id)
	return id, true
}

// Remove drops id from the list if present; no-op otherwise.
func (r *RecencyList) Remove(id string) {
	if elem, ok := r.index[id]; ok {
		r.order.Remove(elem)
		delete(r.index, id)
	}
}

func (r *RecencyList) Contains(id string) bool {
	_, ok := r.index[id]
	return ok
}

func (r *RecencyList) Len() int {
	return r.order.Len()
}

// Ids returns identifiers most-recent-first. Intended for tests that
// assert the recency invariant, not for hot-path use.
func (r *RecencyList) Ids() []string {
	ids := make([]string, 0, r.order.Len())
	for e := r.order.Front(); e != nil; e = e.Next() {
		ids = append(ids, e.Value.(string))
	}
	return ids
}
