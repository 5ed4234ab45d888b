package services

import "sync"

// ProductIDTracker mirrors the ids held in the stored cart.
type ProductIDTracker interface {
	SetProductIDs(ids []int)
	RemoveProductID(id int)
}

// ProductIDSet is an in-process ProductIDTracker, e.g. for a cart badge.
type ProductIDSet struct {
	mu  sync.RWMutex
	ids []int
}

func NewProductIDSet(ids ...int) *ProductIDSet {
	return &ProductIDSet{ids: append([]int{}, ids...)}
}

func (s *ProductIDSet) SetProductIDs(ids []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append([]int{}, ids...)
}

func (s *ProductIDSet) RemoveProductID(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.ids[:0]
	for _, v := range s.ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	s.ids = kept
}

func (s *ProductIDSet) IDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int{}, s.ids...)
}
