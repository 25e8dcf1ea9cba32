// Package paging implements the shared page math for every listing the
// bot renders and remembers which page a chat was last looking at.
package paging

import "sync"

// Page describes a resolved window over a listing.
type Page struct {
	Number int
	Total  int
	Offset int
	Limit  int
}

// Paginate clamps page into [1, TotalPages(total, size)] and returns the
// resolved window. A size <= 0 collapses to 1.
func Paginate(total, page, size int) Page {
	if size <= 0 {
		size = 1
	}
	pages := TotalPages(total, size)
	if page < 1 {
		page = 1
	} else if page > pages {
		page = pages
	}
	return Page{
		Number: page,
		Total:  pages,
		Offset: (page - 1) * size,
		Limit:  size,
	}
}

// TotalPages returns ceil(total/size), never less than 1.
func TotalPages(total, size int) int {
	if size <= 0 {
		size = 1
	}
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Cursor remembers the last rendered page of a listing for one chat so
// redraws after an interruption return to the same place.
type Cursor struct {
	SupplierID int64
	Page       int
	TotalPages int
	Filter     string
}

// CursorStore keeps one Cursor per chat surface.
type CursorStore struct {
	mu      sync.RWMutex
	cursors map[int64]Cursor
}

// NewCursorStore returns an empty store.
func NewCursorStore() *CursorStore {
	return &CursorStore{cursors: make(map[int64]Cursor)}
}

// Set stores the cursor for a chat.
func (s *CursorStore) Set(chatID int64, cur Cursor) {
	s.mu.Lock()
	s.cursors[chatID] = cur
	s.mu.Unlock()
}

// Get returns the cursor for a chat if one was recorded.
func (s *CursorStore) Get(chatID int64) (Cursor, bool) {
	s.mu.RLock()
	cur, ok := s.cursors[chatID]
	s.mu.RUnlock()
	return cur, ok
}

// PageOr returns the remembered page for a chat or the fallback.
func (s *CursorStore) PageOr(chatID int64, fallback int) int {
	if cur, ok := s.Get(chatID); ok && cur.Page > 0 {
		return cur.Page
	}
	return fallback
}

// Delete forgets the cursor for a chat.
func (s *CursorStore) Delete(chatID int64) {
	s.mu.Lock()
	delete(s.cursors, chatID)
	s.mu.Unlock()
}
