package pager

import (
	"sync"
)

// PageCache holds decoded pages for the lifetime of the database handle.
// It never evicts: the engine is read-only and every decoded page stays valid.
type PageCache struct {
	// Map of page number to page
	pages map[Pgno]*Page

	// Loads in progress, so that concurrent misses on one page share a single read
	pending map[Pgno]*pendingLoad

	// Mutex for thread-safe operations
	mu sync.RWMutex
}

type pendingLoad struct {
	done chan struct{}
	page *Page
	err  error
}

// NewPageCache creates a new page cache.
func NewPageCache() *PageCache {
	return &PageCache{
		pages:   make(map[Pgno]*Page),
		pending: make(map[Pgno]*pendingLoad),
	}
}

// Get retrieves a page from the cache.
// Returns nil if the page is not in the cache.
func (c *PageCache) Get(pgno Pgno) *Page {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pages[pgno]
}

// GetOrLoad returns the cached page, or calls load to produce it.
//
// The fast path takes only the read lock. On a miss the write lock is taken
// and the cache is checked again; if another goroutine is already loading the
// page the caller waits for that load instead of starting its own. load runs
// without the cache lock held, so lookups of resident pages never wait on I/O.
//
// loaded reports whether this call ran load. Failed loads are not cached.
func (c *PageCache) GetOrLoad(pgno Pgno, load func() (*Page, error)) (page *Page, loaded bool, err error) {
	c.mu.RLock()
	page = c.pages[pgno]
	c.mu.RUnlock()
	if page != nil {
		return page, false, nil
	}

	c.mu.Lock()
	if page = c.pages[pgno]; page != nil {
		c.mu.Unlock()
		return page, false, nil
	}
	if call, ok := c.pending[pgno]; ok {
		c.mu.Unlock()
		<-call.done
		return call.page, false, call.err
	}
	call := &pendingLoad{done: make(chan struct{})}
	c.pending[pgno] = call
	c.mu.Unlock()

	call.page, call.err = load()

	c.mu.Lock()
	delete(c.pending, pgno)
	if call.err == nil {
		c.pages[pgno] = call.page
	}
	c.mu.Unlock()
	close(call.done)

	return call.page, true, call.err
}

// Size returns the number of pages in the cache.
func (c *PageCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}
