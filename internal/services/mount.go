// internal/services/mount.go
package services

import "sync"

// page is the mount bookkeeping shared by stateful pages. Every load takes
// a generation; its result is committed only if no later load started and
// the page was not closed meanwhile, so late answers are dropped instead of
// overwriting newer state.
type page struct {
	mu     sync.Mutex
	gen    uint64
	closed bool
}

// mount starts a new generation, superseding in-flight loads.
func (p *page) mount() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	return p.gen
}

// generation returns the current generation without starting a new one.
func (p *page) generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gen
}

// commit runs fn under the page lock if gen is still current.
func (p *page) commit(gen uint64, fn func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || gen != p.gen {
		return false
	}
	fn()
	return true
}

// update runs fn under the page lock unless the page is closed.
func (p *page) update(fn func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	fn()
	return true
}

// read runs fn under the page lock.
func (p *page) read(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn()
}

// unmount closes the page for good.
func (p *page) unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func (p *page) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
