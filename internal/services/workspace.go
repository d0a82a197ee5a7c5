// internal/services/workspace.go
package services

import (
	"sync"

	"github.com/dravik/licensing-console/internal/session"
)

// Workspace is the page state of one signed-in session. Pages hold no
// state across sessions; logging out closes the workspace so any answer
// still in flight is dropped on arrival.
type Workspace struct {
	sess *session.Session

	Registration *Registration
	Listings     *ListingBoard
	Market       *Market
	Revenue      *RevenueBoard
}

func newWorkspace(sess *session.Session) *Workspace {
	return &Workspace{
		sess:         sess,
		Registration: NewRegistration(),
		Listings:     &ListingBoard{},
		Market:       newMarket(),
		Revenue:      newRevenueBoard(),
	}
}

// NewWorkspace builds a standalone workspace for sess.
func NewWorkspace(sess *session.Session) *Workspace {
	return newWorkspace(sess)
}

// Token is the bearer credential of the workspace's session.
func (w *Workspace) Token() string {
	return w.sess.Token()
}

// Session returns the session the workspace belongs to.
func (w *Workspace) Session() *session.Session {
	return w.sess
}

// Close unmounts every page.
func (w *Workspace) Close() {
	w.Registration.unmount()
	w.Listings.unmount()
	w.Market.unmount()
	w.Revenue.unmount()
}

// Workspaces hands out the workspace of the active session.
type Workspaces struct {
	mu      sync.Mutex
	current *Workspace
}

func NewWorkspaces() *Workspaces {
	return &Workspaces{}
}

// For returns the workspace of sess, replacing the workspace of any
// previous session.
func (ws *Workspaces) For(sess *session.Session) *Workspace {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.current != nil && ws.current.sess.Token() == sess.Token() {
		return ws.current
	}
	if ws.current != nil {
		ws.current.Close()
	}
	ws.current = newWorkspace(sess)
	return ws.current
}

// Close closes the active workspace, if any.
func (ws *Workspaces) Close() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.current != nil {
		ws.current.Close()
		ws.current = nil
	}
}
