// internal/session/navigator.go
package session

import (
	"sync"
)

// Tab is one of the four top-level screens.
type Tab string

const (
	TabCreate    Tab = "create"
	TabConfigure Tab = "configure"
	TabGallery   Tab = "gallery"
	TabOrders    Tab = "orders"
)

func (t Tab) Valid() bool {
	switch t {
	case TabCreate, TabConfigure, TabGallery, TabOrders:
		return true
	}
	return false
}

// State is the navigation position of one session. WorkID is the work
// being configured; it is only meaningful on the configure tab.
type State struct {
	Tab    Tab    `json:"tab"`
	WorkID string `json:"work_id,omitempty"`
}

// Navigator tracks per-session navigation state. Create, gallery and
// orders are freely reachable; configure requires a work context and
// falls back to create without one.
type Navigator struct {
	mu     sync.Mutex
	states map[string]State
}

func NewNavigator() *Navigator {
	return &Navigator{states: make(map[string]State)}
}

// Current returns the session's position, defaulting to the create tab.
func (n *Navigator) Current(key string) State {
	n.mu.Lock()
	defer n.mu.Unlock()
	if state, ok := n.states[key]; ok {
		return state
	}
	return State{Tab: TabCreate}
}

// Navigate moves the session to tab. An unknown tab leaves the state
// unchanged. Entering configure needs a work id, either passed here or
// retained from an earlier visit; without one the session lands on create.
func (n *Navigator) Navigate(key string, tab Tab, workID string) State {
	n.mu.Lock()
	defer n.mu.Unlock()

	current, ok := n.states[key]
	if !ok {
		current = State{Tab: TabCreate}
	}
	if !tab.Valid() {
		return current
	}

	next := State{Tab: tab, WorkID: current.WorkID}
	if tab == TabConfigure {
		if workID != "" {
			next.WorkID = workID
		}
		if next.WorkID == "" {
			next = State{Tab: TabCreate}
		}
	}
	n.states[key] = next
	return next
}

// SetWorkContext records a freshly generated or quoted work and moves the
// session onto the configure tab for it.
func (n *Navigator) SetWorkContext(key, workID string) State {
	n.mu.Lock()
	defer n.mu.Unlock()
	state := State{Tab: TabConfigure, WorkID: workID}
	n.states[key] = state
	return state
}

// ClearWorkContext drops the configure context when its work is deleted,
// sending the session back to create if it was configuring.
func (n *Navigator) ClearWorkContext(key, workID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	state, ok := n.states[key]
	if !ok || state.WorkID != workID {
		return
	}
	state.WorkID = ""
	if state.Tab == TabConfigure {
		state.Tab = TabCreate
	}
	n.states[key] = state
}

// Drop forgets a session entirely.
func (n *Navigator) Drop(key string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.states, key)
}
