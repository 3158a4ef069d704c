package dashboard

import "sync"

// Store holds one session's state. Dispatch is serialised, so concurrent
// requests for the same session apply their actions one at a time.
type Store struct {
	mu    sync.Mutex
	state State
}

// NewStore creates a store holding the initial state.
func NewStore() *Store {
	return NewStoreWithState(New())
}

// NewStoreWithState creates a store holding s.
func NewStoreWithState(s State) *Store {
	return &Store{state: s}
}

// Dispatch applies the actions in order and returns the resulting state.
func (st *Store) Dispatch(actions ...Action) State {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.state = Apply(st.state, actions...)
	return st.state
}

// Update derives actions from the current state and applies them under the
// same lock, so no other dispatch can land in between.
func (st *Store) Update(fn func(State) []Action) State {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.state = Apply(st.state, fn(st.state)...)
	return st.state
}

// Snapshot returns the current state.
func (st *Store) Snapshot() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}
