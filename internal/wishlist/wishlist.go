// Package wishlist models the optimistic toggle: the flag flips locally
// before the backend call resolves, then is confirmed or rolled back.
package wishlist

import (
	"context"
	"errors"
	"sync"
)

type State string

const (
	StateIdle       State = "IDLE"
	StatePending    State = "PENDING"
	StateConfirmed  State = "CONFIRMED"
	StateRolledBack State = "ROLLED_BACK"
)

// ErrToggleInFlight rejects a second toggle for a product whose previous
// toggle has not reconciled yet.
var ErrToggleInFlight = errors.New("wishlist toggle already in flight")

// CommitFunc pushes the desired value to the backend.
type CommitFunc func(ctx context.Context, productID string, wanted bool) error

type entry struct {
	wanted bool
	state  State
}

// Toggler tracks the optimistic wishlist flag per product.
type Toggler struct {
	mu      sync.Mutex
	entries map[string]*entry
	commit  CommitFunc
}

func NewToggler(commit CommitFunc) *Toggler {
	return &Toggler{
		entries: make(map[string]*entry),
		commit:  commit,
	}
}

// Toggle flips the flag optimistically and reconciles with the backend.
// On commit failure the previous value is restored and the error returned;
// the returned bool is always the value the caller should display.
func (t *Toggler) Toggle(ctx context.Context, productID string) (bool, error) {
	t.mu.Lock()
	e, ok := t.entries[productID]
	if !ok {
		e = &entry{}
		t.entries[productID] = e
	}
	if e.state == StatePending {
		wanted := e.wanted
		t.mu.Unlock()
		return wanted, ErrToggleInFlight
	}
	previous := e.wanted
	e.wanted = !previous
	e.state = StatePending
	wanted := e.wanted
	t.mu.Unlock()

	err := t.commit(ctx, productID, wanted)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		e.wanted = previous
		e.state = StateRolledBack
		return previous, err
	}
	e.state = StateConfirmed
	return wanted, nil
}

// Wanted returns the currently displayed flag for a product.
func (t *Toggler) Wanted(productID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[productID]; ok {
		return e.wanted
	}
	return false
}

// StateOf returns the reconciliation state for a product.
func (t *Toggler) StateOf(productID string) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[productID]; ok {
		return e.state
	}
	return StateIdle
}
