// Package cart holds the authoritative in-memory cart for a session and
// keeps a durable copy synchronized through an injected persistence adapter.
package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wahidpatel05/mz-aromas-storefront/internal/domain"
	"github.com/wahidpatel05/mz-aromas-storefront/internal/pricing"
)

// Persistence is the durable cart copy. Consumers define this interface,
// not the backend implementations. Load must tolerate absent or corrupt
// stored data by reporting an empty cart, never an error for those cases.
type Persistence interface {
	Save(ctx context.Context, sessionID string, cart domain.Cart) error
	Load(ctx context.Context, sessionID string) (domain.Cart, bool, error)
}

// PersistenceError reports that a mutation was applied in memory but could
// not be written durably. The cart stays usable for the session; callers
// should warn that it may not survive a restart.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("cart persisted copy not updated: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store serializes all mutations for one session's cart. Persistence runs
// inside the mutation lock, so snapshots reach the adapter in version order
// and a stale in-flight write cannot replace a newer state.
type Store struct {
	mu        sync.Mutex
	sessionID string
	cart      domain.Cart
	persist   Persistence
}

// NewStore creates an empty store without touching persistence.
func NewStore(sessionID string, persist Persistence) *Store {
	now := time.Now()
	return &Store{
		sessionID: sessionID,
		persist:   persist,
		cart:      domain.Cart{CreatedAt: now, UpdatedAt: now},
	}
}

// Load restores a session's cart from the persistence adapter. Absent or
// corrupt stored state yields an empty cart.
func Load(ctx context.Context, sessionID string, persist Persistence) (*Store, error) {
	s := NewStore(sessionID, persist)
	saved, found, err := persist.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if found {
		s.cart = saved
	}
	return s, nil
}

// Add appends a snapshot line item, or increments the quantity of the
// existing item with the same identity key. Returns the updated line item.
func (s *Store) Add(ctx context.Context, p domain.Product, size string, quantity int) (domain.LineItem, error) {
	item, err := domain.NewLineItem(p, size, quantity)
	if err != nil {
		return domain.LineItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.cart.IndexOf(item.Key()); i >= 0 {
		s.cart.Items[i].Quantity += quantity
		item = s.cart.Items[i]
	} else {
		s.cart.Items = append(s.cart.Items, item)
	}
	return item, s.commitLocked(ctx)
}

// Remove deletes the line item with the given identity key. Removing an
// absent key is a no-op, not an error.
func (s *Store) Remove(ctx context.Context, productID, size string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.cart.IndexOf(domain.NewItemKey(productID, size))
	if i < 0 {
		return nil
	}
	s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
	return s.commitLocked(ctx)
}

// UpdateQuantity replaces the quantity of an existing line item. Zero and
// negative quantities are rejected; removal is an explicit Remove call.
func (s *Store) UpdateQuantity(ctx context.Context, productID, size string, quantity int) (domain.LineItem, error) {
	if quantity < 1 {
		return domain.LineItem{}, domain.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.cart.IndexOf(domain.NewItemKey(productID, size))
	if i < 0 {
		return domain.LineItem{}, ErrItemNotFound
	}
	s.cart.Items[i].Quantity = quantity
	return s.cart.Items[i], s.commitLocked(ctx)
}

// Clear empties the cart and persists the empty state.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Items = nil
	return s.commitLocked(ctx)
}

// Items returns a copy of the current line items in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone().Items
}

// Snapshot returns a deep copy of the full cart state.
func (s *Store) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// Quote prices the current cart under the given policy.
func (s *Store) Quote(policy pricing.Policy) pricing.Breakdown {
	return pricing.Quote(s.Items(), policy)
}

// commitLocked bumps the version and writes the snapshot while still
// holding the mutation lock. A failed write keeps the in-memory state and
// surfaces a PersistenceError for the caller to warn about.
func (s *Store) commitLocked(ctx context.Context) error {
	s.cart.Version++
	s.cart.UpdatedAt = time.Now()
	if err := s.persist.Save(ctx, s.sessionID, s.cart.Clone()); err != nil {
		return &PersistenceError{Err: err}
	}
	return nil
}
