package cache

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/denchenko/cartdash/internal/core/domain"
)

// Option configures an InMemoryCache.
type Option func(*InMemoryCache)

// WithIgnoreUnknownIDs makes mutations that target an unknown user or cart
// item silent no-ops instead of ErrNotFound failures.
func WithIgnoreUnknownIDs(ignore bool) Option {
	return func(c *InMemoryCache) {
		c.ignoreUnknown = ignore
	}
}

// InMemoryCache is an in-memory thread-safe cache implementation for users and carts.
//
// Stored records are never mutated in place: writers swap whole values under
// the lock and readers get copies, so a reader sees either the previous or
// the current snapshot.
//
// Every write bumps a per-key generation taken from a single clock. A fetch
// captures the generation before going remote and its result is dropped if
// the key moved on in the meantime.
type InMemoryCache struct {
	mu sync.RWMutex

	usersByID   map[int]*domain.User
	cartsByUser map[int][]domain.CartItem
	deleted     map[int]struct{}
	lastUpdated *domain.User

	clock     uint64
	floor     uint64
	usersGen  uint64
	cartsGens map[int]uint64

	ignoreUnknown bool
}

// NewInMemoryCache creates a new in-memory cache instance.
func NewInMemoryCache(opts ...Option) *InMemoryCache {
	c := &InMemoryCache{
		usersByID:   make(map[int]*domain.User),
		cartsByUser: make(map[int][]domain.CartItem),
		deleted:     make(map[int]struct{}),
		cartsGens:   make(map[int]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Users returns a snapshot of all cached users ordered by id.
func (c *InMemoryCache) Users() []*domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()

	users := make([]*domain.User, 0, len(c.usersByID))
	for _, user := range c.usersByID {
		users = append(users, user.Clone())
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].ID < users[j].ID
	})

	return users
}

// User returns a copy of the cached user with the given id.
func (c *InMemoryCache) User(id int) (*domain.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	user, ok := c.usersByID[id]
	if !ok {
		return nil, false
	}

	return user.Clone(), true
}

// UsersGeneration returns the current generation of the user collection.
func (c *InMemoryCache) UsersGeneration() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return max(c.usersGen, c.floor)
}

// ReplaceUsers swaps the whole user collection if gen is still current.
func (c *InMemoryCache) ReplaceUsers(users []*domain.User, gen uint64) bool {
	byID := make(map[int]*domain.User, len(users))
	for _, user := range users {
		if user != nil {
			byID[user.ID] = user.Clone()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if max(c.usersGen, c.floor) != gen {
		return false
	}

	c.usersByID = byID
	c.deleted = make(map[int]struct{})
	c.usersGen = c.tick()

	return true
}

// PutUser replaces a cached user without touching the last-updated slot.
func (c *InMemoryCache) PutUser(user *domain.User) error {
	if user == nil {
		return fmt.Errorf("nil user: %w", domain.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.usersByID[user.ID]; !ok {
		return c.unknown(fmt.Errorf("user %d: %w", user.ID, domain.ErrNotFound))
	}

	c.usersByID[user.ID] = user.Clone()
	c.usersGen = c.tick()

	return nil
}

// UpdateUser replaces a cached user and records it as the last update.
func (c *InMemoryCache) UpdateUser(user *domain.User) error {
	if user == nil {
		return fmt.Errorf("nil user: %w", domain.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.usersByID[user.ID]; !ok {
		return c.unknown(fmt.Errorf("user %d: %w", user.ID, domain.ErrNotFound))
	}

	c.usersByID[user.ID] = user.Clone()
	c.lastUpdated = user.Clone()
	c.usersGen = c.tick()

	return nil
}

// DeleteUser removes the user and its cart together and marks the id as
// deleted. Only the generations of what was actually removed move on.
func (c *InMemoryCache) DeleteUser(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, hasUser := c.usersByID[id]
	_, hasCart := c.cartsByUser[id]
	if !hasUser && !hasCart {
		return c.unknown(fmt.Errorf("user %d: %w", id, domain.ErrNotFound))
	}

	if hasUser {
		delete(c.usersByID, id)
		c.usersGen = c.tick()
	}
	delete(c.cartsByUser, id)
	c.cartsGens[id] = c.tick()
	c.deleted[id] = struct{}{}

	return nil
}

// IsDeleted reports whether the user was deleted since the last reload.
func (c *InMemoryCache) IsDeleted(id int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.deleted[id]

	return ok
}

// Cart returns a copy of the user's cart and whether it has been loaded.
func (c *InMemoryCache) Cart(userID int) ([]domain.CartItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items, ok := c.cartsByUser[userID]
	if !ok {
		return nil, false
	}

	return cloneItems(items), true
}

// CartGeneration returns the current generation of the user's cart.
func (c *InMemoryCache) CartGeneration(userID int) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.cartGen(userID)
}

// StoreCart sets the user's cart if gen is still current.
func (c *InMemoryCache) StoreCart(userID int, items []domain.CartItem, gen uint64) bool {
	stored := cloneItems(items)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, gone := c.deleted[userID]; gone || c.cartGen(userID) != gen {
		return false
	}

	c.cartsByUser[userID] = stored
	c.cartsGens[userID] = c.tick()

	return true
}

// AddCartItem appends an item to the user's loaded cart.
func (c *InMemoryCache) AddCartItem(userID int, item domain.CartItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, gone := c.deleted[userID]; gone {
		return c.unknown(fmt.Errorf("user %d was deleted: %w", userID, domain.ErrNotFound))
	}

	items, ok := c.cartsByUser[userID]
	if !ok {
		return fmt.Errorf("cart of user %d is not loaded: %w", userID, domain.ErrInvalidState)
	}

	if indexOf(items, item.ID) >= 0 {
		return fmt.Errorf("cart item %d already exists: %w", item.ID, domain.ErrInvalidInput)
	}

	next := make([]domain.CartItem, 0, len(items)+1)
	next = append(next, items...)
	next = append(next, item)

	c.cartsByUser[userID] = next
	c.cartsGens[userID] = c.tick()

	return nil
}

// UpdateCartItem replaces the cart item with the same id.
func (c *InMemoryCache) UpdateCartItem(userID int, item domain.CartItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, gone := c.deleted[userID]; gone {
		return c.unknown(fmt.Errorf("user %d was deleted: %w", userID, domain.ErrNotFound))
	}

	items, ok := c.cartsByUser[userID]
	if !ok {
		return fmt.Errorf("cart of user %d is not loaded: %w", userID, domain.ErrInvalidState)
	}

	idx := indexOf(items, item.ID)
	if idx < 0 {
		return c.unknown(fmt.Errorf("cart item %d: %w", item.ID, domain.ErrNotFound))
	}

	next := cloneItems(items)
	next[idx] = item

	c.cartsByUser[userID] = next
	c.cartsGens[userID] = c.tick()

	return nil
}

// RemoveCartItem removes the cart item with the given id.
func (c *InMemoryCache) RemoveCartItem(userID, itemID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, gone := c.deleted[userID]; gone {
		return c.unknown(fmt.Errorf("user %d was deleted: %w", userID, domain.ErrNotFound))
	}

	items, ok := c.cartsByUser[userID]
	if !ok {
		return fmt.Errorf("cart of user %d is not loaded: %w", userID, domain.ErrInvalidState)
	}

	idx := indexOf(items, itemID)
	if idx < 0 {
		return c.unknown(fmt.Errorf("cart item %d: %w", itemID, domain.ErrNotFound))
	}

	c.cartsByUser[userID] = slices.Delete(cloneItems(items), idx, idx+1)
	c.cartsGens[userID] = c.tick()

	return nil
}

// ConsumeLastUpdatedUser returns the last updated user and clears the slot.
func (c *InMemoryCache) ConsumeLastUpdatedUser() (*domain.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user := c.lastUpdated
	c.lastUpdated = nil

	return user, user != nil
}

// Invalidate drops all cached state.
func (c *InMemoryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.usersByID = make(map[int]*domain.User)
	c.cartsByUser = make(map[int][]domain.CartItem)
	c.deleted = make(map[int]struct{})
	c.cartsGens = make(map[int]uint64)
	c.lastUpdated = nil
	c.floor = c.tick()
}

func (c *InMemoryCache) tick() uint64 {
	c.clock++

	return c.clock
}

func (c *InMemoryCache) cartGen(userID int) uint64 {
	return max(c.cartsGens[userID], c.floor)
}

func (c *InMemoryCache) unknown(err error) error {
	if c.ignoreUnknown {
		return nil
	}

	return err
}

func indexOf(items []domain.CartItem, id int) int {
	return slices.IndexFunc(items, func(item domain.CartItem) bool {
		return item.ID == id
	})
}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	if items == nil {
		return []domain.CartItem{}
	}

	return slices.Clone(items)
}
