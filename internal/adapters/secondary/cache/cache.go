package cache

import "github.com/denchenko/cartdash/internal/core/domain"

// Cache defines the in-memory user and cart state shared by the screens.
type Cache interface {
	// Users returns a snapshot of all cached users ordered by id.
	Users() []*domain.User

	// User returns a copy of the cached user with the given id.
	// Returns the user and true if found, nil and false otherwise.
	User(id int) (*domain.User, bool)

	// UsersGeneration returns the current generation of the user collection.
	UsersGeneration() uint64

	// ReplaceUsers swaps the whole user collection if gen is still current.
	// Returns false when the collection was invalidated since gen was taken.
	ReplaceUsers(users []*domain.User, gen uint64) bool

	// PutUser replaces a cached user without touching the last-updated slot.
	PutUser(user *domain.User) error

	// UpdateUser replaces a cached user and records it as the last update.
	UpdateUser(user *domain.User) error

	// DeleteUser removes the user and its cart together. The id stays
	// deleted, with no cart, until the collection is replaced or invalidated.
	DeleteUser(id int) error

	// IsDeleted reports whether the user was deleted since the last reload.
	IsDeleted(id int) bool

	// Cart returns a copy of the user's cart and whether it has been loaded.
	Cart(userID int) ([]domain.CartItem, bool)

	// CartGeneration returns the current generation of the user's cart.
	CartGeneration(userID int) uint64

	// StoreCart sets the user's cart if gen is still current.
	StoreCart(userID int, items []domain.CartItem, gen uint64) bool

	// AddCartItem appends an item to the user's cart.
	AddCartItem(userID int, item domain.CartItem) error

	// UpdateCartItem replaces the cart item with the same id.
	UpdateCartItem(userID int, item domain.CartItem) error

	// RemoveCartItem removes the cart item with the given id.
	RemoveCartItem(userID, itemID int) error

	// ConsumeLastUpdatedUser returns the last updated user and clears the slot.
	ConsumeLastUpdatedUser() (*domain.User, bool)

	// Invalidate drops all cached state.
	Invalidate()
}
