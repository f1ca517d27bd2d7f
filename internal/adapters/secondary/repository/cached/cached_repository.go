package cached

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/denchenko/cartdash/internal/adapters/secondary/cache"
	"github.com/denchenko/cartdash/internal/core/app"
	"github.com/denchenko/cartdash/internal/core/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const usersKey = "users"

// CachedRepository wraps a Remote with the user and cart cache.
//
// Remote fetches are deduplicated per key: concurrent callers asking for the
// same collection or the same cart share one in-flight request. The shared
// request is detached from the callers' contexts so that a caller giving up
// does not fail the others; its result is only written if the key was not
// invalidated while it was in flight.
type CachedRepository struct {
	remote app.Remote
	cache  cache.Cache
	group  singleflight.Group
	logger logrus.FieldLogger
}

// NewCachedRepository creates a new cached repository instance.
func NewCachedRepository(remote app.Remote, cache cache.Cache, logger logrus.FieldLogger) *CachedRepository {
	return &CachedRepository{
		remote: remote,
		cache:  cache,
		logger: logger,
	}
}

// GetUsers returns the current snapshot of cached users.
func (r *CachedRepository) GetUsers() []*domain.User {
	return r.cache.Users()
}

// LoadUsers fetches the whole user collection and replaces the cached one.
// When the cache moved on while the fetch was in flight the fetched
// collection is not stored; callers then get the cache's current state, or
// the fetched snapshot if the cache has nothing to offer.
func (r *CachedRepository) LoadUsers(ctx context.Context) ([]*domain.User, error) {
	v, err := r.do(ctx, usersKey, func(ctx context.Context) (any, error) {
		gen := r.cache.UsersGeneration()

		users, err := r.remote.ListUsers(ctx)
		if err != nil {
			return nil, err
		}

		if !r.cache.ReplaceUsers(users, gen) {
			r.logger.WithField("key", usersKey).Debug("user collection changed while loading, result dropped")

			return users, nil
		}

		return nil, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	current := r.cache.Users()
	fetched, _ := v.([]*domain.User)
	if fetched == nil || len(current) > 0 {
		return current, nil
	}

	return snapshot(fetched), nil
}

// EnsureUsers returns the cached users, loading them when the cache is empty.
func (r *CachedRepository) EnsureUsers(ctx context.Context) ([]*domain.User, error) {
	if users := r.cache.Users(); len(users) > 0 {
		return users, nil
	}

	return r.LoadUsers(ctx)
}

// GetUser returns a cached user or fetches it without caching it.
func (r *CachedRepository) GetUser(ctx context.Context, id int) (*domain.User, error) {
	if user, ok := r.cache.User(id); ok {
		return user, nil
	}

	if r.cache.IsDeleted(id) {
		return nil, fmt.Errorf("user %d was deleted: %w", id, domain.ErrNotFound)
	}

	user, err := r.remote.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// CachedUser returns the cached copy of a user, if any.
func (r *CachedRepository) CachedUser(id int) (*domain.User, bool) {
	return r.cache.User(id)
}

// LoadCartForUser returns the user's cart, fetching it on first access only.
// An empty cart counts as loaded. Deleted users have no cart.
func (r *CachedRepository) LoadCartForUser(ctx context.Context, userID int) ([]domain.CartItem, error) {
	if items, ok := r.cache.Cart(userID); ok {
		return items, nil
	}

	if r.cache.IsDeleted(userID) {
		return nil, fmt.Errorf("failed to load cart: user %d was deleted: %w", userID, domain.ErrNotFound)
	}

	key := "cart:" + strconv.Itoa(userID)
	v, err := r.do(ctx, key, func(ctx context.Context) (any, error) {
		if items, ok := r.cache.Cart(userID); ok {
			return items, nil
		}

		gen := r.cache.CartGeneration(userID)

		carts, err := r.remote.ListUserCarts(ctx, userID)
		if err != nil {
			return nil, err
		}

		items := domain.FlattenCarts(carts)
		if !r.cache.StoreCart(userID, items, gen) {
			r.logger.WithField("key", key).Debug("cart changed while loading, result dropped")
		}

		return items, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if items, ok := r.cache.Cart(userID); ok {
		return items, nil
	}

	if r.cache.IsDeleted(userID) {
		return nil, fmt.Errorf("failed to load cart: user %d was deleted: %w", userID, domain.ErrNotFound)
	}

	items, _ := v.([]domain.CartItem)

	return append([]domain.CartItem{}, items...), nil
}

// StageUser replaces a cached user without notifying the list.
func (r *CachedRepository) StageUser(user *domain.User) error {
	if err := r.cache.PutUser(user); err != nil {
		return fmt.Errorf("failed to stage user: %w", err)
	}

	return nil
}

// UpdateUser replaces a cached user and records it as the last update.
func (r *CachedRepository) UpdateUser(user *domain.User) error {
	if err := r.cache.UpdateUser(user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// DeleteUser removes a user and the user's cart.
func (r *CachedRepository) DeleteUser(id int) error {
	if err := r.cache.DeleteUser(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// AddCartItem adds an item to a loaded cart.
func (r *CachedRepository) AddCartItem(userID int, item domain.CartItem) error {
	if err := r.cache.AddCartItem(userID, item); err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return nil
}

// UpdateCartItem replaces an item of a loaded cart.
func (r *CachedRepository) UpdateCartItem(userID int, item domain.CartItem) error {
	if err := r.cache.UpdateCartItem(userID, item); err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	return nil
}

// RemoveCartItem removes an item from a loaded cart.
func (r *CachedRepository) RemoveCartItem(userID, itemID int) error {
	if err := r.cache.RemoveCartItem(userID, itemID); err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	return nil
}

// ConsumeLastUpdatedUser returns the last updated user and clears the slot.
func (r *CachedRepository) ConsumeLastUpdatedUser() (*domain.User, bool) {
	return r.cache.ConsumeLastUpdatedUser()
}

// Invalidate drops all cached state.
func (r *CachedRepository) Invalidate() {
	r.cache.Invalidate()
}

func (r *CachedRepository) do(
	ctx context.Context,
	key string,
	fn func(ctx context.Context) (any, error),
) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (any, error) {
		return fn(detached)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", key, ctx.Err())
	case res := <-ch:
		if res.Shared {
			r.logger.WithField("key", key).Debug("joined in-flight request")
		}

		return res.Val, res.Err
	}
}

func snapshot(users []*domain.User) []*domain.User {
	out := make([]*domain.User, 0, len(users))
	for _, user := range users {
		if user != nil {
			out = append(out, user.Clone())
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})

	return out
}
