package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/denchenko/cartdash/internal/core/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Remote defines the remote user and cart service (port).
type Remote interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetUser(ctx context.Context, id int) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	ListUserCarts(ctx context.Context, userID int) ([]domain.Cart, error)
	SearchUsers(ctx context.Context, query string) ([]*domain.User, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Repository defines the cache-backed user and cart store (port).
type Repository interface {
	GetUsers() []*domain.User
	LoadUsers(ctx context.Context) ([]*domain.User, error)
	EnsureUsers(ctx context.Context) ([]*domain.User, error)
	GetUser(ctx context.Context, id int) (*domain.User, error)
	CachedUser(id int) (*domain.User, bool)
	LoadCartForUser(ctx context.Context, userID int) ([]domain.CartItem, error)
	StageUser(user *domain.User) error
	UpdateUser(user *domain.User) error
	DeleteUser(id int) error
	AddCartItem(userID int, item domain.CartItem) error
	UpdateCartItem(userID int, item domain.CartItem) error
	RemoveCartItem(userID, itemID int) error
	ConsumeLastUpdatedUser() (*domain.User, bool)
	Invalidate()
}

// App represents the core application with all business logic.
type App struct {
	repo   Repository
	remote Remote
	logger logrus.FieldLogger
}

// NewApp creates a new application instance.
func NewApp(repo Repository, remote Remote, logger logrus.FieldLogger) *App {
	return &App{
		repo:   repo,
		remote: remote,
		logger: logger,
	}
}

// ListUsers returns the cached users, loading them on first use.
func (a *App) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := a.repo.EnsureUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// RefreshUsers reloads the whole user collection from the remote service.
func (a *App) RefreshUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := a.repo.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh users: %w", err)
	}

	return users, nil
}

// SearchUsers runs a free text search on the remote service.
func (a *App) SearchUsers(ctx context.Context, query string) ([]*domain.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty search query: %w", domain.ErrInvalidInput)
	}

	users, err := a.remote.SearchUsers(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return users, nil
}

// GetUser returns a single user, from the cache when possible.
func (a *App) GetUser(ctx context.Context, id int) (*domain.User, error) {
	user, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetUserWithCart loads a user and the user's cart together.
func (a *App) GetUserWithCart(ctx context.Context, id int) (*domain.UserWithCart, error) {
	g, ctx := errgroup.WithContext(ctx)

	var (
		user  *domain.User
		items []domain.CartItem
	)

	g.Go(func() error {
		var err error
		user, err = a.repo.GetUser(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error
		items, err = a.repo.LoadCartForUser(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load cart: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.UserWithCart{
		User:    user,
		Cart:    items,
		Summary: domain.Summarize(items),
	}, nil
}

// GetCart returns the user's cart, loading it on first use.
func (a *App) GetCart(ctx context.Context, userID int) ([]domain.CartItem, error) {
	items, err := a.repo.LoadCartForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return items, nil
}

// LoadCarts loads the carts of several users concurrently.
func (a *App) LoadCarts(ctx context.Context, userIDs []int) (map[int][]domain.CartItem, error) {
	g, ctx := errgroup.WithContext(ctx)
	carts := make(map[int][]domain.CartItem, len(userIDs))
	var mu sync.Mutex

	for _, userID := range userIDs {
		g.Go(func() error {
			items, err := a.repo.LoadCartForUser(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to load cart of user %d: %w", userID, err)
			}
			mu.Lock()
			carts[userID] = items
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load carts: %w", err)
	}

	return carts, nil
}

// SaveUser applies an edit locally, persists it remotely and confirms it.
// A failed remote call rolls the local copy back to what it was before.
func (a *App) SaveUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, fmt.Errorf("no user to save: %w", domain.ErrInvalidInput)
	}

	previous, cached := a.repo.CachedUser(user.ID)
	if cached {
		if err := a.repo.StageUser(user); err != nil {
			return nil, fmt.Errorf("failed to stage user: %w", err)
		}
	}

	confirmed, err := a.remote.UpdateUser(ctx, user)
	if err != nil {
		if cached {
			if rbErr := a.repo.StageUser(previous); rbErr != nil {
				a.logger.WithError(rbErr).WithField("user_id", user.ID).Warn("failed to roll back staged user")
			}
		}

		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	if err := a.repo.UpdateUser(confirmed); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("failed to confirm user: %w", err)
		}
		a.logger.WithField("user_id", confirmed.ID).Debug("saved user is not cached, skipping confirmation")
	}

	return confirmed, nil
}

// EditUser applies form field edits to a user and saves the result.
func (a *App) EditUser(ctx context.Context, id int, edits map[string]string) (*domain.User, error) {
	if len(edits) == 0 {
		return nil, fmt.Errorf("no fields to edit: %w", domain.ErrInvalidInput)
	}

	user, err := a.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	edited, err := domain.ApplyEdits(user, edits)
	if err != nil {
		return nil, fmt.Errorf("failed to apply edits: %w", err)
	}

	return a.SaveUser(ctx, edited)
}

// DeleteUser removes a user and the user's cart from the cache.
func (a *App) DeleteUser(_ context.Context, id int) error {
	if err := a.repo.DeleteUser(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// AddCartItem adds an item to a loaded cart.
func (a *App) AddCartItem(_ context.Context, userID int, item domain.CartItem) error {
	if err := a.repo.AddCartItem(userID, item); err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return nil
}

// UpdateCartItem replaces an item of a loaded cart.
func (a *App) UpdateCartItem(_ context.Context, userID int, item domain.CartItem) error {
	if err := a.repo.UpdateCartItem(userID, item); err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	return nil
}

// RemoveCartItem removes an item from a loaded cart.
func (a *App) RemoveCartItem(_ context.Context, userID, itemID int) error {
	if err := a.repo.RemoveCartItem(userID, itemID); err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	return nil
}

// ListProducts returns the product catalogue. It is not cached.
func (a *App) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := a.remote.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// ConsumeLastUpdatedUser returns the pending user update notification, once.
func (a *App) ConsumeLastUpdatedUser() (*domain.User, bool) {
	return a.repo.ConsumeLastUpdatedUser()
}

// Profile returns the full record behind a session identity.
func (a *App) Profile(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	if identity.Email == "" {
		return nil, fmt.Errorf("identity without email: %w", domain.ErrInvalidInput)
	}

	users, err := a.remote.SearchUsers(ctx, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("profile of %s: %w", identity.Email, domain.ErrNotFound)
	}

	for _, user := range users {
		if user.Email == identity.Email {
			return user, nil
		}
	}

	return users[0], nil
}
