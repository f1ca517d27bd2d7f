package mocks

import (
	"context"

	"github.com/denchenko/cartdash/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of app.Repository.
type MockRepository struct {
	mock.Mock
}

// GetUsers mocks the GetUsers method.
func (m *MockRepository) GetUsers() []*domain.User {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).([]*domain.User)
}

// LoadUsers mocks the LoadUsers method.
func (m *MockRepository) LoadUsers(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*domain.User), args.Error(1)
}

// EnsureUsers mocks the EnsureUsers method.
func (m *MockRepository) EnsureUsers(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*domain.User), args.Error(1)
}

// GetUser mocks the GetUser method.
func (m *MockRepository) GetUser(ctx context.Context, id int) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

// CachedUser mocks the CachedUser method.
func (m *MockRepository) CachedUser(id int) (*domain.User, bool) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}

	return args.Get(0).(*domain.User), args.Bool(1)
}

// LoadCartForUser mocks the LoadCartForUser method.
func (m *MockRepository) LoadCartForUser(ctx context.Context, userID int) ([]domain.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.CartItem), args.Error(1)
}

// StageUser mocks the StageUser method.
func (m *MockRepository) StageUser(user *domain.User) error {
	args := m.Called(user)

	return args.Error(0)
}

// UpdateUser mocks the UpdateUser method.
func (m *MockRepository) UpdateUser(user *domain.User) error {
	args := m.Called(user)

	return args.Error(0)
}

// DeleteUser mocks the DeleteUser method.
func (m *MockRepository) DeleteUser(id int) error {
	args := m.Called(id)

	return args.Error(0)
}

// AddCartItem mocks the AddCartItem method.
func (m *MockRepository) AddCartItem(userID int, item domain.CartItem) error {
	args := m.Called(userID, item)

	return args.Error(0)
}

// UpdateCartItem mocks the UpdateCartItem method.
func (m *MockRepository) UpdateCartItem(userID int, item domain.CartItem) error {
	args := m.Called(userID, item)

	return args.Error(0)
}

// RemoveCartItem mocks the RemoveCartItem method.
func (m *MockRepository) RemoveCartItem(userID, itemID int) error {
	args := m.Called(userID, itemID)

	return args.Error(0)
}

// ConsumeLastUpdatedUser mocks the ConsumeLastUpdatedUser method.
func (m *MockRepository) ConsumeLastUpdatedUser() (*domain.User, bool) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}

	return args.Get(0).(*domain.User), args.Bool(1)
}

// Invalidate mocks the Invalidate method.
func (m *MockRepository) Invalidate() {
	m.Called()
}

// MockRemote is a mock implementation of app.Remote.
type MockRemote struct {
	mock.Mock
}

// ListUsers mocks the ListUsers method.
func (m *MockRemote) ListUsers(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*domain.User), args.Error(1)
}

// GetUser mocks the GetUser method.
func (m *MockRemote) GetUser(ctx context.Context, id int) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

// UpdateUser mocks the UpdateUser method.
func (m *MockRemote) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

// ListUserCarts mocks the ListUserCarts method.
func (m *MockRemote) ListUserCarts(ctx context.Context, userID int) ([]domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Cart), args.Error(1)
}

// SearchUsers mocks the SearchUsers method.
func (m *MockRemote) SearchUsers(ctx context.Context, query string) ([]*domain.User, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*domain.User), args.Error(1)
}

// ListProducts mocks the ListProducts method.
func (m *MockRemote) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Product), args.Error(1)
}
