package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/denchenko/cartdash/internal/adapters/secondary/repository/mocks"
	"github.com/denchenko/cartdash/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestApp() (*App, *mocks.MockRepository, *mocks.MockRemote, *logtest.Hook) {
	repo := &mocks.MockRepository{}
	remote := &mocks.MockRemote{}
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	return NewApp(repo, remote, logger), repo, remote, hook
}

func TestApp_ListUsers(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		setupMock func(*mocks.MockRepository)
		validate  func(*testing.T, []*domain.User, error)
	}{
		{
			name: "users loaded",
			setupMock: func(m *mocks.MockRepository) {
				m.On("EnsureUsers", ctx).Return([]*domain.User{{ID: 1}, {ID: 2}}, nil)
			},
			validate: func(t *testing.T, users []*domain.User, err error) {
				require.NoError(t, err)
				assert.Len(t, users, 2)
			},
		},
		{
			name: "network failure",
			setupMock: func(m *mocks.MockRepository) {
				m.On("EnsureUsers", ctx).Return(nil, fmt.Errorf("dial: %w", domain.ErrNetwork))
			},
			validate: func(t *testing.T, users []*domain.User, err error) {
				require.ErrorIs(t, err, domain.ErrNetwork)
				assert.Nil(t, users)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, repo, _, _ := newTestApp()
			tt.setupMock(repo)

			users, err := app.ListUsers(ctx)

			tt.validate(t, users, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestApp_RefreshUsers(t *testing.T) {
	ctx := context.Background()
	app, repo, _, _ := newTestApp()

	repo.On("LoadUsers", ctx).Return([]*domain.User{{ID: 1}}, nil)

	users, err := app.RefreshUsers(ctx)

	require.NoError(t, err)
	assert.Len(t, users, 1)
	repo.AssertExpectations(t)
}

func TestApp_SearchUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("empty query", func(t *testing.T) {
		app, _, remote, _ := newTestApp()

		_, err := app.SearchUsers(ctx, "   ")

		require.ErrorIs(t, err, domain.ErrInvalidInput)
		remote.AssertNotCalled(t, "SearchUsers", mock.Anything, mock.Anything)
	})

	t.Run("query is trimmed", func(t *testing.T) {
		app, _, remote, _ := newTestApp()
		remote.On("SearchUsers", ctx, "emily").Return([]*domain.User{{ID: 1}}, nil)

		users, err := app.SearchUsers(ctx, " emily ")

		require.NoError(t, err)
		assert.Len(t, users, 1)
		remote.AssertExpectations(t)
	})
}

func TestApp_GetUserWithCart(t *testing.T) {
	ctx := context.Background()

	t.Run("user and cart", func(t *testing.T) {
		app, repo, _, _ := newTestApp()
		repo.On("GetUser", mock.Anything, 1).Return(&domain.User{ID: 1, FirstName: "Emily"}, nil)
		repo.On("LoadCartForUser", mock.Anything, 1).Return([]domain.CartItem{
			{ID: 5, Quantity: 2, Total: decimal.NewFromInt(100), DiscountPercentage: decimal.NewFromInt(20), CartID: 9},
		}, nil)

		view, err := app.GetUserWithCart(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, "Emily", view.User.FirstName)
		require.Len(t, view.Cart, 1)
		assert.Equal(t, 9, view.Cart[0].CartID)
		assert.Equal(t, 2, view.Summary.Quantity)
		assert.Equal(t, "80.00", view.Summary.DiscountedTotal.StringFixed(2))
		repo.AssertExpectations(t)
	})

	t.Run("user not found", func(t *testing.T) {
		app, repo, _, _ := newTestApp()
		repo.On("GetUser", mock.Anything, 7).Return(nil, fmt.Errorf("user 7: %w", domain.ErrNotFound))
		repo.On("LoadCartForUser", mock.Anything, 7).Return([]domain.CartItem{}, nil).Maybe()

		view, err := app.GetUserWithCart(ctx, 7)

		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, view)
	})
}

func TestApp_LoadCarts(t *testing.T) {
	ctx := context.Background()

	t.Run("all carts", func(t *testing.T) {
		app, repo, _, _ := newTestApp()
		repo.On("LoadCartForUser", mock.Anything, 1).Return([]domain.CartItem{{ID: 5}}, nil)
		repo.On("LoadCartForUser", mock.Anything, 2).Return([]domain.CartItem{}, nil)

		carts, err := app.LoadCarts(ctx, []int{1, 2})

		require.NoError(t, err)
		assert.Len(t, carts, 2)
		assert.Len(t, carts[1], 1)
		assert.Empty(t, carts[2])
	})

	t.Run("one failure fails all", func(t *testing.T) {
		app, repo, _, _ := newTestApp()
		repo.On("LoadCartForUser", mock.Anything, 1).Return([]domain.CartItem{{ID: 5}}, nil).Maybe()
		repo.On("LoadCartForUser", mock.Anything, 2).Return(nil, fmt.Errorf("bad json: %w", domain.ErrParse))

		carts, err := app.LoadCarts(ctx, []int{1, 2})

		require.ErrorIs(t, err, domain.ErrParse)
		assert.Nil(t, carts)
	})
}

func TestApp_SaveUser(t *testing.T) {
	ctx := context.Background()
	previous := &domain.User{ID: 1, FirstName: "Emily"}
	edited := &domain.User{ID: 1, FirstName: "Emma"}
	confirmed := &domain.User{ID: 1, FirstName: "Emma", LastName: "Johnson"}

	tests := []struct {
		name      string
		setupMock func(*mocks.MockRepository, *mocks.MockRemote)
		validate  func(*testing.T, *domain.User, error, *logtest.Hook)
	}{
		{
			name: "cached user confirmed",
			setupMock: func(repo *mocks.MockRepository, remote *mocks.MockRemote) {
				repo.On("CachedUser", 1).Return(previous, true)
				repo.On("StageUser", edited).Return(nil).Once()
				remote.On("UpdateUser", ctx, edited).Return(confirmed, nil)
				repo.On("UpdateUser", confirmed).Return(nil)
			},
			validate: func(t *testing.T, user *domain.User, err error, _ *logtest.Hook) {
				require.NoError(t, err)
				assert.Equal(t, confirmed, user)
			},
		},
		{
			name: "remote failure rolls back",
			setupMock: func(repo *mocks.MockRepository, remote *mocks.MockRemote) {
				repo.On("CachedUser", 1).Return(previous, true)
				repo.On("StageUser", edited).Return(nil).Once()
				remote.On("UpdateUser", ctx, edited).Return(nil, fmt.Errorf("timeout: %w", domain.ErrNetwork))
				repo.On("StageUser", previous).Return(nil).Once()
			},
			validate: func(t *testing.T, user *domain.User, err error, _ *logtest.Hook) {
				require.ErrorIs(t, err, domain.ErrNetwork)
				assert.Nil(t, user)
			},
		},
		{
			name: "rollback failure is logged",
			setupMock: func(repo *mocks.MockRepository, remote *mocks.MockRemote) {
				repo.On("CachedUser", 1).Return(previous, true)
				repo.On("StageUser", edited).Return(nil).Once()
				remote.On("UpdateUser", ctx, edited).Return(nil, fmt.Errorf("timeout: %w", domain.ErrNetwork))
				repo.On("StageUser", previous).Return(fmt.Errorf("user 1: %w", domain.ErrNotFound)).Once()
			},
			validate: func(t *testing.T, _ *domain.User, err error, hook *logtest.Hook) {
				require.ErrorIs(t, err, domain.ErrNetwork)
				require.NotNil(t, hook.LastEntry())
				assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
			},
		},
		{
			name: "uncached user is saved remotely only",
			setupMock: func(repo *mocks.MockRepository, remote *mocks.MockRemote) {
				repo.On("CachedUser", 1).Return(nil, false)
				remote.On("UpdateUser", ctx, edited).Return(confirmed, nil)
				repo.On("UpdateUser", confirmed).Return(fmt.Errorf("user 1: %w", domain.ErrNotFound))
			},
			validate: func(t *testing.T, user *domain.User, err error, _ *logtest.Hook) {
				require.NoError(t, err)
				assert.Equal(t, confirmed, user)
			},
		},
		{
			name: "staging failure stops the save",
			setupMock: func(repo *mocks.MockRepository, _ *mocks.MockRemote) {
				repo.On("CachedUser", 1).Return(previous, true)
				repo.On("StageUser", edited).Return(errors.New("boom"))
			},
			validate: func(t *testing.T, user *domain.User, err error, _ *logtest.Hook) {
				require.Error(t, err)
				assert.Nil(t, user)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, repo, remote, hook := newTestApp()
			tt.setupMock(repo, remote)

			user, err := app.SaveUser(ctx, edited)

			tt.validate(t, user, err, hook)
			repo.AssertExpectations(t)
			remote.AssertExpectations(t)
		})
	}
}

func TestApp_SaveUser_Nil(t *testing.T) {
	app, _, _, _ := newTestApp()

	_, err := app.SaveUser(context.Background(), nil)

	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApp_EditUser(t *testing.T) {
	ctx := context.Background()

	t.Run("edits applied and saved", func(t *testing.T) {
		app, repo, remote, _ := newTestApp()
		current := &domain.User{ID: 1, FirstName: "Emily", Address: domain.Address{City: "Phoenix"}}
		edited := &domain.User{ID: 1, FirstName: "Emily", Address: domain.Address{City: "Denver"}}

		repo.On("GetUser", ctx, 1).Return(current, nil)
		repo.On("CachedUser", 1).Return(current, true)
		repo.On("StageUser", edited).Return(nil)
		remote.On("UpdateUser", ctx, edited).Return(edited, nil)
		repo.On("UpdateUser", edited).Return(nil)

		user, err := app.EditUser(ctx, 1, map[string]string{"address.city": "Denver"})

		require.NoError(t, err)
		assert.Equal(t, "Denver", user.Address.City)
		repo.AssertExpectations(t)
	})

	t.Run("no edits", func(t *testing.T) {
		app, _, _, _ := newTestApp()

		_, err := app.EditUser(ctx, 1, nil)

		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("bad field", func(t *testing.T) {
		app, repo, remote, _ := newTestApp()
		repo.On("GetUser", ctx, 1).Return(&domain.User{ID: 1}, nil)

		_, err := app.EditUser(ctx, 1, map[string]string{"age": "old"})

		require.ErrorIs(t, err, domain.ErrInvalidInput)
		remote.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
	})
}

func TestApp_CartItems(t *testing.T) {
	ctx := context.Background()
	item := domain.CartItem{ID: 5, Title: "Phone"}

	app, repo, _, _ := newTestApp()
	repo.On("AddCartItem", 1, item).Return(nil)
	repo.On("UpdateCartItem", 2, item).Return(fmt.Errorf("cart of user 2 is not loaded: %w", domain.ErrInvalidState))
	repo.On("RemoveCartItem", 1, 99).Return(fmt.Errorf("cart item 99: %w", domain.ErrNotFound))
	repo.On("DeleteUser", 3).Return(nil)
	repo.On("DeleteUser", 4).Return(fmt.Errorf("user 4: %w", domain.ErrNotFound))

	require.NoError(t, app.AddCartItem(ctx, 1, item))
	require.ErrorIs(t, app.UpdateCartItem(ctx, 2, item), domain.ErrInvalidState)
	require.ErrorIs(t, app.RemoveCartItem(ctx, 1, 99), domain.ErrNotFound)
	require.NoError(t, app.DeleteUser(ctx, 3))
	require.ErrorIs(t, app.DeleteUser(ctx, 4), domain.ErrNotFound)

	repo.AssertExpectations(t)
}

func TestApp_ListProducts(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*mocks.MockRemote)
		expectErr error
		expectLen int
	}{
		{
			name: "catalogue",
			setupMock: func(m *mocks.MockRemote) {
				m.On("ListProducts", mock.Anything).Return([]domain.Product{
					{ID: 1, Title: "Mascara", Price: decimal.RequireFromString("9.99")},
					{ID: 2, Title: "Eyeshadow", Price: decimal.RequireFromString("19.99")},
				}, nil)
			},
			expectLen: 2,
		},
		{
			name: "remote failure",
			setupMock: func(m *mocks.MockRemote) {
				m.On("ListProducts", mock.Anything).Return(nil, domain.ErrNetwork)
			},
			expectErr: domain.ErrNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _, remote, _ := newTestApp()
			tt.setupMock(remote)

			products, err := app.ListProducts(context.Background())
			if tt.expectErr != nil {
				require.ErrorIs(t, err, tt.expectErr)

				return
			}

			require.NoError(t, err)
			assert.Len(t, products, tt.expectLen)
		})
	}
}

func TestApp_ConsumeLastUpdatedUser(t *testing.T) {
	app, repo, _, _ := newTestApp()
	repo.On("ConsumeLastUpdatedUser").Return(&domain.User{ID: 1}, true).Once()
	repo.On("ConsumeLastUpdatedUser").Return(nil, false).Once()

	user, ok := app.ConsumeLastUpdatedUser()
	require.True(t, ok)
	assert.Equal(t, 1, user.ID)

	user, ok = app.ConsumeLastUpdatedUser()
	assert.False(t, ok)
	assert.Nil(t, user)
}

func TestApp_Profile(t *testing.T) {
	ctx := context.Background()
	identity := domain.Identity{Email: "a@x.com"}

	tests := []struct {
		name      string
		identity  domain.Identity
		setupMock func(*mocks.MockRemote)
		expectID  int
		expectErr error
	}{
		{
			name:     "exact email match preferred",
			identity: identity,
			setupMock: func(m *mocks.MockRemote) {
				m.On("SearchUsers", ctx, "a@x.com").Return([]*domain.User{
					{ID: 3, Email: "aa@x.com"},
					{ID: 1, Email: "a@x.com"},
				}, nil)
			},
			expectID: 1,
		},
		{
			name:     "first hit otherwise",
			identity: identity,
			setupMock: func(m *mocks.MockRemote) {
				m.On("SearchUsers", ctx, "a@x.com").Return([]*domain.User{{ID: 3, Email: "A@x.com"}}, nil)
			},
			expectID: 3,
		},
		{
			name:     "no hit",
			identity: identity,
			setupMock: func(m *mocks.MockRemote) {
				m.On("SearchUsers", ctx, "a@x.com").Return([]*domain.User{}, nil)
			},
			expectErr: domain.ErrNotFound,
		},
		{
			name:      "no email",
			identity:  domain.Identity{},
			setupMock: func(*mocks.MockRemote) {},
			expectErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _, remote, _ := newTestApp()
			tt.setupMock(remote)

			user, err := app.Profile(ctx, tt.identity)

			if tt.expectErr != nil {
				require.ErrorIs(t, err, tt.expectErr)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectID, user.ID)
		})
	}
}
