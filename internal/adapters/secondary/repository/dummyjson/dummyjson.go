package dummyjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/denchenko/cartdash/internal/core/domain"
	"github.com/google/go-querystring/query"
	retryablehttp "github.com/hashicorp/go-retryablehttp"
)

// Repository implements the app.Remote interface for a dummyjson compatible service.
type Repository struct {
	client     *retryablehttp.Client
	baseURL    string
	usersLimit int
}

type listUsersOptions struct {
	Limit int `url:"limit"`
}

type searchUsersOptions struct {
	Query string `url:"q"`
	Limit int    `url:"limit"`
}

type usersResponse struct {
	Users []*domain.User `json:"users"`
	Total int            `json:"total"`
}

type listProductsOptions struct {
	Limit int `url:"limit"`
}

type productsResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

type cartsResponse struct {
	Carts []domain.Cart `json:"carts"`
}

// NewClient creates the retrying HTTP client used to reach the remote service.
// Exhausted retries hand back the last response instead of a generic error.
func NewClient(timeout time.Duration, retries int, logger retryablehttp.LeveledLogger) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = timeout
	client.RetryMax = retries
	client.Logger = logger
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return client
}

// NewRepository creates a new remote repository instance.
// usersLimit of zero asks the service for every user.
func NewRepository(client *retryablehttp.Client, baseURL string, usersLimit int) *Repository {
	return &Repository{
		client:     client,
		baseURL:    strings.TrimRight(baseURL, "/"),
		usersLimit: usersLimit,
	}
}

// ListUsers fetches the user collection.
func (r *Repository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var resp usersResponse
	if err := r.get(ctx, "/users", listUsersOptions{Limit: r.usersLimit}, &resp); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return nonNilUsers(resp.Users), nil
}

// GetUser fetches a single user by id.
func (r *Repository) GetUser(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	if err := r.get(ctx, "/users/"+strconv.Itoa(id), nil, &user); err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}

	return &user, nil
}

// UpdateUser sends the full record and returns the version the service confirmed.
func (r *Repository) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	body, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user: %w", err)
	}

	var updated domain.User
	if err := r.do(ctx, http.MethodPut, "/users/"+strconv.Itoa(user.ID), "", body, &updated); err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", user.ID, err)
	}

	return &updated, nil
}

// ListUserCarts fetches every cart that belongs to a user.
func (r *Repository) ListUserCarts(ctx context.Context, userID int) ([]domain.Cart, error) {
	var resp cartsResponse
	if err := r.get(ctx, "/carts/user/"+strconv.Itoa(userID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list carts of user %d: %w", userID, err)
	}

	if resp.Carts == nil {
		return []domain.Cart{}, nil
	}

	return resp.Carts, nil
}

// SearchUsers runs the service's free text user search.
func (r *Repository) SearchUsers(ctx context.Context, q string) ([]*domain.User, error) {
	var resp usersResponse
	if err := r.get(ctx, "/users/search", searchUsersOptions{Query: q, Limit: r.usersLimit}, &resp); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return nonNilUsers(resp.Users), nil
}

// ListProducts fetches the whole product catalogue.
func (r *Repository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var resp productsResponse
	if err := r.get(ctx, "/products", listProductsOptions{}, &resp); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if resp.Products == nil {
		return []domain.Product{}, nil
	}

	return resp.Products, nil
}

func (r *Repository) get(ctx context.Context, path string, opts any, out any) error {
	var rawQuery string
	if opts != nil {
		values, err := query.Values(opts)
		if err != nil {
			return fmt.Errorf("failed to encode query: %w", err)
		}
		rawQuery = values.Encode()
	}

	return r.do(ctx, http.MethodGet, path, rawQuery, nil, out)
}

func (r *Repository) do(ctx context.Context, method, path, rawQuery string, body []byte, out any) error {
	target := r.baseURL + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	var reqBody any
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}

		return fmt.Errorf("%s %s: %w: %w", method, path, domain.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, domain.ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, domain.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%s %s: %w: unexpected status %d", method, path, domain.ErrNetwork, resp.StatusCode)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, domain.ErrParse, err)
	}

	return nil
}

func nonNilUsers(users []*domain.User) []*domain.User {
	if users == nil {
		return []*domain.User{}
	}

	return users
}
