package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/denchenko/cartdash/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type cartResponse struct {
	UserID  int                `json:"userId"`
	Items   []cartItemResponse `json:"items"`
	Summary domain.CartSummary `json:"summary"`
}

// cartItemResponse adds the derived discounted total to a line item.
type cartItemResponse struct {
	domain.CartItem
	DiscountedTotal decimal.Decimal `json:"discountedTotal"`
}

type productResponse struct {
	domain.Product
	DiscountedPrice decimal.Decimal `json:"discountedPrice"`
}

func newCartResponse(userID int, items []domain.CartItem) cartResponse {
	resp := cartResponse{
		UserID:  userID,
		Items:   make([]cartItemResponse, 0, len(items)),
		Summary: domain.Summarize(items),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, cartItemResponse{CartItem: item, DiscountedTotal: item.DiscountedTotal()})
	}

	return resp
}

func (s *Server) handleSignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": domain.AuthFailedMessage})

		return
	}

	result := s.requestGate(c).SignIn(c.Request.Context(), req.Email, req.Password)
	if !result.OK {
		c.JSON(http.StatusUnauthorized, result)

		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleSignOut(c *gin.Context) {
	if err := s.requestGate(c).SignOut(c.Request.Context()); err != nil {
		s.writeError(c, err)

		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleSession(c *gin.Context) {
	identity, ok := s.requestGate(c).Session(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})

		return
	}

	c.JSON(http.StatusOK, identity)
}

func (s *Server) handleProfile(c *gin.Context) {
	user, err := s.app.Profile(c.Request.Context(), identityFrom(c))
	if err != nil {
		s.writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, user)
}

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.app.ListUsers(c.Request.Context())
	if err != nil {
		s.writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, users)
}

func (s *Server) handleRefreshUsers(c *gin.Context) {
	users, err := s.app.RefreshUsers(c.Request.Context())
	if err != nil {
		s.writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, users)
}

func (s *Server) handleSearchUsers(c *gin.Context) {
	users, err := s.app.SearchUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		s.writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, users)
}

func (s *Server) handleLastUpdated(c *gin.Context) {
	user, ok := s.app.ConsumeLastUpdatedUser()
	if !ok {
		c.Status(http.StatusNoContent)

		return
	}

	c.JSON(http.StatusOK, user)
}

func (s *Server) handleListProducts(c *gin.Context) {
	products, err := s.app.ListProducts(c.Request.Context())
	if err != nil {
		s.writeError(c, err)

		return
	}

	resp := make([]productResponse, 0, len(products))
	for _, product := range products {
		resp = append(resp, productResponse{Product: product, DiscountedPrice: product.DiscountedPrice()})
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetUser(c *gin.Context) {
	id, ok := s.pathID(c, "id")
	if !ok {
		return
	}

	user, err := s.app.GetUser(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, user)
}

func (s *Server) handleSaveUser(c *gin.Context) {
	id, ok := s.pathID(c, "id")
	if !ok {
		return
	}

	var user domain.User
	if err := c.ShouldBindJSON(&user); err != nil {
		s.writeError(c, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err))

		return
	}
	if user.ID == 0 {
		user.ID = id
	}
	if user.ID != id {
		s.writeError(c, fmt.Errorf("body id %d does not match path id %d: %w", user.ID, id, domain.ErrInvalidInput))

		return
	}

	saved, err := s.app.SaveUser(c.Request.Context(), &user)
	if err != nil {
		s.writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, saved)
}

func (s *Server) handleEditUser(c *gin.Context) {
	id, ok := s.pathID(c, "id")
	if !ok {
		return
	}

	var edits map[string]string
	if err := c.ShouldBindJSON(&edits); err != nil {
		s.writeError(c, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err))

		return
	}

	saved, err := s.app.EditUser(c.Request.Context(), id, edits)
	if err != nil {
		s.writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, saved)
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	id, ok := s.pathID(c, "id")
	if !ok {
		return
	}

	if err := s.app.DeleteUser(c.Request.Context(), id); err != nil {
		s.writeError(c, err)

		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetCart(c *gin.Context) {
	id, ok := s.pathID(c, "id")
	if !ok {
		return
	}

	items, err := s.app.GetCart(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, newCartResponse(id, items))
}

func (s *Server) handleAddCartItem(c *gin.Context) {
	id, ok := s.pathID(c, "id")
	if !ok {
		return
	}

	var item domain.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		s.writeError(c, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err))

		return
	}

	if err := s.app.AddCartItem(c.Request.Context(), id, item); err != nil {
		s.writeError(c, err)

		return
	}

	c.JSON(http.StatusCreated, item)
}

func (s *Server) handleUpdateCartItem(c *gin.Context) {
	id, ok := s.pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := s.pathID(c, "itemId")
	if !ok {
		return
	}

	var item domain.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		s.writeError(c, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err))

		return
	}
	item.ID = itemID

	if err := s.app.UpdateCartItem(c.Request.Context(), id, item); err != nil {
		s.writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, item)
}

func (s *Server) handleRemoveCartItem(c *gin.Context) {
	id, ok := s.pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := s.pathID(c, "itemId")
	if !ok {
		return
	}

	if err := s.app.RemoveCartItem(c.Request.Context(), id, itemID); err != nil {
		s.writeError(c, err)

		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		s.writeError(c, fmt.Errorf("invalid %s %q: %w", name, c.Param(name), domain.ErrInvalidInput))

		return 0, false
	}

	return id, true
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func (s *Server) writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrAuthFailure):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNetwork), errors.Is(err, domain.ErrParse):
		status = http.StatusBadGateway
	}

	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
