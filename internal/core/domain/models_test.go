package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartItem_DiscountedTotal(t *testing.T) {
	tests := []struct {
		name     string
		total    string
		discount string
		expected string
	}{
		{name: "twenty percent", total: "100", discount: "20", expected: "80.00"},
		{name: "no discount", total: "59.99", discount: "0", expected: "59.99"},
		{name: "fractional discount", total: "200", discount: "12.5", expected: "175.00"},
		{name: "full discount", total: "10", discount: "100", expected: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := CartItem{
				Total:              decimal.RequireFromString(tt.total),
				DiscountPercentage: decimal.RequireFromString(tt.discount),
			}

			assert.Equal(t, tt.expected, item.DiscountedTotal().StringFixed(2))
		})
	}
}

func TestProduct_DiscountedPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount string
		expected string
	}{
		{name: "catalogue entry", price: "9.99", discount: "7.17", expected: "9.27"},
		{name: "no discount", price: "19.5", discount: "0", expected: "19.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := Product{
				Price:              decimal.RequireFromString(tt.price),
				DiscountPercentage: decimal.RequireFromString(tt.discount),
			}

			assert.Equal(t, tt.expected, product.DiscountedPrice().StringFixed(2))
		})
	}
}

func TestFlattenCarts(t *testing.T) {
	carts := []Cart{
		{ID: 9, Products: []CartItem{{ID: 5, Title: "Phone"}, {ID: 6, Title: "Case"}}},
		{ID: 12, Products: []CartItem{{ID: 7, Title: "Charger"}}},
	}

	items := FlattenCarts(carts)

	require.Len(t, items, 3)
	assert.Equal(t, 5, items[0].ID)
	assert.Equal(t, 9, items[0].CartID)
	assert.Equal(t, 6, items[1].ID)
	assert.Equal(t, 9, items[1].CartID)
	assert.Equal(t, 7, items[2].ID)
	assert.Equal(t, 12, items[2].CartID)
}

func TestFlattenCarts_Empty(t *testing.T) {
	items := FlattenCarts(nil)

	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSummarize(t *testing.T) {
	items := []CartItem{
		{Quantity: 2, Total: decimal.NewFromInt(100), DiscountPercentage: decimal.NewFromInt(20)},
		{Quantity: 1, Total: decimal.NewFromInt(50), DiscountPercentage: decimal.Zero},
	}

	summary := Summarize(items)

	assert.Equal(t, 2, summary.Items)
	assert.Equal(t, 3, summary.Quantity)
	assert.Equal(t, "150.00", summary.Total.StringFixed(2))
	assert.Equal(t, "130.00", summary.DiscountedTotal.StringFixed(2))
}

func TestUser_Clone(t *testing.T) {
	original := &User{ID: 1, FirstName: "Emily", Address: Address{City: "Phoenix"}}

	clone := original.Clone()
	clone.FirstName = "Changed"
	clone.Address.City = "Denver"

	assert.Equal(t, "Emily", original.FirstName)
	assert.Equal(t, "Phoenix", original.Address.City)
	assert.Nil(t, (*User)(nil).Clone())
}

func TestIdentityOf(t *testing.T) {
	user := &User{ID: 1, Email: "a@x.com", Image: "https://example.com/a.png", Password: "p"}

	identity := IdentityOf(user)

	assert.Equal(t, Identity{Email: "a@x.com", AvatarURL: "https://example.com/a.png"}, identity)
}

func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "Emily Johnson", (&User{FirstName: "Emily", LastName: "Johnson"}).FullName())
	assert.Equal(t, "Emily", (&User{FirstName: "Emily"}).FullName())
}
