package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// User is a user record of the remote service.
type User struct {
	ID         int     `json:"id" yaml:"id"`
	FirstName  string  `json:"firstName" yaml:"firstName"`
	LastName   string  `json:"lastName" yaml:"lastName"`
	MaidenName string  `json:"maidenName" yaml:"maidenName"`
	Age        int     `json:"age" yaml:"age"`
	Gender     string  `json:"gender" yaml:"gender"`
	Email      string  `json:"email" yaml:"email"`
	Phone      string  `json:"phone" yaml:"phone"`
	Username   string  `json:"username" yaml:"username"`
	Password   string  `json:"password" yaml:"-"`
	BirthDate  string  `json:"birthDate" yaml:"birthDate"`
	Image      string  `json:"image" yaml:"image"`
	BloodGroup string  `json:"bloodGroup" yaml:"bloodGroup"`
	Height     float64 `json:"height" yaml:"height"`
	Weight     float64 `json:"weight" yaml:"weight"`
	EyeColor   string  `json:"eyeColor" yaml:"eyeColor"`
	Hair       Hair    `json:"hair" yaml:"hair"`
	IP         string  `json:"ip" yaml:"ip,omitempty"`
	Address    Address `json:"address" yaml:"address"`
	MacAddress string  `json:"macAddress" yaml:"macAddress,omitempty"`
	University string  `json:"university" yaml:"university,omitempty"`
	Bank       Bank    `json:"bank" yaml:"bank"`
	Company    Company `json:"company" yaml:"company"`
	EIN        string  `json:"ein" yaml:"ein,omitempty"`
	SSN        string  `json:"ssn" yaml:"ssn,omitempty"`
	UserAgent  string  `json:"userAgent" yaml:"userAgent,omitempty"`
	Crypto     Crypto  `json:"crypto" yaml:"crypto"`
	Role       string  `json:"role" yaml:"role,omitempty"`
}

// Hair describes a user's hair.
type Hair struct {
	Color string `json:"color" yaml:"color"`
	Type  string `json:"type" yaml:"type"`
}

// Coordinates is a geographic position.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Address is a postal address with its coordinates.
type Address struct {
	Address     string      `json:"address" yaml:"address"`
	City        string      `json:"city" yaml:"city"`
	State       string      `json:"state" yaml:"state"`
	StateCode   string      `json:"stateCode" yaml:"stateCode"`
	PostalCode  string      `json:"postalCode" yaml:"postalCode"`
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`
	Country     string      `json:"country" yaml:"country"`
}

// Bank holds a user's card details.
type Bank struct {
	CardExpire string `json:"cardExpire" yaml:"cardExpire"`
	CardNumber string `json:"cardNumber" yaml:"cardNumber"`
	CardType   string `json:"cardType" yaml:"cardType"`
	Currency   string `json:"currency" yaml:"currency"`
	IBAN       string `json:"iban" yaml:"iban"`
}

// Company is a user's employer.
type Company struct {
	Department string  `json:"department" yaml:"department"`
	Name       string  `json:"name" yaml:"name"`
	Title      string  `json:"title" yaml:"title"`
	Address    Address `json:"address" yaml:"address"`
}

// Crypto holds a user's wallet details.
type Crypto struct {
	Coin    string `json:"coin" yaml:"coin"`
	Wallet  string `json:"wallet" yaml:"wallet"`
	Network string `json:"network" yaml:"network"`
}

// FullName returns the first and last name joined by a space.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}

	return u.FirstName + " " + u.LastName
}

// Clone returns an independent copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u

	return &c
}

// Identity is the reduced record kept in the session store.
type Identity struct {
	Email     string `json:"email" yaml:"email"`
	AvatarURL string `json:"avatarUrl" yaml:"avatarUrl"`
}

// IdentityOf reduces a user to the fields persisted in a session.
func IdentityOf(u *User) Identity {
	return Identity{
		Email:     u.Email,
		AvatarURL: u.Image,
	}
}

// CartItem is one product line of a user's cart, flattened out of its parent cart.
type CartItem struct {
	ID                 int             `json:"id" yaml:"id"`
	Title              string          `json:"title" yaml:"title"`
	Price              decimal.Decimal `json:"price" yaml:"price"`
	Quantity           int             `json:"quantity" yaml:"quantity"`
	Total              decimal.Decimal `json:"total" yaml:"total"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage" yaml:"discountPercentage"`
	Thumbnail          string          `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	CartID             int             `json:"cartId,omitempty" yaml:"cartId,omitempty"`
}

// DiscountedTotal is always derived from Total and DiscountPercentage.
func (c CartItem) DiscountedTotal() decimal.Decimal {
	return discounted(c.Total, c.DiscountPercentage)
}

// Product is a catalogue entry of the remote service.
type Product struct {
	ID                 int             `json:"id" yaml:"id"`
	Title              string          `json:"title" yaml:"title"`
	Category           string          `json:"category" yaml:"category"`
	Brand              string          `json:"brand,omitempty" yaml:"brand,omitempty"`
	Price              decimal.Decimal `json:"price" yaml:"price"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage" yaml:"discountPercentage"`
	Stock              int             `json:"stock" yaml:"stock"`
	Thumbnail          string          `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
}

// DiscountedPrice is derived from Price and DiscountPercentage.
func (p Product) DiscountedPrice() decimal.Decimal {
	return discounted(p.Price, p.DiscountPercentage)
}

// discounted returns amount - amount*pct/100.
func discounted(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Sub(amount.Mul(pct).Div(hundred))
}

// Cart is the grouping returned by the remote service.
type Cart struct {
	ID       int        `json:"id"`
	UserID   int        `json:"userId"`
	Products []CartItem `json:"products"`
}

// FlattenCarts turns nested carts into a single line item sequence, tagging
// each item with the id of the cart it came from. Server order is kept.
func FlattenCarts(carts []Cart) []CartItem {
	items := make([]CartItem, 0)
	for _, cart := range carts {
		for _, product := range cart.Products {
			product.CartID = cart.ID
			items = append(items, product)
		}
	}

	return items
}

// CartSummary aggregates the totals of a cart.
type CartSummary struct {
	Items           int             `json:"items" yaml:"items"`
	Quantity        int             `json:"quantity" yaml:"quantity"`
	Total           decimal.Decimal `json:"total" yaml:"total"`
	DiscountedTotal decimal.Decimal `json:"discountedTotal" yaml:"discountedTotal"`
}

// Summarize computes the totals of the given items.
func Summarize(items []CartItem) CartSummary {
	summary := CartSummary{
		Items:           len(items),
		Total:           decimal.Zero,
		DiscountedTotal: decimal.Zero,
	}
	for _, item := range items {
		summary.Quantity += item.Quantity
		summary.Total = summary.Total.Add(item.Total)
		summary.DiscountedTotal = summary.DiscountedTotal.Add(item.DiscountedTotal())
	}

	return summary
}

// UserWithCart is what the edit screen works with.
type UserWithCart struct {
	User    *User       `json:"user" yaml:"user"`
	Cart    []CartItem  `json:"cart" yaml:"cart"`
	Summary CartSummary `json:"summary" yaml:"summary"`
}
