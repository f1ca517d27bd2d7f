package ascii

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	"github.com/denchenko/cartdash/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	noneString       = "None"
	boxWidth         = 100
	boxTitlePadding  = 5
	boxBottomPadding = 2
	cellMaxLen       = 32
	moneyPlaces      = 2
)

//go:embed *.tmpl
var templateFS embed.FS

// UsersData holds data for the user list template.
type UsersData struct {
	Users     []*domain.User
	Timestamp time.Time
}

// UserData holds data for the user detail template.
type UserData struct {
	*domain.UserWithCart
	CartData  CartData
	Timestamp time.Time
}

// CartData holds data for the cart template.
type CartData struct {
	UserID    int
	Items     []domain.CartItem
	Summary   domain.CartSummary
	Timestamp time.Time
}

// ProductsData holds data for the product list template.
type ProductsData struct {
	Products  []domain.Product
	Timestamp time.Time
}

// ProfileData holds data for the profile template.
type ProfileData struct {
	User      *domain.User
	Identity  domain.Identity
	Timestamp time.Time
}

// Formatter renders domain values as console text.
type Formatter struct {
	tmpl *template.Template
	now  func() time.Time
}

// NewFormatter parses the embedded templates.
func NewFormatter() (*Formatter, error) {
	tmpl, err := template.New("ascii").Funcs(templateFuncs()).ParseFS(templateFS, "*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Formatter{tmpl: tmpl, now: time.Now}, nil
}

// FormatUsers renders the user list.
func (f *Formatter) FormatUsers(users []*domain.User) (string, error) {
	return f.execute("users.tmpl", UsersData{Users: users, Timestamp: f.now()})
}

// FormatUser renders a user together with the user's cart.
func (f *Formatter) FormatUser(uwc *domain.UserWithCart) (string, error) {
	now := f.now()

	return f.execute("user.tmpl", UserData{
		UserWithCart: uwc,
		CartData:     CartData{UserID: uwc.User.ID, Items: uwc.Cart, Summary: uwc.Summary, Timestamp: now},
		Timestamp:    now,
	})
}

// FormatCart renders the line items of one cart.
func (f *Formatter) FormatCart(userID int, items []domain.CartItem) (string, error) {
	return f.execute("cart.tmpl", CartData{
		UserID:    userID,
		Items:     items,
		Summary:   domain.Summarize(items),
		Timestamp: f.now(),
	})
}

// FormatProducts renders the product catalogue with discounted prices.
func (f *Formatter) FormatProducts(products []domain.Product) (string, error) {
	return f.execute("products.tmpl", ProductsData{Products: products, Timestamp: f.now()})
}

// FormatProfile renders the signed in user's profile.
func (f *Formatter) FormatProfile(identity domain.Identity, user *domain.User) (string, error) {
	return f.execute("profile.tmpl", ProfileData{User: user, Identity: identity, Timestamp: f.now()})
}

func (f *Formatter) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := f.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatTime":      formatTime,
		"formatBoxTitle":  formatBoxTitle,
		"formatBoxBottom": formatBoxBottom,
		"bold": func(text string) string {
			return "\033[1m" + text + "\033[0m"
		},
		"cell":     truncate,
		"money":    money,
		"orNone":   orNone,
		"repeat":   strings.Repeat,
		"discount": func(item domain.CartItem) decimal.Decimal { return item.DiscountedTotal() },
	}
}

func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

func formatBoxTitle(title string) string {
	titleMax := boxWidth - boxTitlePadding

	cleanTitle := strings.ReplaceAll(title, "\033[1m", "")
	cleanTitle = strings.ReplaceAll(cleanTitle, "\033[0m", "")

	n := utf8.RuneCountInString(cleanTitle)
	if n > titleMax {
		n = titleMax
	}
	dashCount := max(boxWidth-n-boxTitlePadding, 0)

	return "┌─ " + title + " " + strings.Repeat("─", dashCount) + "┐"
}

func formatBoxBottom() string {
	return "└" + strings.Repeat("─", boxWidth-boxBottomPadding) + "┘"
}

func truncate(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if utf8.RuneCountInString(text) > cellMaxLen {
		runes := []rune(text)

		return string(runes[:cellMaxLen-3]) + "..."
	}

	return text
}

func money(d decimal.Decimal) string {
	return d.StringFixed(moneyPlaces)
}

func orNone(s string) string {
	if s == "" {
		return noneString
	}

	return s
}
