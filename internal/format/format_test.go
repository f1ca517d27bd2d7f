package format

import (
	"bytes"
	"testing"

	"github.com/denchenko/cartdash/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	for _, name := range []string{Table, JSON, YAML} {
		require.NoError(t, Validate(name))
	}
	require.Error(t, Validate("xml"))
}

func TestEncode(t *testing.T) {
	item := domain.CartItem{ID: 5, Title: "Phone", Price: decimal.RequireFromString("9.5"), CartID: 9}

	tests := []struct {
		name        string
		format      string
		contains    []string
		expectError bool
	}{
		{
			name:     "json",
			format:   JSON,
			contains: []string{`"id": 5`, `"price": "9.5"`, `"cartId": 9`},
		},
		{
			name:     "yaml",
			format:   YAML,
			contains: []string{"id: 5", "title: Phone", `price: "9.5"`, "cartId: 9"},
		},
		{
			name:        "table",
			format:      Table,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			err := Encode(&buf, tt.format, item)
			if tt.expectError {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestEncode_UserHidesPasswordInYAML(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Encode(&buf, YAML, &domain.User{ID: 1, Password: "secret"}))
	assert.NotContains(t, buf.String(), "secret")
}
