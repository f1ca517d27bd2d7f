package session

import (
	"net/url"
	"testing"
	"time"

	"github.com/denchenko/cartdash/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIdentity = domain.Identity{
	Email:     "emily.johnson@x.dummyjson.com",
	AvatarURL: "https://dummyjson.com/icon/emilys/128",
}

func TestJSONCodec(t *testing.T) {
	codec := NewJSONCodec()

	value, err := codec.Encode(testIdentity)
	require.NoError(t, err)
	assert.NotContains(t, value, ";")
	assert.NotContains(t, value, `"`)

	raw, err := url.QueryUnescape(value)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"emily.johnson@x.dummyjson.com","avatarUrl":"https://dummyjson.com/icon/emilys/128"}`, raw)

	decoded, err := codec.Decode(value)
	require.NoError(t, err)
	assert.Equal(t, testIdentity, decoded)
}

func TestJSONCodec_Malformed(t *testing.T) {
	codec := NewJSONCodec()

	for _, value := range []string{"%zz", "%7B%22email%22", "not-json"} {
		_, err := codec.Decode(value)
		require.ErrorIs(t, err, domain.ErrParse, value)
	}
}

func TestJWTCodec(t *testing.T) {
	codec, err := NewJWTCodec("s3cret", time.Hour)
	require.NoError(t, err)

	token, err := codec.Encode(testIdentity)
	require.NoError(t, err)

	decoded, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, testIdentity, decoded)
}

func TestJWTCodec_Rejects(t *testing.T) {
	codec, err := NewJWTCodec("s3cret", time.Hour)
	require.NoError(t, err)

	other, err := NewJWTCodec("other", time.Hour)
	require.NoError(t, err)
	foreign, err := other.Encode(testIdentity)
	require.NoError(t, err)

	expiring, err := NewJWTCodec("s3cret", time.Minute)
	require.NoError(t, err)
	expiring.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := expiring.Encode(testIdentity)
	require.NoError(t, err)

	tests := []struct {
		name  string
		value string
	}{
		{name: "garbage", value: "abc"},
		{name: "wrong secret", value: foreign},
		{name: "expired", value: expired},
		{name: "unsigned", value: "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJlbWFpbCI6ImFAeC5jb20ifQ."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode(tt.value)
			require.ErrorIs(t, err, domain.ErrParse)
		})
	}
}

func TestNewJWTCodec_EmptySecret(t *testing.T) {
	_, err := NewJWTCodec("", 0)
	require.Error(t, err)
}
