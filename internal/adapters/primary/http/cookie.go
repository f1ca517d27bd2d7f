package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/denchenko/cartdash/internal/core/auth"
	"github.com/gin-gonic/gin"
)

// cookieStore keeps the session in the "user" cookie of one request.
type cookieStore struct {
	c *gin.Context
}

func newCookieStore(c *gin.Context) *cookieStore {
	return &cookieStore{c: c}
}

func (s *cookieStore) Read(_ context.Context) (string, bool, error) {
	cookie, err := s.c.Request.Cookie(auth.SessionName)
	if errors.Is(err, http.ErrNoCookie) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return cookie.Value, true, nil
}

func (s *cookieStore) Write(_ context.Context, value string) error {
	http.SetCookie(s.c.Writer, &http.Cookie{
		Name:     auth.SessionName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.c.Request.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func (s *cookieStore) Clear(_ context.Context) error {
	http.SetCookie(s.c.Writer, &http.Cookie{
		Name:     auth.SessionName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.c.Request.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}
