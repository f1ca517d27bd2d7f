package http

import (
	"net/http"
	"time"

	"github.com/denchenko/cartdash/internal/core/auth"
	"github.com/denchenko/cartdash/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
	identityKey     = "identity"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
		})
		if len(c.Errors) > 0 {
			entry.WithField("errors", c.Errors.String()).Warn("request failed")

			return
		}
		entry.Debug("request handled")
	}
}

// requireSession rejects requests without a valid session cookie and
// stores the identity for the handlers.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := s.requestGate(c).Session(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})

			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func (s *Server) requestGate(c *gin.Context) *auth.Gate {
	return s.gate.WithStore(newCookieStore(c))
}

func identityFrom(c *gin.Context) domain.Identity {
	identity, _ := c.MustGet(identityKey).(domain.Identity)

	return identity
}
