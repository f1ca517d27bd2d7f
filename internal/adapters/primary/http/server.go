package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/denchenko/cartdash/internal/core/app"
	"github.com/denchenko/cartdash/internal/core/auth"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 30 * time.Second
	idleTimeout  = 120 * time.Second
)

// Server represents the dashboard HTTP server.
type Server struct {
	server *http.Server
	app    *app.App
	gate   *auth.Gate
	logger logrus.FieldLogger
}

// NewServer creates a new HTTP server.
func NewServer(addr string, appInstance *app.App, gate *auth.Gate, logger logrus.FieldLogger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), accessLog(logger))

	s := &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      engine,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		app:    appInstance,
		gate:   gate,
		logger: logger,
	}

	s.routes(engine)

	return s
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server. It returns nil once the server is shut down.
func (s *Server) Start() error {
	s.logger.WithField("address", s.server.Addr).Info("starting server")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

func (s *Server) routes(engine *gin.Engine) {
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/signin", s.handleSignIn)
	authGroup.POST("/signout", s.handleSignOut)
	authGroup.GET("/session", s.handleSession)

	guarded := api.Group("", s.requireSession())
	guarded.GET("/profile", s.handleProfile)
	guarded.GET("/products", s.handleListProducts)

	users := guarded.Group("/users")
	users.GET("", s.handleListUsers)
	users.POST("/refresh", s.handleRefreshUsers)
	users.GET("/search", s.handleSearchUsers)
	users.GET("/updated", s.handleLastUpdated)
	users.GET("/:id", s.handleGetUser)
	users.PUT("/:id", s.handleSaveUser)
	users.PATCH("/:id", s.handleEditUser)
	users.DELETE("/:id", s.handleDeleteUser)
	users.GET("/:id/cart", s.handleGetCart)
	users.POST("/:id/cart", s.handleAddCartItem)
	users.PUT("/:id/cart/:itemId", s.handleUpdateCartItem)
	users.DELETE("/:id/cart/:itemId", s.handleRemoveCartItem)
}
