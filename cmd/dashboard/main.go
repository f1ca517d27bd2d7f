package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/denchenko/cartdash/internal/adapters"
	httpadapter "github.com/denchenko/cartdash/internal/adapters/primary/http"
	"github.com/denchenko/cartdash/internal/config"
	"github.com/denchenko/cartdash/internal/core"
	"github.com/denchenko/cartdash/internal/log"
	do "github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	injector := do.New(
		config.Package,
		log.Package,
		core.Package,
		adapters.SecondaryPackage,
		adapters.PrimaryPackage,
	)

	logger, err := do.Invoke[*logrus.Logger](injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	server, err := do.Invoke[*httpadapter.Server](injector)
	if err != nil {
		logger.WithError(err).Fatal("failed to create HTTP server")
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("server forced to shutdown")
	}
}
