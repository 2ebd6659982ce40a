package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/mgearon/tag-arena-backend/internal/config"
	"github.com/mgearon/tag-arena-backend/internal/coord"
	"github.com/mgearon/tag-arena-backend/internal/httpapi"
)

func main() {
	cfg := config.Load()

	logger := zap.Must(zap.NewProduction())
	defer logger.Sync()

	ctx := context.Background()
	co := coord.New(ctx, coord.Options{Logger: logger})

	// Build the router *with* the coordinator injected
	handler := httpapi.SetupRoutes(co, logger, cfg.StaticDir)

	addr := ":" + cfg.Port
	logger.Info("server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
