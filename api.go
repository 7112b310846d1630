// Package handler is the serverless entry point: it serves the same router
// as cmd/api, built once per instance.
package handler

import (
	"context"
	"net/http"
	"sync"

	"cennik/internal/app"
	"cennik/internal/config"
	"cennik/internal/logger"
)

var (
	initOnce sync.Once
	router   http.Handler
	initErr  error
)

func initRouter() {
	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}
	log := logger.New(cfg.LogLevel, cfg.Env)

	// The scheduled change checker is not started here; instances are
	// short-lived and rely on the apply endpoint instead.
	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to initialize: %v", err)
		initErr = err
		return
	}
	router = a.Server.GetRouter()
}

func Handler(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(initRouter)
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Service unavailable"}`))
		return
	}
	router.ServeHTTP(w, r)
}
