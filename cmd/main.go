/*
Package main is the entry point for the BisonChat server.

It loads configuration, initializes the global logging system, starts the TCP
chat listener and the admin HTTP server, and handles operating system
interrupt signals (SIGINT, SIGTERM) for a clean shutdown: stop accepting,
close every live session, then exit.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bisonchat/internal/app/chat"
	"bisonchat/internal/configs"
	"bisonchat/internal/handler"
	"bisonchat/internal/pkg/logx"
	"bisonchat/internal/server"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("chat_port", cfg.ChatPort).
		Int("admin_port", cfg.AdminPort).
		Str("default_room", cfg.DefaultRoom).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session manager owns the registry and every live session.
	manager := chat.NewManager(cfg)

	// TCP chat transport
	chatServer := server.New(cfg, manager)
	go func() {
		if err := chatServer.ListenAndServe(); err != nil {
			logx.Fatal(err, "Chat server failed")
		}
	}()

	// Admin HTTP server (health, registry inspection, WebSocket transport)
	router := handler.Router(&handler.AppDeps{Manager: manager, Config: cfg})
	adminServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.AdminPort),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		logx.Info(fmt.Sprintf("Admin server starting on http://localhost%s", adminServer.Addr))
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Admin server failed to start")
		}
	}()

	// Wait for interrupt, then shut everything down with a timeout.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	chatServer.Shutdown()

	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Admin server forced to shutdown")
	}

	manager.Shutdown()

	logx.Info("Server gracefully stopped.")
}
