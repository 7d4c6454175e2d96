package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"callrelay/internal/config"
	"callrelay/internal/http/http_server"
	"callrelay/internal/rooms"
	"callrelay/internal/services/call"
	"callrelay/internal/sweeper"
	"callrelay/internal/ws"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Room table: connection registry + per-code serialized store
	registry := rooms.NewRegistry()
	store := rooms.NewStore(registry, cfg.RoomMaxMembers, cfg.RoomCodeMaxLen)

	// 4. WebSockets hub (connection directory, outbound delivery)
	hub := ws.NewHub()

	// 5. Call service: membership ops + signal forwarding
	callService := call.NewCallService(store, hub)

	// 6. Background: idle-room sweeper
	sweeper.Run(ctx, store, hub, cfg.RoomTTL, cfg.SweepInterval)

	// 7. Initialize the WS server
	wsSrv := ws.NewWsServer(hub, callService, cfg.WsReadLimit)

	// 8. HTTP + WS server
	httpServer := http_server.NewHttpServer(cfg.HttpServerPort, wsSrv, hub, store)

	// 9. Graceful shutdown: drain in-flight requests on SIGINT/SIGTERM
	go func() {
		<-ctx.Done()
		Log.Info("Shutting down")
		if err := httpServer.Dispose(); err != nil {
			Log.Error("Failed to shut down HTTP server", zap.Error(err))
		}
	}()

	if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
	Log.Info("Server exited gracefully")
}
