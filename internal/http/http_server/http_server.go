package http_server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abrar71/swaggerfilesv2" // swagger embed files

	"callrelay/internal/http/roomhandler"
	"callrelay/internal/rooms"
	"callrelay/internal/ws"
)

type httpServer struct {
	listenPort uint16
	srv        *http.Server
	ln         net.Listener
}

// NewHttpServer builds the full gin router up front; Start only binds
// the listener and serves, so Dispose may run from another goroutine at
// any point after construction.
func NewHttpServer(listenPort uint16, wsSrv *ws.WsServer, hub *ws.Hub, store *rooms.Store) *httpServer {
	routerEngine := gin.New()

	// Swagger UI and API specs
	routerEngine.StaticFS("/swagger-apis", http.FS(swaggerfilesv2.FS))
	routerEngine.Static("/api-specs", "api_specs")

	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))

	// websocket endpoint
	routerEngine.GET("/ws", wsSrv.Handle)

	// REST API
	rh := roomhandler.New(store, hub)
	rh.Register(routerEngine)

	return &httpServer{
		listenPort: listenPort,
		srv:        &http.Server{Handler: routerEngine},
	}
}

// Start blocks serving until the listener fails or Dispose shuts the
// server down; the latter surfaces as http.ErrServerClosed.
func (h *httpServer) Start() error {
	var err error
	listenAddr := fmt.Sprintf(":%d", h.listenPort)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	return h.srv.Serve(h.ln)
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in-flight requests to finish. The timeout is
// rooted in a fresh context: by the time Dispose runs the process
// signal context is already canceled.
func (h *httpServer) Dispose() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err // e.g. active conns didn't finish in time
	}

	if ctx.Err() == context.DeadlineExceeded {
		zap.L().Error("http_dispose", zap.Error(errors.New("shutdown timed out")))
		log.Println("shutdown timeout (10 s)")
	}

	return nil
}
