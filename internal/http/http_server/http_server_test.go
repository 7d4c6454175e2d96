package http_server

import (
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"callrelay/internal/rooms"
	"callrelay/internal/services/call"
	"callrelay/internal/ws"
)

// freePort grabs an ephemeral port and releases it for the server
// under test.
func freePort(t *testing.T) uint16 {
	t.Helper()
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return uint16(port)
}

func TestDisposeStopsServeCleanly(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := rooms.NewStore(rooms.NewRegistry(), 2, 16)
	hub := ws.NewHub()
	wsSrv := ws.NewWsServer(hub, call.NewCallService(store, hub), 32768)

	port := freePort(t)
	srv := NewHttpServer(port, wsSrv, hub, store)

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	// wait until the server answers, so we shut down a live listener
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(baseURL + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, srv.Dispose())

	select {
	case err := <-done:
		require.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Dispose")
	}

	// the listener is really gone
	_, err := http.Get(baseURL + "/healthz")
	require.Error(t, err)
}
