package roomhandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"callrelay/internal/rooms"
)

type staticConns int

func (s staticConns) Len() int { return int(s) }

func newTestEngine(t *testing.T) (*gin.Engine, *rooms.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := rooms.NewStore(rooms.NewRegistry(), 2, 16)
	engine := gin.New()
	New(store, staticConns(3)).Register(engine)
	return engine, store
}

func doGet(t *testing.T, engine *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	engine.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	engine, store := newTestEngine(t)
	_, err := store.Create("AB12", "conn-a")
	require.NoError(t, err)

	w := doGet(t, engine, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "ok", body.Status)
	require.Equal(t, 1, body.Rooms)
	require.Equal(t, 3, body.Connections)
}

func TestListRooms(t *testing.T) {
	engine, store := newTestEngine(t)
	_, err := store.Create("CD34", "conn-c")
	require.NoError(t, err)
	_, err = store.Create("AB12", "conn-a")
	require.NoError(t, err)

	w := doGet(t, engine, "/rooms")
	require.Equal(t, http.StatusOK, w.Code)

	var body []RoomSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 2)
	require.Equal(t, "AB12", body[0].Code) // ordered by code
	require.Equal(t, "CD34", body[1].Code)
	require.Equal(t, 1, body[0].MemberCount)
	require.Equal(t, string(rooms.StateCreated), body[0].State)
}

func TestRoomInfo(t *testing.T) {
	engine, store := newTestEngine(t)
	_, err := store.Create("AB12", "conn-a")
	require.NoError(t, err)

	w := doGet(t, engine, "/rooms/ab12") // case-insensitive
	require.Equal(t, http.StatusOK, w.Code)

	var dto rooms.RoomDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	require.Equal(t, "AB12", dto.Code)
	require.Len(t, dto.Members, 1)

	w = doGet(t, engine, "/rooms/ZZZZ")
	require.Equal(t, http.StatusNotFound, w.Code)
}
