package roomhandler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"callrelay/internal/rooms"
)

// connCounter is the one thing the handler needs from the ws layer.
type connCounter interface {
	Len() int
}

type Handler struct {
	store *rooms.Store
	conns connCounter
}

func New(store *rooms.Store, conns connCounter) *Handler {
	return &Handler{store: store, conns: conns}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/healthz", h.health)
	r.GET("/rooms", h.list)
	r.GET("/rooms/:code", h.info)
}

// @Summary		Liveness probe
// @Description	Reports server liveness plus live room and connection counts.
// @Tags			Ops
// @Success		200	{object}	HealthResponse
// @Router			/healthz [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:      "ok",
		Rooms:       h.store.Len(),
		Connections: h.conns.Len(),
	})
}

// @Summary		List live rooms
// @Description	Returns a summary of every live room. Codes are the only identifiers exposed; negotiation payloads are never stored, so there is nothing else to show.
// @Tags			Rooms
// @Success		200	{array}	RoomSummary
// @Router			/rooms [get]
func (h *Handler) list(c *gin.Context) {
	now := time.Now()
	dtos := h.store.List()
	out := make([]RoomSummary, len(dtos))
	for i, dto := range dtos {
		out[i] = summarize(dto, now)
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Get one room
// @Description	Returns the full snapshot of a single live room, members included.
// @Tags			Rooms
// @Param			code	path		string	true	"Room code (case-insensitive)"	default(AB12)
// @Success		200	{object}	rooms.RoomDTO
// @Failure		404	{object}	ErrorResponse
// @Router			/rooms/{code} [get]
func (h *Handler) info(c *gin.Context) {
	dto, ok := h.store.Get(c.Param("code"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: rooms.ErrRoomNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, dto)
}

func summarize(dto rooms.RoomDTO, now time.Time) RoomSummary {
	return RoomSummary{
		Code:        dto.Code,
		State:       string(dto.State),
		MemberCount: len(dto.Members),
		CreatedAt:   dto.CreatedAt.Unix(),
		IdleSeconds: int64(now.Sub(dto.LastActivity).Seconds()),
	}
}
