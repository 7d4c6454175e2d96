package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"callrelay/internal/rooms"
	"callrelay/internal/services/call"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10 // must be < pongWait
	dispatchTimeout = 1900 * time.Millisecond
)

type WsServer struct {
	hub       *Hub
	router    *Router
	callSvc   call.ICallService
	readLimit int64
	upgrader  websocket.Upgrader
}

func NewWsServer(h *Hub, callSvc call.ICallService, readLimit int64) *WsServer {
	srv := &WsServer{
		hub:       h,
		router:    NewRouter(),
		callSvc:   callSvc,
		readLimit: readLimit,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // dev-only
		},
	}
	srv.registerHandlers() // ← all WS events configured here
	return srv
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.upgrade", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(s.readLimit)

	// ─────────────────── Connection accepted ────────────────────────
	conn := &clientConn{id: uuid.NewString(), rawConn: rawConn}
	s.hub.add(conn)
	zap.L().Info("ws.connected", zap.String("conn", conn.id))

	// Tell the client its ID so it can interpret "from" fields.
	_ = conn.writeJSON(outEnvelope{
		Event: call.EventConnected,
		Body:  call.ConnectedBody{ConnectionID: conn.id},
	})

	go s.reader(conn)
	go s.pinger(conn)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) registerHandlers() {
	// 🔹 membership ----------------------------------------------------------
	Register(s.router, "create-room",
		func(ctx context.Context, cc *ConnContext, req RoomRequest) (*Reply, error) {
			dto, err := s.callSvc.CreateRoom(cc.ConnID, req.Code)
			if err != nil {
				return nil, err
			}
			return &Reply{Event: call.EventRoomCreated, Body: call.RoomBody{Code: dto.Code}}, nil
		},
	)
	Register(s.router, "join-room",
		func(ctx context.Context, cc *ConnContext, req RoomRequest) (*Reply, error) {
			dto, err := s.callSvc.JoinRoom(cc.ConnID, req.Code)
			if err != nil {
				return nil, err
			}
			return &Reply{
				Event: call.EventRoomJoined,
				Body:  call.RoomBody{Code: dto.Code, Members: dto.Members},
			}, nil
		},
	)
	Register(s.router, "leave-call",
		func(ctx context.Context, cc *ConnContext, req LeaveRequest) (*Reply, error) {
			s.callSvc.Leave(cc.ConnID)
			return nil, nil
		},
	)

	// 🔹 negotiation relay ----------------------------------------------------
	Register(s.router, "offer",
		func(ctx context.Context, cc *ConnContext, req SignalRequest) (*Reply, error) {
			return nil, s.callSvc.RelayOffer(cc.ConnID, req.To, req.SDP)
		},
	)
	Register(s.router, "answer",
		func(ctx context.Context, cc *ConnContext, req SignalRequest) (*Reply, error) {
			return nil, s.callSvc.RelayAnswer(cc.ConnID, req.To, req.SDP)
		},
	)
	Register(s.router, "ice-candidate",
		func(ctx context.Context, cc *ConnContext, req SignalRequest) (*Reply, error) {
			return nil, s.callSvc.RelayCandidate(cc.ConnID, req.To, req.Candidate)
		},
	)

	// 🔹 advisory status ------------------------------------------------------
	Register(s.router, "set-mute",
		func(ctx context.Context, cc *ConnContext, req MuteRequest) (*Reply, error) {
			s.callSvc.SetMute(cc.ConnID, req.Muted)
			return nil, nil
		},
	)
	Register(s.router, "set-speaker",
		func(ctx context.Context, cc *ConnContext, req SpeakerRequest) (*Reply, error) {
			s.callSvc.SetSpeaker(cc.ConnID, req.SpeakerOff)
			return nil, nil
		},
	)
}

// reader is the per-connection session loop. It exits on the first
// read error (client close, ping timeout, protocol violation) and its
// deferred teardown is the same path an explicit leave-call takes, so
// disconnect and hangup are indistinguishable to the surviving peer.
func (s *WsServer) reader(conn *clientConn) {
	defer func() {
		s.hub.remove(conn.id)
		s.callSvc.Leave(conn.id)
		conn.close()
		zap.L().Info("ws.disconnected", zap.String("conn", conn.id))
	}()

	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	cc := &ConnContext{ConnID: conn.id}

	for {
		var env Envelope
		if err := conn.rawConn.ReadJSON(&env); err != nil {
			return // client closed or errored
		}

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		reply, err := s.router.dispatch(ctx, cc, env)
		cancel()

		// ---- error -> {"event":"error", "body":{kind,error}} --------
		if err != nil {
			_ = conn.writeJSON(outEnvelope{
				Event: call.EventError,
				Body:  call.ErrorBody{Kind: rooms.Kind(err), Error: err.Error()},
			})
			continue
		}

		// ---- success -> handler-chosen reply event, if any ----------
		if reply != nil {
			_ = conn.writeJSON(outEnvelope{Event: reply.Event, Body: reply.Body})
		}
	}
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.ping(); err != nil {
			conn.close() // unblocks the reader, which runs the teardown
			return
		}
	}
}
