package call

import (
	"encoding/json"

	"go.uber.org/zap"

	"callrelay/internal/rooms"
)

// Sink delivers one event to one connection. The websocket hub is the
// production implementation; tests substitute a recorder.
type Sink interface {
	Send(connID, event string, body any)
}

// ICallService is the application surface behind the websocket event
// router: room membership on one side, pure signal forwarding on the
// other. Membership errors come back to the caller so the session can
// answer with error{kind}; fan-out to peers is fire-and-forget.
type ICallService interface {
	CreateRoom(connID, code string) (rooms.RoomDTO, error)
	JoinRoom(connID, code string) (rooms.RoomDTO, error)
	RelayOffer(connID, to string, sdp json.RawMessage) error
	RelayAnswer(connID, to string, sdp json.RawMessage) error
	RelayCandidate(connID, to string, candidate json.RawMessage) error
	SetMute(connID string, muted bool)
	SetSpeaker(connID string, speakerOff bool)
	Leave(connID string)
}

type callService struct {
	store *rooms.Store
	sink  Sink
}

func NewCallService(store *rooms.Store, sink Sink) ICallService {
	return &callService{store: store, sink: sink}
}

func (svc *callService) CreateRoom(connID, code string) (rooms.RoomDTO, error) {
	dto, err := svc.store.Create(code, connID)
	if err != nil {
		return rooms.RoomDTO{}, err
	}
	zap.L().Info("call.room_created",
		zap.String("code", dto.Code),
		zap.String("conn", connID),
	)
	return dto, nil
}

func (svc *callService) JoinRoom(connID, code string) (rooms.RoomDTO, error) {
	dto, err := svc.store.Join(code, connID)
	if err != nil {
		return rooms.RoomDTO{}, err
	}
	zap.L().Info("call.room_joined",
		zap.String("code", dto.Code),
		zap.String("conn", connID),
		zap.Int("members", len(dto.Members)),
	)
	for _, m := range dto.Members {
		if m.ConnectionID == connID {
			continue
		}
		svc.sink.Send(m.ConnectionID, EventUserJoined, UserJoinedBody{ConnectionID: connID})
	}
	return dto, nil
}

func (svc *callService) RelayOffer(connID, to string, sdp json.RawMessage) error {
	return svc.relay(connID, to, EventOffer, SignalBody{From: connID, SDP: sdp}, false)
}

// RelayAnswer additionally marks the room Active: a relayed answer
// means the two parties have exchanged a full description pair.
func (svc *callService) RelayAnswer(connID, to string, sdp json.RawMessage) error {
	return svc.relay(connID, to, EventAnswer, SignalBody{From: connID, SDP: sdp}, true)
}

func (svc *callService) RelayCandidate(connID, to string, candidate json.RawMessage) error {
	return svc.relay(connID, to, EventCandidate, SignalBody{From: connID, Candidate: candidate}, false)
}

// relay forwards body to every other member of the sender's room, or
// to the single addressed peer when "to" is set. Payloads go out
// verbatim; only room membership is checked.
func (svc *callService) relay(connID, to, event string, body SignalBody, markActive bool) error {
	info, err := svc.store.Peers(connID)
	if err != nil {
		return err
	}
	recipients := info.Peers
	if to != "" {
		var addressed []string
		for _, id := range info.Peers {
			if id == to {
				addressed = append(addressed, id)
			}
		}
		if len(addressed) == 0 {
			return rooms.ErrNotInRoom
		}
		recipients = addressed
	}
	// Active means an answer actually reached a peer, not that one was
	// merely sent into an empty room.
	if markActive && len(recipients) > 0 {
		svc.store.MarkActive(info.Code)
	}
	for _, id := range recipients {
		svc.sink.Send(id, event, body)
	}
	return nil
}

// SetMute records the advisory flag and tells the peers. A status
// event from an unmapped connection is logged and dropped, never
// surfaced as an error.
func (svc *callService) SetMute(connID string, muted bool) {
	info, err := svc.store.SetMute(connID, muted)
	if err != nil {
		zap.L().Warn("call.set_mute_ignored", zap.String("conn", connID), zap.Error(err))
		return
	}
	for _, id := range info.Peers {
		svc.sink.Send(id, EventPeerMute, PeerMuteBody{From: connID, Muted: muted})
	}
}

func (svc *callService) SetSpeaker(connID string, speakerOff bool) {
	info, err := svc.store.SetSpeaker(connID, speakerOff)
	if err != nil {
		zap.L().Warn("call.set_speaker_ignored", zap.String("conn", connID), zap.Error(err))
		return
	}
	for _, id := range info.Peers {
		svc.sink.Send(id, EventPeerSpeaker, PeerSpeakerBody{From: connID, SpeakerOff: speakerOff})
	}
}

// Leave tears the connection out of its room, if any. Explicit
// leave-call and transport disconnect both land here, so survivors see
// identical notifications either way. Calling it for an unmapped
// connection is a no-op.
func (svc *callService) Leave(connID string) {
	res, ok := svc.store.Leave(connID)
	if !ok {
		return
	}
	zap.L().Info("call.left",
		zap.String("code", res.Code),
		zap.String("conn", connID),
		zap.Bool("deleted", res.Deleted),
	)
	for _, m := range res.Remaining {
		svc.sink.Send(m.ConnectionID, EventPeerLeft, PeerLeftBody{ConnectionID: connID})
		if len(res.Remaining) < 2 {
			svc.sink.Send(m.ConnectionID, EventCallEnded, CallEndedBody{Code: res.Code})
		}
	}
}
