package ws

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRouterDispatch(t *testing.T) {
	r := NewRouter()
	Register(r, "echo",
		func(ctx context.Context, cc *ConnContext, req RoomRequest) (*Reply, error) {
			return &Reply{Event: "echoed", Body: req.Code + ":" + cc.ConnID}, nil
		},
	)

	cc := &ConnContext{ConnID: "conn-a"}
	reply, err := r.dispatch(context.Background(), cc, Envelope{
		Event: "echo",
		Body:  json.RawMessage(`{"code":"AB12"}`),
	})
	require.NoError(t, err)
	require.Equal(t, "echoed", reply.Event)
	require.Equal(t, "AB12:conn-a", reply.Body)
}

func TestRouterUnknownEvent(t *testing.T) {
	r := NewRouter()
	_, err := r.dispatch(context.Background(), &ConnContext{}, Envelope{Event: "nope"})
	require.ErrorIs(t, err, errUnknownEvent)
}

func TestRouterMalformedBody(t *testing.T) {
	r := NewRouter()
	Register(r, "echo",
		func(ctx context.Context, cc *ConnContext, req RoomRequest) (*Reply, error) {
			return nil, nil
		},
	)
	_, err := r.dispatch(context.Background(), &ConnContext{}, Envelope{
		Event: "echo",
		Body:  json.RawMessage(`{"code":42}`),
	})
	require.Error(t, err)
}

func TestRegisterEmptyEventPanics(t *testing.T) {
	r := NewRouter()
	require.Panics(t, func() {
		Register(r, "", func(ctx context.Context, cc *ConnContext, req RoomRequest) (*Reply, error) {
			return nil, nil
		})
	})
}
