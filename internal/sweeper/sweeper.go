package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"callrelay/internal/rooms"
	"callrelay/internal/services/call"
)

// Run starts the idle-room sweep in the background and returns. Every
// interval it reclaims rooms whose lastActivity is older than ttl and
// tells the evicted members why they were kicked. Eviction rides the
// same per-shard serialization as explicit leave/join, so it can never
// race one; it is a backstop for connections the transport layer could
// not flag as dead, not the primary cleanup path.
func Run(ctx context.Context, store *rooms.Store, sink call.Sink, ttl, interval time.Duration) {
	tk := time.NewTicker(interval)
	go func() {
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				sweepOnce(store, sink, ttl)
			}
		}
	}()
}

func sweepOnce(store *rooms.Store, sink call.Sink, ttl time.Duration) {
	evicted := store.ExpireIdle(ttl)
	for _, ev := range evicted {
		for _, connID := range ev.Members {
			sink.Send(connID, call.EventRoomTimeout, call.RoomTimeoutBody{Code: ev.Code})
		}
	}
	if len(evicted) > 0 {
		zap.L().Info("sweeper.swept", zap.Int("rooms", len(evicted)))
	}
}
