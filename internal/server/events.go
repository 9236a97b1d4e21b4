package server

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/junxiaopang/promptvault/internal/event"
)

// feedBuffer bounds the per-client event queue. Slow clients drop events
// rather than stalling the bus.
const feedBuffer = 64

// eventFeed streams bus events to websocket clients as JSON.
type eventFeed struct {
	bus    *event.Bus
	logger *zap.Logger
}

func newEventFeed(bus *event.Bus, logger *zap.Logger) *eventFeed {
	return &eventFeed{bus: bus, logger: logger}
}

func (f *eventFeed) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		f.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "feed closed")

	ch := make(chan event.Event, feedBuffer)
	unsubscribe := f.bus.SubscribeAll(func(_ context.Context, e event.Event) {
		select {
		case ch <- e:
		default:
			// Client is not keeping up. Drop the event.
		}
	})
	defer unsubscribe()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case e := <-ch:
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := wsjson.Write(writeCtx, conn, e)
			cancel()
			if err != nil {
				f.logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		}
	}
}
