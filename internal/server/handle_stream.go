package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

const writeTimeout = 10 * time.Second

// handleViewStream pushes the same events as /api/events over a websocket,
// one JSON text frame per event. Client frames are ignored.
func handleViewStream(logger *slog.Logger, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		id := sessionID(r)
		ch := broker.Subscribe(id)
		defer broker.Unsubscribe(id, ch)

		ctx := conn.CloseRead(r.Context())

		write := func(data []byte) error {
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			defer cancel()
			return conn.Write(wctx, websocket.MessageText, data)
		}

		if err := write(currentView(r)); err != nil {
			logger.Debug("websocket write failed", "error", err)
			return
		}

		for {
			select {
			case <-ctx.Done():
				logger.Debug("websocket closed", "session", id)
				return
			case data := <-ch:
				if err := write(data); err != nil {
					logger.Debug("websocket write failed", "error", err)
					return
				}
			}
		}
	}
}
