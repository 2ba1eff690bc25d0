package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/playperu/flightgame/internal/httpkit"
	"github.com/playperu/flightgame/internal/view"
)

const pingInterval = 30 * time.Second

// currentView encodes the session's view as a view event, sent first on
// every new stream so the client starts in sync.
func currentView(r *http.Request) []byte {
	v := view.Render(controller(r).State())
	data, _ := json.Marshal(Event{Type: EventView, View: &v})
	return data
}

func handleEvents(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			httpkit.WriteError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		id := sessionID(r)
		ch := broker.Subscribe(id)
		defer broker.Unsubscribe(id, ch)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		writeEvent(w, currentView(r))
		flusher.Flush()

		ping := time.NewTicker(pingInterval)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-ch:
				writeEvent(w, data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}

// writeEvent frames data as a server-sent event named after its type.
func writeEvent(w http.ResponseWriter, data []byte) {
	var head struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(data, &head)
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", head.Type, data)
}
