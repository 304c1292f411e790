package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dieptv1999/trustkeys-connector/internal/config"
	"github.com/dieptv1999/trustkeys-connector/internal/httputil"
	"github.com/dieptv1999/trustkeys-connector/internal/journal"
	"github.com/dieptv1999/trustkeys-connector/internal/relay"
)

// StreamEvents handles GET /api/events: an SSE stream of lifecycle
// notifications, open until the client disconnects.
func StreamEvents(hub *relay.SSEHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			httputil.Error(w, http.StatusInternalServerError, config.ErrorInvalidRequest, "streaming unsupported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		ch := hub.Subscribe()
		defer hub.Unsubscribe(ch)

		keepAlive := time.NewTicker(config.SSEKeepAliveInterval)
		defer keepAlive.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-keepAlive.C:
				fmt.Fprint(w, ": keep-alive\n\n")
				flusher.Flush()
			case event, open := <-ch:
				if !open {
					return
				}
				payload, err := json.Marshal(event)
				if err != nil {
					slog.Error("failed to marshal SSE event", "error", err)
					continue
				}
				fmt.Fprintf(w, "data: %s\n\n", payload)
				flusher.Flush()
			}
		}
	}
}

// EventHistory handles GET /api/events/history with page/page_size query
// parameters.
func EventHistory(store *journal.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		pageSize := queryInt(r, "page_size", config.JournalDefaultPageSize)
		if pageSize < 1 || pageSize > config.JournalMaxPageSize {
			pageSize = config.JournalDefaultPageSize
		}

		events, total, err := store.ListEvents(page, pageSize)
		if err != nil {
			slog.Error("failed to list journal events", "error", err)
			httputil.Error(w, http.StatusInternalServerError, config.ErrorDatabase, "failed to list events")
			return
		}
		if events == nil {
			events = []journal.Event{}
		}

		httputil.JSONList(w, events, page, pageSize, total)
	}
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
