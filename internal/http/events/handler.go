// Package events streams bus notifications to clients as server-sent events.
package events

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/envelope/internal/event"
	"github.com/MrJamesThe3rd/envelope/internal/http/auth"
	"github.com/MrJamesThe3rd/envelope/internal/http/response"
)

type Subscriber interface {
	Subscribe(buffer int) (<-chan event.Event, func())
}

type Handler struct {
	bus       Subscriber
	buffer    int
	keepAlive time.Duration
}

func NewHandler(bus Subscriber, buffer int, keepAlive time.Duration) *Handler {
	return &Handler{bus: bus, buffer: buffer, keepAlive: keepAlive}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.stream)
}

// stream writes every event owned by the caller until the client goes away
// or the bus closes. Events without an owner are not sent.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.Error(w, r, fmt.Errorf("streaming unsupported by %T", w))
		return
	}

	userID := auth.UserID(r.Context())

	events, cancel := h.bus.Subscribe(h.buffer)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}

			flusher.Flush()
		case e, ok := <-events:
			if !ok {
				return
			}

			if owner, ok := e.OwnerID(); !ok || owner != userID {
				continue
			}

			body, err := event.Encode(e)
			if err != nil {
				slog.Error("failed to encode event", "event", e.Name, "error", err)
				continue
			}

			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Name, body); err != nil {
				return
			}

			flusher.Flush()
		}
	}
}
