package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Gaelhpalmer/diarized-stt/logger"
)

// ConnectedEvent is sent when a client successfully connects.
type ConnectedEvent struct {
	Type     string `json:"type"`
	ClientID string `json:"client_id"`
}

// Handler returns a gin handler streaming hub events to each client.
func Handler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ServeSSE(hub, c.Writer, c.Request, uuid.NewString())
	}
}

// ServeSSE handles an SSE connection for a specific client.
func ServeSSE(hub *Hub, w http.ResponseWriter, r *http.Request, clientID string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.Error("[SSE] Streaming not supported", map[string]interface{}{
			"client_id": clientID,
		})
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// SSE connections are long-lived; the server's WriteTimeout must not
	// terminate them.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		logger.Warn("[SSE] Could not disable write deadline", map[string]interface{}{
			"client_id": clientID,
			"error":     err.Error(),
		})
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := NewClient(clientID)
	hub.Register(client)
	defer func() {
		hub.Unregister(client)
	}()

	connected, _ := json.Marshal(ConnectedEvent{Type: EventTypeConnected, ClientID: clientID})
	_, _ = fmt.Fprintf(w, "event: %s\n", EventTypeConnected)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", connected)
	flusher.Flush()

	// Keep-alive interval should be less than proxy timeouts (typically 60s).
	keepAlive := time.NewTicker(30 * time.Second)
	defer keepAlive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-client.Events():
			if !ok {
				return
			}
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()

		case <-keepAlive.C:
			// SSE spec: lines starting with ':' are comments
			_, _ = fmt.Fprintf(w, ": keepalive %d\n\n", time.Now().Unix())
			flusher.Flush()
		}
	}
}
