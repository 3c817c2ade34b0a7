package http

import (
	"log"
	"net/http"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"

	"github.com/gorilla/websocket"
)

// WSHandler streams newly recorded test results to teacher dashboards.
type WSHandler struct {
	auth     *app.AuthService
	feed     *app.ResultFeed
	upgrader websocket.Upgrader
}

func NewWSHandler(auth *app.AuthService, feed *app.ResultFeed) *WSHandler {
	return &WSHandler{
		auth: auth,
		feed: feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and forwards result updates until the client
// disconnects. Browsers cannot set headers on websocket dials, so the bearer
// token arrives as a query parameter.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	caller, err := h.auth.Authenticate(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if caller.Role != domain.RoleTeacher {
		http.Error(w, "teacher credential required", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.feed.Subscribe()
	defer cancel()

	if err := conn.WriteJSON(outboundMessage[domain.User]{Type: "subscribed", Payload: caller}); err != nil {
		return
	}

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			// Inbound frames are discarded; the read loop only notices closes.
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case result, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage[domain.TestResult]{Type: "result", Payload: result}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-readerDone:
			return
		}
	}
}
