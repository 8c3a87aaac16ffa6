package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/fbscore/fbscore/live"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// В продакшене здесь должна быть проверка Origin,
		// чтобы разрешать подключения только с доверенных доменов.
		return true
	},
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWs обрабатывает WebSocket запросы для конкретного матча.
// Клиент должен подключаться к /ws/matches/{matchID}
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	matchIDStr := chi.URLParam(r, "matchID")
	matchID, err := strconv.Atoi(matchIDStr)
	if err != nil || matchID < 1 {
		http.Error(w, "Invalid matchID", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection for match %s: %v", matchIDStr, err)
		// upgrader.Upgrade сам отправляет HTTP ошибку клиенту, так что здесь просто логируем.
		return
	}

	roomID := live.MatchRoom(matchID)

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: roomID,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	log.Printf("Client registered and pumps started for room %s.", roomID)
}
