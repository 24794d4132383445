package handlers

import (
	"fleet-route-service/internal/adapters/mapview"
	"fleet-route-service/internal/api/dto"
	"fleet-route-service/internal/realtime"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type MapHandler struct {
	Canvas *mapview.Canvas
	Hub    *realtime.Hub
}

func (h *MapHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewMapSnapshotResponse(h.Canvas.Snapshot()))
}

// Socket upgrades to WS, sends the current map, then streams every change.
func (h *MapHandler) Socket(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}

	id := uuid.NewString()
	h.Hub.Register(id, conn)
	_ = h.Hub.Notify(id, realtime.EventMapSnapshot, dto.NewMapSnapshotResponse(h.Canvas.Snapshot()))

	// Viewers are read-only; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.Hub.Unregister(id)
			return
		}
	}
}
