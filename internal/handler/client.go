package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"sceneguard/internal/logger"
	"sceneguard/internal/service"
)

// Upgrader upgrades HTTP connections to WebSocket; CheckOrigin allows all origins.
var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ViewWebsocketHandler registers a viewer in the HubService. The optional
// "camera" query parameter limits the stream to one camera.
func ViewWebsocketHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}

		camera := r.URL.Query().Get("camera")
		manager.GetWebsocketService().Register(connection, camera)
		defer manager.GetWebsocketService().Unregister(connection)

		logger.Info("Viewer connected (camera filter: %q)", camera)

		for {
			_, _, err := connection.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Info("Viewer disconnected normally")
				} else {
					logger.Error("Viewer disconnected with error: %v", err)
				}
				break
			}
		}
	}
}
