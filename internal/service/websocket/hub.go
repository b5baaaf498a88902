package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"sceneguard/internal/config"
	"sceneguard/internal/logger"
	"sceneguard/internal/model"
)

// Message types sent to viewers.
const (
	TypeFrame   = "frame"
	TypePreview = "preview"
	TypeReport  = "report"
)

// Message is the JSON envelope broadcast to viewers. Image is base64 JPEG.
type Message struct {
	Type       string                    `json:"type"`
	Camera     string                    `json:"camera"`
	Image      []byte                    `json:"image,omitempty"`
	Detections []model.FilteredDetection `json:"detections,omitempty"`
	Report     *model.Report             `json:"report,omitempty"`
}

type subscription struct {
	conn   *websocket.Conn
	camera string
}

type envelope struct {
	payload []byte
	camera  string
}

// HubService fans messages out to connected viewers. A viewer subscribed to a
// camera only receives that camera's messages; an empty filter receives all.
type HubService struct {
	clients    map[*websocket.Conn]string
	broadcast  chan envelope
	register   chan subscription
	unregister chan *websocket.Conn
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *logger.Logger
}

func NewHubService(config *config.Config, logger *logger.Logger) *HubService {
	return &HubService{
		clients:    make(map[*websocket.Conn]string),
		broadcast:  make(chan envelope, 64),
		register:   make(chan subscription),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *HubService) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mutex.Lock()
			h.clients[sub.conn] = sub.camera
			count := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("Client connected. Total: %d", count)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			count := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("Client disconnected. Total: %d", count)

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client, camera := range h.clients {
				if camera != "" && camera != message.camera {
					continue
				}
				if err := client.WriteMessage(websocket.TextMessage, message.payload); err != nil {
					h.logger.Error("Error sending message: %v", err)
					delete(h.clients, client)
					client.Close()
				}
			}
			h.mutex.Unlock()

		case <-h.done:
			h.mutex.Lock()
			for client := range h.clients {
				client.Close()
				delete(h.clients, client)
			}
			h.mutex.Unlock()
			return
		}
	}
}

// Stop ends Run and closes every connection.
func (h *HubService) Stop() {
	close(h.done)
}

// Register subscribes a connection to camera, or to all cameras when empty.
func (h *HubService) Register(client *websocket.Conn, camera string) {
	select {
	case h.register <- subscription{conn: client, camera: camera}:
	case <-h.done:
	}
}

func (h *HubService) Unregister(client *websocket.Conn) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a raw payload for viewers of camera. A full queue drops the payload.
func (h *HubService) Broadcast(message []byte, camera string) {
	select {
	case h.broadcast <- envelope{payload: message, camera: camera}:
	default:
		h.logger.Warning("Broadcast queue full, dropping message for camera %s", camera)
	}
}

// Send encodes msg as JSON and broadcasts it.
func (h *HubService) Send(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to encode %s message: %v", msg.Type, err)
		return
	}
	h.Broadcast(payload, msg.Camera)
}

func (h *HubService) GetClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
