package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"ai-scribe-be/internal/pkg/logger"
	"ai-scribe-be/pkg/scribe/orchestrator"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "scribe_events"

// Hub fans generation events out to every websocket connection a clinician
// has open. Redis carries frames to other instances in a multi-node setup.
type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out, may be nil
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastProgress pushes one streamed increment to the clinician.
func (h *Hub) BroadcastProgress(userId string, activityId string, p orchestrator.Progress) {
	h.send(userId, map[string]interface{}{
		"type": "generation_progress",
		"data": map[string]interface{}{
			"activity_id": activityId,
			"segment":     p.Segment,
			"content":     p.Content,
		},
	})
}

// BroadcastComplete signals that the generation finished and was persisted.
func (h *Hub) BroadcastComplete(userId string, activityId string, finalResponse string) {
	h.send(userId, map[string]interface{}{
		"type": "generation_complete",
		"data": map[string]interface{}{
			"activity_id":    activityId,
			"final_response": finalResponse,
		},
	})
}

// BroadcastError signals a failed generation.
func (h *Hub) BroadcastError(userId string, activityId string, message string) {
	h.send(userId, map[string]interface{}{
		"type": "generation_error",
		"data": map[string]interface{}{
			"activity_id": activityId,
			"message":     message,
		},
	})
}

func (h *Hub) send(userIdStr string, frame map[string]interface{}) {
	userID, err := uuid.Parse(userIdStr)
	if err != nil {
		h.logger.Warn("Hub", "Invalid user id for frame", map[string]interface{}{"user_id": userIdStr})
		return
	}

	data, _ := json.Marshal(frame)

	// 1. Deliver to local connections
	h.mu.RLock()
	clients, localFound := h.clients[userID]
	h.mu.RUnlock()

	if localFound {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				// Unregister closes Send
				h.logger.Warn("Hub", "Client Send buffer full, dropping connection", map[string]interface{}{"user_id": userID})
				h.unregister <- client
			}
		}
	}

	// 2. Publish for other instances (multi-device across nodes)
	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_user_id": userID.String(),
			"message":        data,
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), clusterChannel, jsonPayload)
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to the cluster channel and delivers frames
	// for users it holds locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		uid, err := uuid.Parse(payload.TargetUserID)
		if err != nil {
			continue
		}

		h.mu.RLock()
		clients, ok := h.clients[uid]
		h.mu.RUnlock()

		if ok {
			for _, client := range clients {
				select {
				case client.Send <- payload.Message:
				default:
					h.unregister <- client
				}
			}
		}
	}
}
