package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nutrack/nutrack-engine/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

var _ domain.Delivery = (*RedisPublisher)(nil)

type pushPayload struct {
	UserID   string            `json:"user_id"`
	Title    string            `json:"title"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
	SentAt   time.Time         `json:"sent_at"`
}

// RedisPublisher pushes notifications onto a per-user pub/sub channel.
// Whatever real-time frontend is subscribed picks them up; with no
// subscriber the message is simply lost, which the notification log
// records as delivered=false.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) channel(userID string) string {
	return fmt.Sprintf("notifications:%s", userID)
}

func (p *RedisPublisher) Send(ctx context.Context, userID, title, message string, metadata map[string]string) bool {
	payload, err := json.Marshal(pushPayload{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Metadata: metadata,
		SentAt:   time.Now().UTC(),
	})
	if err != nil {
		log.Printf("[DELIVERY] Failed to marshal payload for user %s: %v", userID, err)
		return false
	}

	receivers, err := p.client.Publish(ctx, p.channel(userID), payload).Result()
	if err != nil {
		log.Printf("[DELIVERY] Redis publish error for user %s: %v", userID, err)
		return false
	}

	return receivers > 0
}
