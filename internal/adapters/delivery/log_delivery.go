package delivery

import (
	"context"
	"log"

	"github.com/nutrack/nutrack-engine/internal/core/domain"
)

var _ domain.Delivery = (*LogDelivery)(nil)

// LogDelivery is the fallback transport used when Redis is not
// configured. It writes the notification to the process log and
// always reports success.
type LogDelivery struct{}

func NewLogDelivery() *LogDelivery {
	return &LogDelivery{}
}

func (LogDelivery) Send(ctx context.Context, userID, title, message string, metadata map[string]string) bool {
	log.Printf("[NOTIFY] user=%s title=%q message=%q", userID, title, message)
	return true
}
