package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/iamasit07/gravity-four/backend/internal/domain"
)

const movesPattern = "game:*:moves"

func movesChannel(gameID string) string {
	return fmt.Sprintf("game:%s:moves", gameID)
}

// MovePublisher publishes every move event on the game's channel so all
// instances can push it to their subscribers
type MovePublisher struct {
	client *redis.Client
}

func NewMovePublisher(client *redis.Client) *MovePublisher {
	return &MovePublisher{client: client}
}

func (p *MovePublisher) NotifyMove(ctx context.Context, event domain.MoveEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode move event: %w", err)
	}
	if err := p.client.Publish(ctx, movesChannel(event.GameUUID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish move for game %s: %w", event.GameUUID, err)
	}
	return nil
}

// MoveSink receives events relayed from Redis
type MoveSink interface {
	NotifyMove(ctx context.Context, event domain.MoveEvent) error
}

// RelayMoves forwards every published move to sink until ctx is done
func RelayMoves(ctx context.Context, client *redis.Client, sink MoveSink) error {
	sub := client.PSubscribe(ctx, movesPattern)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", movesPattern, err)
	}
	log.Printf("[REDIS] Relaying moves from %s", movesPattern)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event domain.MoveEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("[REDIS] Dropping malformed move on %s: %v", msg.Channel, err)
				continue
			}
			if err := sink.NotifyMove(ctx, event); err != nil {
				log.Printf("[REDIS] Error relaying move for game %s: %v", event.GameUUID, err)
			}
		}
	}
}
