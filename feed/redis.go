package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// ErrClosed is returned by Subscribe after Close.
var ErrClosed = errors.New("feed: broker closed")

const channelPrefix = "matchmate:match:"

// Channel returns the pub/sub channel carrying changes of one match.
func Channel(matchID string) string {
	return channelPrefix + matchID
}

// Redis fans match changes out across server instances with Redis pub/sub.
type Redis struct {
	client *redis.Client
	log    *logrus.Entry
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		client: client,
		log:    logrus.WithField("component", "redis_feed"),
	}
}

func (r *Redis) Publish(ctx context.Context, matchID string, payload []byte) error {
	if err := r.client.Publish(ctx, Channel(matchID), payload).Err(); err != nil {
		return fmt.Errorf("publish match %s: %w", matchID, err)
	}
	return nil
}

func (r *Redis) Subscribe(ctx context.Context, matchID string, h Handler) (func(), error) {
	sub := r.client.Subscribe(ctx, Channel(matchID))

	// Wait for the subscription confirmation so no publish is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe match %s: %w", matchID, err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				h([]byte(msg.Payload))
			}
		}
	}()

	r.log.WithField("match_id", matchID).Debug("subscribed to match feed")
	return cancel, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
