package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
	"github.com/Spielbergo/clipifyit-sub000/internal/logging"
)

// Subscriber delivers row change events for a scope's project until the
// returned unsubscribe function is called. fn runs on a background goroutine.
type Subscriber interface {
	Subscribe(ctx context.Context, scope models.Scope, fn func(models.Event)) (unsubscribe func(), err error)
}

// Publisher announces a row change to every subscriber of the row's project.
type Publisher interface {
	Publish(ctx context.Context, ev models.Event) error
}

// Connect parses a redis:// URL and checks the server is reachable.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// RedisSubscriber implements Subscriber with Redis Pub/Sub.
type RedisSubscriber struct {
	client *redis.Client
	log    logging.Logger
}

func NewRedisSubscriber(client *redis.Client, log logging.Logger) *RedisSubscriber {
	return &RedisSubscriber{client: client, log: log}
}

// Subscribe returns once the server has confirmed the subscription, so
// events published after it returns are not missed.
func (s *RedisSubscriber) Subscribe(ctx context.Context, scope models.Scope, fn func(models.Event)) (func(), error) {
	channel := Channel(scope.ProjectID)
	ps := s.client.Subscribe(ctx, channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	log := s.log.With("channel", channel)
	msgs := ps.Channel()
	go func() {
		for msg := range msgs {
			ev, err := decodeEvent([]byte(msg.Payload))
			if err != nil {
				log.Warn(context.Background(), "dropping malformed event", "error", err)
				continue
			}
			fn(ev)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := ps.Close(); err != nil {
				log.Warn(context.Background(), "unsubscribe failed", "error", err)
			}
		})
	}, nil
}

// RedisPublisher implements Publisher with Redis PUBLISH.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev models.Event) error {
	data, err := encodeEvent(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, Channel(ev.Row.ProjectID), data).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
