package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultPrefix is prepended to every key and channel name.
const DefaultPrefix = "canvasdemo:"

// Redis is a Store shared between processes through a Redis server.
// Values live in plain string keys; changes are announced on a pub/sub
// channel per key.
type Redis struct {
	client *redis.Client
	origin string
	prefix string

	mu     sync.Mutex
	subs   []*redis.PubSub
	closed bool
}

var _ Store = &Redis{}

// NewRedis creates a store for the context identified by origin.
// An empty prefix selects DefaultPrefix.
func NewRedis(client *redis.Client, origin, prefix string) *Redis {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Redis{
		client: client,
		origin: origin,
		prefix: prefix,
	}
}

func (r *Redis) valueKey(key string) string {
	return r.prefix + key
}

func (r *Redis) channel(key string) string {
	return r.prefix + key + ":changes"
}

// Origin returns the identifier of this context.
func (r *Redis) Origin() string {
	return r.origin
}

// Get returns the value stored under key.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	if r.isClosed() {
		return "", false, ErrClosed
	}

	v, err := r.client.Get(ctx, r.valueKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "redis: get %s", key)
	}
	return v, true, nil
}

// Set overwrites key with value and publishes the change.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	if r.isClosed() {
		return ErrClosed
	}

	payload, err := json.Marshal(Change{Key: key, Value: value, Origin: r.origin})
	if err != nil {
		return errors.Wrapf(err, "redis: encode change for %s", key)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.valueKey(key), value, 0)
	pipe.Publish(ctx, r.channel(key), payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "redis: set %s", key)
	}
	return nil
}

// Subscribe returns a channel receiving changes to key made by other contexts.
// It returns once the subscription is confirmed by the server.
func (r *Redis) Subscribe(ctx context.Context, key string) (<-chan Change, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}

	ps := r.client.Subscribe(ctx, r.channel(key))
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, errors.Wrapf(err, "redis: subscribe %s", key)
	}

	r.subs = append(r.subs, ps)

	out := make(chan Change, subscriptionBuffer)
	go r.forward(ctx, ps, out)
	return out, nil
}

// forward relays pub/sub messages from other origins to out until ctx
// is done or ps is closed.
func (r *Redis) forward(ctx context.Context, ps *redis.PubSub, out chan<- Change) {
	defer close(out)

	log := logrus.WithFields(logrus.Fields{
		"component": "store",
		"origin":    r.origin,
	})

	msgs := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			ps.Close()
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			var c Change
			if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
				log.WithField("channel", msg.Channel).Warnf("dropping malformed change: %v", err)
				continue
			}

			if c.Origin == r.origin {
				continue
			}

			select {
			case out <- c:
			case <-ctx.Done():
				ps.Close()
				return
			}
		}
	}
}

// Close ends all subscriptions. The redis client is owned by the caller
// and stays open.
func (r *Redis) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	for _, ps := range r.subs {
		// May already be closed by its forwarder.
		_ = ps.Close()
	}
	r.subs = nil
	return nil
}

func (r *Redis) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Dial connects to the Redis server at addr and verifies the connection.
func Dial(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "redis: ping %s", addr)
	}
	return client, nil
}
