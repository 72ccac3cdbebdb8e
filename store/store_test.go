package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// opener creates a store for one context. Stores created by the same
// opener share their keys.
type opener func(t *testing.T, origin string) Store

func memoryOpener(t *testing.T) opener {
	bus := NewBus()
	return func(t *testing.T, origin string) Store {
		s := bus.Open(origin)
		t.Cleanup(func() { s.Close() })
		return s
	}
}

func redisOpener(t *testing.T) opener {
	mr := miniredis.RunT(t)
	return func(t *testing.T, origin string) Store {
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		s := NewRedis(client, origin, "")
		t.Cleanup(func() {
			s.Close()
			client.Close()
		})
		return s
	}
}

func backends(t *testing.T) map[string]opener {
	return map[string]opener{
		"memory": memoryOpener(t),
		"redis":  redisOpener(t),
	}
}

func receive(t *testing.T, ch <-chan Change) Change {
	t.Helper()
	select {
	case c, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
	}
	return Change{}
}

func expectSilence(t *testing.T, ch <-chan Change) {
	t.Helper()
	select {
	case c, ok := <-ch:
		if ok {
			t.Fatalf("unexpected change: %+v", c)
		}
	case <-time.After(100 * time.Millisecond):
	}
}

func TestGetMissing(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t, "a")
			v, ok, err := s.Get(context.Background(), "canvas")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, v)
		})
	}
}

func TestSetOverwrites(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a := open(t, "a")
			b := open(t, "b")

			require.NoError(t, a.Set(ctx, "canvas", "one"))
			require.NoError(t, b.Set(ctx, "canvas", "two"))

			for _, s := range []Store{a, b} {
				v, ok, err := s.Get(ctx, "canvas")
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, "two", v)
			}
		})
	}
}

func TestNotifiesOtherContextsOnly(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			a := open(t, "a")
			b := open(t, "b")

			subA, err := a.Subscribe(ctx, "canvas")
			require.NoError(t, err)
			subB, err := b.Subscribe(ctx, "canvas")
			require.NoError(t, err)

			require.NoError(t, a.Set(ctx, "canvas", "payload"))

			c := receive(t, subB)
			assert.Equal(t, Change{Key: "canvas", Value: "payload", Origin: "a"}, c)
			expectSilence(t, subA)
		})
	}
}

func TestIgnoresOtherKeys(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			a := open(t, "a")
			b := open(t, "b")

			sub, err := b.Subscribe(ctx, "canvas")
			require.NoError(t, err)

			require.NoError(t, a.Set(ctx, "other", "x"))
			expectSilence(t, sub)
		})
	}
}

func TestSubscriptionEndsWithContext(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			b := open(t, "b")

			sub, err := b.Subscribe(ctx, "canvas")
			require.NoError(t, err)
			cancel()

			select {
			case _, ok := <-sub:
				assert.False(t, ok)
			case <-time.After(2 * time.Second):
				t.Fatal("subscription not closed")
			}
		})
	}
}

func TestClosedStore(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t, "a")
			require.NoError(t, s.Close())

			assert.ErrorIs(t, s.Set(ctx, "canvas", "x"), ErrClosed)
			_, _, err := s.Get(ctx, "canvas")
			assert.ErrorIs(t, err, ErrClosed)
			_, err = s.Subscribe(ctx, "canvas")
			assert.ErrorIs(t, err, ErrClosed)
		})
	}
}

func TestMemoryKeepsNewestWhenFull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewBus()
	a := bus.Open("a")
	b := bus.Open("b")

	sub, err := b.Subscribe(ctx, "canvas")
	require.NoError(t, err)

	for i := 0; i < subscriptionBuffer*2; i++ {
		require.NoError(t, a.Set(ctx, "canvas", string(rune('a'+i))))
	}

	var last Change
	for len(sub) > 0 {
		last = <-sub
	}
	assert.Equal(t, string(rune('a'+subscriptionBuffer*2-1)), last.Value)
}

func TestRedisDropsMalformedPayload(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	a := NewRedis(client, "a", "")
	b := NewRedis(client, "b", "")
	defer a.Close()
	defer b.Close()

	sub, err := b.Subscribe(ctx, "canvas")
	require.NoError(t, err)

	mr.Publish(DefaultPrefix+"canvas:changes", "not json")
	require.NoError(t, a.Set(ctx, "canvas", "ok"))

	c := receive(t, sub)
	assert.Equal(t, "ok", c.Value)
}
