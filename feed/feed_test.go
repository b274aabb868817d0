package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPublishReachesMatchSubscribersOnly(t *testing.T) {
	b := NewMemory()
	ctx := context.Background()

	var got []string
	cancel, err := b.Subscribe(ctx, "m1", func(p []byte) { got = append(got, string(p)) })
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "m1", []byte("a")))
	require.NoError(t, b.Publish(ctx, "m2", []byte("b")))
	assert.Equal(t, []string{"a"}, got)

	cancel()
	cancel()
	require.NoError(t, b.Publish(ctx, "m1", []byte("c")))
	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, 0, b.Subscribers("m1"))
}

func TestMemorySubscriptionEndsWithContext(t *testing.T) {
	b := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())

	_, err := b.Subscribe(ctx, "m1", func([]byte) {})
	require.NoError(t, err)
	assert.Equal(t, 1, b.Subscribers("m1"))

	cancel()
	assert.Eventually(t, func() bool { return b.Subscribers("m1") == 0 }, time.Second, 5*time.Millisecond)
}

func TestMemoryClosed(t *testing.T) {
	b := NewMemory()
	require.NoError(t, b.Close())

	_, err := b.Subscribe(context.Background(), "m1", func([]byte) {})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "matchmate:match:abc", Channel("abc"))
}
