package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supercollab/model"
	"supercollab/program"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	require.NoError(t, client.Ping(context.Background()).Err())

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestRedisPublisher(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	pub := NewRedisPublisher(client, "test")
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	pub.now = func() time.Time { return fixed }

	sub := client.Subscribe(ctx, pub.Channel("ProjectStateUpdated"))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	messages := sub.Channel()

	ev := program.ProjectStateUpdated{ProjectID: model.NewPubkey(), NewState: model.StateCancelled}
	require.NoError(t, pub.Publish(ctx, "sig-1", ev))

	select {
	case msg := <-messages:
		assert.Equal(t, "test:ProjectStateUpdated", msg.Channel)

		var env Envelope
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &env))
		assert.NotEmpty(t, env.ID)
		assert.Equal(t, "sig-1", env.Signature)
		assert.Equal(t, "ProjectStateUpdated", env.Name)
		assert.True(t, fixed.Equal(env.EmittedAt))

		var got program.ProjectStateUpdated
		require.NoError(t, json.Unmarshal(env.Payload, &got))
		assert.Equal(t, ev, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no message published")
	}
}

func TestRedisPublisherDefaultPrefix(t *testing.T) {
	client, _ := setupTestRedis(t)
	pub := NewRedisPublisher(client, "")
	assert.Equal(t, "supercollab:events:ProjectCreated", pub.Channel("ProjectCreated"))
}

func TestRedisPublisherUnavailable(t *testing.T) {
	client, mr := setupTestRedis(t)
	pub := NewRedisPublisher(client, "test")
	mr.Close()

	err := pub.Publish(context.Background(), "sig", program.ProjectCreated{Name: "Alpha"})
	assert.Error(t, err)
}

func TestLogSink(t *testing.T) {
	assert.NoError(t, LogSink{}.Publish(context.Background(), "sig", program.ProjectCreated{Name: "Alpha"}))
}
