package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-portfolio-api/internal/models"
)

func startTestNATSServer(t *testing.T) *natsserver.Server {
	t.Helper()
	server, err := natsserver.NewServer(&natsserver.Options{
		Host:   "127.0.0.1",
		Port:   -1,
		NoLog:  true,
		NoSigs: true,
	})
	require.NoError(t, err)

	go server.Start()
	if !server.ReadyForConnections(5 * time.Second) {
		t.Fatal("nats server not ready")
	}

	t.Cleanup(func() {
		server.Shutdown()
		server.WaitForShutdown()
	})
	return server
}

func TestReviewEventPublisherFansOut(t *testing.T) {
	ctx := context.Background()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	pubsub := redisClient.Subscribe(ctx, "portfolio:events:activity_reviewed")
	defer pubsub.Close()
	_, err = pubsub.Receive(ctx)
	require.NoError(t, err)

	natsServer := startTestNATSServer(t)
	nc, err := nats.Connect(natsServer.ClientURL())
	require.NoError(t, err)
	defer nc.Close()

	sub, err := nc.SubscribeSync("portfolio.events.activity.reviewed")
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	publisher := NewReviewEventPublisher(redisClient, "portfolio:events", nc)
	points := 50
	require.NoError(t, publisher.Publish(ctx, ReviewEvent{
		Action:        AuditActionApproved,
		ActivityID:    "act-1",
		StudentID:     "student-ana",
		ActorID:       "faculty-rina",
		Status:        models.ActivityStatusApproved,
		PointsAwarded: &points,
		OccurredAt:    fixtureNow,
	}))
	require.NoError(t, nc.Flush())

	select {
	case msg := <-pubsub.Channel():
		var event ReviewEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		require.Equal(t, "act-1", event.ActivityID)
		require.NotEmpty(t, event.Source)
		require.Equal(t, 50, *event.PointsAwarded)
	case <-time.After(2 * time.Second):
		t.Fatal("no redis message received")
	}

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	var event ReviewEvent
	require.NoError(t, json.Unmarshal(msg.Data, &event))
	require.Equal(t, models.ActivityStatusApproved, event.Status)
	require.True(t, fixtureNow.Equal(event.OccurredAt))
}

func TestReviewEventPublisherWithoutBrokers(t *testing.T) {
	publisher := NewReviewEventPublisher(nil, "", nil)
	require.NoError(t, publisher.Publish(context.Background(), ReviewEvent{Action: AuditActionRejected}))
}
