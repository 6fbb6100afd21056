// Package feed pushes newly stored reports to connected admin clients.
package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gokatarajesh/ingenieras/internal/report"
	ws "github.com/gokatarajesh/ingenieras/pkg/http/ws"
)

// DefaultChannel is the Redis channel carrying report events.
const DefaultChannel = "reports:new"

// EventFromReport builds the feed payload for a stored report.
func EventFromReport(rep report.Report) ws.ReportCreatedPayload {
	return ws.ReportCreatedPayload{
		Filename:    rep.Filename,
		ChallengeID: rep.ChallengeID,
		StudentName: rep.StudentName,
		Steps:       len(rep.Steps),
		Timestamp:   rep.Timestamp,
	}
}

// LocalPublisher delivers events straight to the in-process hub.
type LocalPublisher struct {
	hub *ws.Hub
}

// NewLocalPublisher creates a publisher for single-instance deployments.
func NewLocalPublisher(hub *ws.Hub) *LocalPublisher {
	return &LocalPublisher{hub: hub}
}

// Publish broadcasts rep to every connected client.
func (p *LocalPublisher) Publish(_ context.Context, rep report.Report) error {
	msg, err := ws.NewMessage(ws.TypeReportCreated, EventFromReport(rep))
	if err != nil {
		return fmt.Errorf("encode report event: %w", err)
	}
	return p.hub.BroadcastAll(msg)
}

// RedisPublisher sends events over Redis Pub/Sub so every replica's Broadcaster sees them.
type RedisPublisher struct {
	redis   *redis.Client
	channel string
}

// NewRedisPublisher creates a Pub/Sub publisher.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{redis: client, channel: channel}
}

// Publish sends rep to the feed channel.
func (p *RedisPublisher) Publish(ctx context.Context, rep report.Report) error {
	raw, err := json.Marshal(EventFromReport(rep))
	if err != nil {
		return fmt.Errorf("encode report event: %w", err)
	}
	if err := p.redis.Publish(ctx, p.channel, raw).Err(); err != nil {
		return fmt.Errorf("publish report event: %w", err)
	}
	return nil
}
