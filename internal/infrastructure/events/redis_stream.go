package events

import (
	"context"
	"strconv"

	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/fpl-hub/internal/domain/event"
)

// RedisStreamPublisher appends league events to a Redis stream.
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
}

// NewRedisClient parses redisURL and verifies the server answers.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, crerr.Wrap(err, "parse REDIS_URL")
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, crerr.Wrap(err, "ping redis")
	}
	return client, nil
}

func NewRedisStreamPublisher(client *redis.Client, stream string) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client, stream: stream}
}

// Publish writes every event in one pipeline. Entry ids are assigned by Redis.
func (p *RedisStreamPublisher) Publish(ctx context.Context, events ...event.LeagueEvent) error {
	if len(events) == 0 {
		return nil
	}

	args := make([]*redis.XAddArgs, 0, len(events))
	for _, ev := range events {
		values, err := streamValues(ev)
		if err != nil {
			return err
		}
		args = append(args, &redis.XAddArgs{Stream: p.stream, Values: values})
	}

	_, err := p.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, a := range args {
			pipe.XAdd(ctx, a)
		}
		return nil
	})
	if err != nil {
		return crerr.Wrapf(err, "xadd %d events to stream %s", len(events), p.stream)
	}
	return nil
}

func (p *RedisStreamPublisher) Close() error {
	return p.client.Close()
}

func streamValues(ev event.LeagueEvent) (map[string]any, error) {
	data, err := encode(ev)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"id":        ev.ID,
		"type":      string(ev.Type),
		"league_id": ev.LeagueID.String(),
		"data":      string(data),
		"timestamp": strconv.FormatInt(ev.OccurredAt.Unix(), 10),
	}, nil
}
