package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Tina-Mai/storm/pkg/bandit"
)

const (
	// SnapshotKey holds the JSON snapshot of the current run.
	SnapshotKey = "sim:current:snapshot"
	// SnapshotChannel carries every published snapshot.
	SnapshotChannel = "sim:snapshots"
)

// SetSnapshot stores the snapshot and publishes it to subscribers in one
// round trip.
func (c *Client) SetSnapshot(ctx context.Context, snap bandit.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, SnapshotKey, data, c.ttl)
		pipe.Publish(ctx, SnapshotChannel, data)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns the stored snapshot, or nil when none exists.
func (c *Client) GetSnapshot(ctx context.Context) (*bandit.Snapshot, error) {
	data, err := c.rdb.Get(ctx, SnapshotKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	var snap bandit.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Clear removes the stored snapshot.
func (c *Client) Clear(ctx context.Context) error {
	return c.rdb.Del(ctx, SnapshotKey).Err()
}

// Subscribe calls fn for every snapshot published on SnapshotChannel until
// ctx is canceled. Undecodable payloads are logged and skipped.
func (c *Client) Subscribe(ctx context.Context, fn func(bandit.Snapshot)) error {
	pubsub := c.rdb.Subscribe(ctx, SnapshotChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", SnapshotChannel, err)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var snap bandit.Snapshot
			if err := json.Unmarshal([]byte(msg.Payload), &snap); err != nil {
				log.Warn().Err(err).Msg("Skipping undecodable snapshot message")
				continue
			}
			fn(snap)
		}
	}
}
