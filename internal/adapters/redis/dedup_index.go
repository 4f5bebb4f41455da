package redis

import (
	"context"

	"herald/pkg/errors"
)

// dedupKey is the set holding every delivered article link.
const dedupKey = "herald:sent_links"

// DedupIndex is the Redis-backed delivered-links index. SADD gives the
// atomic check-then-insert the index contract requires, and the set
// survives restarts so links are not redelivered after a redeploy.
type DedupIndex struct {
	client *Client
}

// NewDedupIndex creates a dedup index backed by the given Redis client.
func NewDedupIndex(client *Client) *DedupIndex {
	return &DedupIndex{client: client}
}

// Contains reports whether the link has been recorded.
func (d *DedupIndex) Contains(ctx context.Context, link string) (bool, error) {
	ok, err := d.client.rdb.SIsMember(ctx, dedupKey, link).Result()
	if err != nil {
		return false, errors.Wrap(err, "dedup index lookup")
	}
	return ok, nil
}

// Reserve records the link, returning true if this caller inserted it.
func (d *DedupIndex) Reserve(ctx context.Context, link string) (bool, error) {
	added, err := d.client.rdb.SAdd(ctx, dedupKey, link).Result()
	if err != nil {
		return false, errors.Wrap(err, "dedup index reserve")
	}
	return added == 1, nil
}

// Release removes a reserved link after a failed delivery.
func (d *DedupIndex) Release(ctx context.Context, link string) error {
	if err := d.client.rdb.SRem(ctx, dedupKey, link).Err(); err != nil {
		return errors.Wrap(err, "dedup index release")
	}
	return nil
}
