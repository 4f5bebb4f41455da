package workers

import (
	"context"

	"herald/internal/domain/news"
	"herald/internal/services/digest"
	"herald/pkg/logger"
)

// Digest runs the aggregate-then-deliver flow for one subscriber.
type Digest interface {
	DeliverTo(ctx context.Context, sub news.Subscription) digest.Summary
}

// DigestJob delivers news digests to every subscriber whose cadence
// matches the job's frequency.
type DigestJob struct {
	name   string
	freq   news.Frequency
	subs   *news.SubscriptionStore
	digest Digest
	log    *logger.Logger
}

// NewDigestJob creates a delivery job for one cadence.
func NewDigestJob(name string, freq news.Frequency, subs *news.SubscriptionStore, d Digest) *DigestJob {
	return &DigestJob{
		name:   name,
		freq:   freq,
		subs:   subs,
		digest: d,
		log:    logger.Get().With("job", name),
	}
}

// Name returns the job identifier.
func (j *DigestJob) Name() string {
	return j.name
}

// Run resolves the matching subscribers and delivers to each in turn.
func (j *DigestJob) Run(ctx context.Context) error {
	subs := j.subs.ByFrequency(j.freq)
	if len(subs) == 0 {
		j.log.Debug("No subscribers for this cadence")
		return nil
	}

	j.log.Infof("Delivering to %d subscribers", len(subs))
	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		j.digest.DeliverTo(ctx, sub)
	}
	return nil
}
