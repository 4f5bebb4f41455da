package news

import (
	"sync"
	"time"
)

// SubscriptionStore holds subscriber preferences, keyed by subscriber ID.
// It is shared across concurrent job runs; reads take a snapshot and
// single-record updates are atomic. The pipeline never deletes records.
type SubscriptionStore struct {
	mu            sync.RWMutex
	subs          map[int64]*Subscription
	defaultTopics []Topic
	defaultFreq   Frequency
}

// NewSubscriptionStore creates a store seeding new subscribers with the
// given default topic set and frequency.
func NewSubscriptionStore(defaultTopics []Topic, defaultFreq Frequency) *SubscriptionStore {
	return &SubscriptionStore{
		subs:          make(map[int64]*Subscription),
		defaultTopics: defaultTopics,
		defaultFreq:   defaultFreq,
	}
}

// Ensure returns the subscriber's record, creating it with defaults on
// first interaction.
func (s *SubscriptionStore) Ensure(subscriberID int64) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[subscriberID]
	if !ok {
		sub = &Subscription{
			SubscriberID: subscriberID,
			Topics:       append([]Topic(nil), s.defaultTopics...),
			Frequency:    s.defaultFreq,
			LastUpdate:   time.Now(),
		}
		s.subs[subscriberID] = sub
	}
	return copySubscription(sub)
}

// Get returns a copy of the subscriber's record, if present.
func (s *SubscriptionStore) Get(subscriberID int64) (Subscription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[subscriberID]
	if !ok {
		return Subscription{}, false
	}
	return copySubscription(sub), true
}

// SetTopics replaces the subscriber's topic set, creating the record with
// the default frequency if needed.
func (s *SubscriptionStore) SetTopics(subscriberID int64, topics []Topic) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[subscriberID]
	if !ok {
		sub = &Subscription{SubscriberID: subscriberID, Frequency: s.defaultFreq}
		s.subs[subscriberID] = sub
	}
	sub.Topics = append([]Topic(nil), topics...)
	sub.LastUpdate = time.Now()
	return copySubscription(sub)
}

// SetFrequency replaces the subscriber's delivery cadence, creating the
// record with the default topics if needed.
func (s *SubscriptionStore) SetFrequency(subscriberID int64, freq Frequency) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[subscriberID]
	if !ok {
		sub = &Subscription{SubscriberID: subscriberID, Topics: append([]Topic(nil), s.defaultTopics...)}
		s.subs[subscriberID] = sub
	}
	sub.Frequency = freq
	sub.LastUpdate = time.Now()
	return copySubscription(sub)
}

// ByFrequency returns a consistent snapshot of all subscribers whose
// cadence matches freq.
func (s *SubscriptionStore) ByFrequency(freq Frequency) []Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		if sub.Frequency == freq {
			out = append(out, copySubscription(sub))
		}
	}
	return out
}

func copySubscription(sub *Subscription) Subscription {
	cp := *sub
	cp.Topics = append([]Topic(nil), sub.Topics...)
	return cp
}
