package ratelimit

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/Sternrassler/renewables-client/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var credentialEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ninja_credential_events_total",
	Help: "Total credential usage events by outcome",
}, []string{"outcome"})

// Outcome is the result of one request made with a credential.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeRateLimited Outcome = "rate_limited"
	OutcomeInvalid     Outcome = "invalid"
	OutcomeError       Outcome = "error"
)

// Event describes one request made with a credential.
type Event struct {
	Credential string
	Outcome    Outcome
	At         time.Time
}

// Recorder receives credential usage events.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

// NopRecorder discards every event.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(context.Context, Event) error { return nil }

// Tracker stores credential usage counters in Redis.
type Tracker struct {
	redis  *redis.Client
	logger zerolog.Logger
}

// NewTracker creates a new credential usage tracker.
func NewTracker(redisClient *redis.Client, logger zerolog.Logger) *Tracker {
	return &Tracker{
		redis:  redisClient,
		logger: logger,
	}
}

// Record increments the counters of the event's credential.
func (t *Tracker) Record(ctx context.Context, ev Event) error {
	fp := credentials.Fingerprint(ev.Credential)
	if fp == "" {
		return fmt.Errorf("record credential event: empty credential")
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	key := RedisKeyPrefix + fp

	pipe := t.redis.Pipeline()
	pipe.HIncrBy(ctx, key, fieldRequests, 1)
	switch ev.Outcome {
	case OutcomeRateLimited:
		pipe.HIncrBy(ctx, key, fieldRateLimited, 1)
	case OutcomeInvalid:
		pipe.HIncrBy(ctx, key, fieldInvalid, 1)
	case OutcomeError:
		pipe.HIncrBy(ctx, key, fieldErrors, 1)
	}
	pipe.HSet(ctx, key, fieldLastUpdate, at.UTC().Format(time.RFC3339Nano))
	pipe.SAdd(ctx, RedisKeyIndex, fp)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store credential event in redis: %w", err)
	}

	credentialEventsTotal.WithLabelValues(string(ev.Outcome)).Inc()

	t.logger.Debug().
		Str("credential", fp).
		Str("outcome", string(ev.Outcome)).
		Msg("Credential event recorded")

	return nil
}

// GetState retrieves the usage of the credential with the given fingerprint.
// An unknown fingerprint yields a zero state.
func (t *Tracker) GetState(ctx context.Context, fingerprint string) (*CredentialState, error) {
	fields, err := t.redis.HGetAll(ctx, RedisKeyPrefix+fingerprint).Result()
	if err != nil {
		return nil, fmt.Errorf("get credential state: %w", err)
	}

	state := &CredentialState{Fingerprint: fingerprint}
	if len(fields) == 0 {
		return state, nil
	}

	counters := map[string]*int64{
		fieldRequests:    &state.Requests,
		fieldRateLimited: &state.RateLimited,
		fieldInvalid:     &state.Invalid,
		fieldErrors:      &state.Errors,
	}
	for name, dst := range counters {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		*dst = n
	}

	if raw := fields[fieldLastUpdate]; raw != "" {
		lastUpdate, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("parse last update: %w", err)
		}
		state.LastUpdate = lastUpdate
	}

	return state, nil
}

// States returns the usage of every credential seen so far, ordered by
// fingerprint.
func (t *Tracker) States(ctx context.Context) ([]*CredentialState, error) {
	fingerprints, err := t.redis.SMembers(ctx, RedisKeyIndex).Result()
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	sort.Strings(fingerprints)

	states := make([]*CredentialState, 0, len(fingerprints))
	for _, fp := range fingerprints {
		state, err := t.GetState(ctx, fp)
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}
	return states, nil
}
