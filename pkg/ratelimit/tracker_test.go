package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Sternrassler/renewables-client/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// setupTestRedis connects to a local Redis and skips when none is running.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNopRecorder(t *testing.T) {
	var rec Recorder = NopRecorder{}
	if err := rec.Record(context.Background(), Event{Credential: "tok", Outcome: OutcomeOK}); err != nil {
		t.Errorf("Record() error = %v, want nil", err)
	}
}

func TestTracker_RecordEmptyCredential(t *testing.T) {
	tracker := NewTracker(redis.NewClient(&redis.Options{Addr: "localhost:0"}), zerolog.Nop())

	if err := tracker.Record(context.Background(), Event{Outcome: OutcomeOK}); err == nil {
		t.Error("Record() with empty credential should fail")
	}
}

func TestTracker_RecordAndGetState(t *testing.T) {
	redisClient := setupTestRedis(t)
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	tracker := NewTracker(redisClient, logger)
	ctx := context.Background()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{Credential: "token-a", Outcome: OutcomeOK, At: at},
		{Credential: "token-a", Outcome: OutcomeRateLimited, At: at},
		{Credential: "token-a", Outcome: OutcomeError, At: at.Add(time.Second)},
		{Credential: "token-b", Outcome: OutcomeInvalid, At: at},
	}
	for _, ev := range events {
		if err := tracker.Record(ctx, ev); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	state, err := tracker.GetState(ctx, credentials.Fingerprint("token-a"))
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if state.Requests != 3 {
		t.Errorf("Requests = %d, want 3", state.Requests)
	}
	if state.RateLimited != 1 {
		t.Errorf("RateLimited = %d, want 1", state.RateLimited)
	}
	if state.Errors != 1 {
		t.Errorf("Errors = %d, want 1", state.Errors)
	}
	if !state.LastUpdate.Equal(at.Add(time.Second)) {
		t.Errorf("LastUpdate = %v, want %v", state.LastUpdate, at.Add(time.Second))
	}

	// raw tokens must never reach Redis
	keys, err := redisClient.Keys(ctx, "*token-a*").Result()
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("found raw token in redis keys: %v", keys)
	}
}

func TestTracker_GetStateUnknown(t *testing.T) {
	tracker := NewTracker(setupTestRedis(t), zerolog.Nop())

	state, err := tracker.GetState(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if state.Requests != 0 || !state.LastUpdate.IsZero() {
		t.Errorf("GetState() = %+v, want zero state", state)
	}
}

func TestTracker_States(t *testing.T) {
	tracker := NewTracker(setupTestRedis(t), zerolog.Nop())
	ctx := context.Background()

	for _, tok := range []string{"t1", "t2", "t3"} {
		if err := tracker.Record(ctx, Event{Credential: tok, Outcome: OutcomeOK}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	states, err := tracker.States(ctx)
	if err != nil {
		t.Fatalf("States() error = %v", err)
	}
	if len(states) != 3 {
		t.Fatalf("len(States()) = %d, want 3", len(states))
	}
	for i := 1; i < len(states); i++ {
		if states[i-1].Fingerprint > states[i].Fingerprint {
			t.Errorf("States() not ordered: %s > %s", states[i-1].Fingerprint, states[i].Fingerprint)
		}
	}
}
